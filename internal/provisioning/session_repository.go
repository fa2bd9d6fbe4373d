package provisioning

import (
	"fmt"
	"time"

	"panpanocha/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type SessionRepository struct {
	repository *repository.Repository
}

func NewSessionRepository(r *repository.Repository) *SessionRepository {
	return &SessionRepository{repository: r}
}

func (r *SessionRepository) GetSession(id string) (*Session, error) {
	var session Session
	query := r.repository.GoquDBWrapper.
		Select("id", "device_uid", "device_name", "status", "generated_auth_token", "assigned_branch_id", "organization_id", "created_at", "decided_at").
		From("provisioning_sessions").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&session)
	if err != nil {
		return nil, fmt.Errorf("failed to get provisioning session: %w", err)
	}
	if !found {
		return nil, ErrSessionNotFound
	}

	return &session, nil
}

func (r *SessionRepository) PersistSession(session *Session) error {
	query := r.repository.GoquDBWrapper.Insert("provisioning_sessions").
		Rows(goqu.Record{
			"id":          session.ID,
			"device_uid":  session.DeviceUID,
			"device_name": session.DeviceName,
			"status":      session.Status,
			"created_at":  session.CreatedAt,
		})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert provisioning session: %w", err)
	}

	return nil
}

// ApproveSession transitions a waiting session to approved with its
// credential and assignment. The WHERE clause guards the single-decision
// invariant; a session that is no longer waiting is not touched.
func (r *SessionRepository) ApproveSession(id, authToken, branchID, organizationID string) error {
	return r.decide(id, goqu.Record{
		"status":               StatusApproved,
		"generated_auth_token": authToken,
		"assigned_branch_id":   branchID,
		"organization_id":      organizationID,
		"decided_at":           time.Now(),
	})
}

func (r *SessionRepository) RejectSession(id string) error {
	return r.decide(id, goqu.Record{
		"status":     StatusRejected,
		"decided_at": time.Now(),
	})
}

func (r *SessionRepository) decide(id string, record goqu.Record) error {
	query := r.repository.GoquDBWrapper.Update("provisioning_sessions").
		Set(record).
		Where(goqu.Ex{
			"id":     id,
			"status": StatusWaiting,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update provisioning session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		// Either the session does not exist or it has been decided already.
		session, err := r.GetSession(id)
		if err != nil {
			return err
		}
		if session.Status != StatusWaiting {
			return ErrAlreadyDecided
		}
		return ErrSessionNotFound
	}

	return nil
}

func (r *SessionRepository) ListPending() ([]Session, error) {
	var sessions []Session
	query := r.repository.GoquDBWrapper.
		Select("id", "device_uid", "device_name", "status", "generated_auth_token", "assigned_branch_id", "organization_id", "created_at", "decided_at").
		From("provisioning_sessions").
		Where(goqu.Ex{"status": StatusWaiting}).
		Order(goqu.I("created_at").Asc())

	if err := query.Executor().ScanStructs(&sessions); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for provisioning sessions: %w", err)
	}

	return sessions, nil
}

// DeleteExpired removes undecided sessions older than the TTL. Wired to a
// periodic sweep in main.
func (r *SessionRepository) DeleteExpired(ttl time.Duration) (int64, error) {
	query := r.repository.GoquDBWrapper.Delete("provisioning_sessions").
		Where(goqu.Ex{"status": StatusWaiting}).
		Where(goqu.C("created_at").Lt(time.Now().Add(-ttl)))

	result, err := query.Executor().Exec()
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired provisioning sessions: %w", err)
	}

	return result.RowsAffected()
}

package provisioning

import (
	"errors"
	"fmt"
	"time"

	"panpanocha/pkg/security"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingSessionID = errors.New("session_id is required")
	ErrSessionNotFound  = errors.New("provisioning session not found")
	ErrAlreadyDecided   = errors.New("provisioning session already decided")
)

const sessionTokenBytes = 32

// SessionStore is the persistence surface the service needs. Satisfied by
// SessionRepository; mocked in tests.
type SessionStore interface {
	GetSession(id string) (*Session, error)
	PersistSession(session *Session) error
	ApproveSession(id, authToken, branchID, organizationID string) error
	RejectSession(id string) error
	ListPending() ([]Session, error)
}

type Service struct {
	store SessionStore
	log   *zap.Logger
}

func NewService(store SessionStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateSession registers a new waiting session for a device. The session
// id is a high-entropy capability token; knowing it is what authorizes
// polling.
func (s *Service) CreateSession(deviceName string) (*Session, error) {
	id, err := security.GenerateOpaqueToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &Session{
		ID:         id,
		DeviceUID:  uuid.NewString(),
		DeviceName: deviceName,
		Status:     StatusWaiting,
		CreatedAt:  time.Now(),
	}

	if err := s.store.PersistSession(session); err != nil {
		return nil, err
	}

	return session, nil
}

// Poll reports the session state the way the device is allowed to see it.
// Store failures and missing sessions collapse into ErrSessionNotFound so
// the caller cannot distinguish "does not exist" from "query failed".
func (s *Service) Poll(sessionID string) (*PollResult, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := s.store.GetSession(sessionID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.log.Warn("Session lookup failed", zap.Error(err))
		}
		return nil, ErrSessionNotFound
	}

	switch session.Status {
	case StatusApproved:
		if session.GeneratedAuthToken == nil || *session.GeneratedAuthToken == "" {
			// Approved without a credential is an inconsistent record; do
			// not hand out an approval the device cannot use.
			s.log.Warn("Approved session has no auth token, reporting waiting", zap.String("device_uid", session.DeviceUID))
			return &PollResult{Status: StatusWaiting}, nil
		}
		result := &PollResult{
			Status:    StatusApproved,
			AuthToken: *session.GeneratedAuthToken,
		}
		if session.AssignedBranchID != nil {
			result.BranchID = *session.AssignedBranchID
		}
		if session.OrganizationID != nil {
			result.OrganizationID = *session.OrganizationID
		}
		return result, nil
	case StatusRejected:
		return &PollResult{Status: StatusRejected}, nil
	default:
		return &PollResult{Status: StatusWaiting}, nil
	}
}

// Approve decides a waiting session: generates the device credential and
// stores it with the branch and organization assignment.
func (s *Service) Approve(sessionID, branchID, organizationID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	token, err := security.GenerateOpaqueToken(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to generate auth token: %w", err)
	}

	if err := s.store.ApproveSession(sessionID, token, branchID, organizationID); err != nil {
		return nil, err
	}

	return s.store.GetSession(sessionID)
}

func (s *Service) Reject(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	if err := s.store.RejectSession(sessionID); err != nil {
		return nil, err
	}

	return s.store.GetSession(sessionID)
}

func (s *Service) PendingSessions() ([]Session, error) {
	return s.store.ListPending()
}

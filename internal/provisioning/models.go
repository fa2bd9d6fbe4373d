package provisioning

import (
	"fmt"
	"time"

	"panpanocha/pkg/models"
)

// Status is the lifecycle state of a provisioning session. A session is
// created waiting and decided exactly once.
type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func NewStatus(value string) (Status, error) {
	status := Status(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid session status: %s", value)
	}
	return status, nil
}

func (s Status) isValid() bool {
	switch s {
	case StatusWaiting, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// Session is a short-lived device-onboarding record. The ID doubles as the
// capability token the device polls with, so it is always generated from a
// cryptographically secure source.
type Session struct {
	ID                 string     `json:"id" db:"id"`
	DeviceUID          string     `json:"device_uid" db:"device_uid"`
	DeviceName         string     `json:"device_name" db:"device_name"`
	Status             Status     `json:"status" db:"status"`
	GeneratedAuthToken *string    `json:"-" db:"generated_auth_token"`
	AssignedBranchID   *string    `json:"assigned_branch_id,omitempty" db:"assigned_branch_id"`
	OrganizationID     *string    `json:"organization_id,omitempty" db:"organization_id"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	DecidedAt          *time.Time `json:"decided_at,omitempty" db:"decided_at"`
}

// PollResult is what the polling device is allowed to see. Credential
// fields are only populated for an approved session.
type PollResult struct {
	Status         Status `json:"status"`
	AuthToken      string `json:"auth_token,omitempty"`
	BranchID       string `json:"branch_id,omitempty"`
	OrganizationID string `json:"organization_id,omitempty"`
}

type CreateSessionRequest struct {
	DeviceName string `json:"device_name" binding:"required"`
}

// DecisionRequest is the HMAC-signed payload the approver posts. The raw
// request body is what gets verified, so this struct is only unmarshalled
// after the signature check passes.
type DecisionRequest struct {
	SessionID      string `json:"session_id"`
	BranchID       string `json:"branch_id"`
	OrganizationID string `json:"organization_id"`
}

func (s *Session) CreateLogView() models.AuditLog {
	return models.AuditLog{
		ResourceID:   s.DeviceUID,
		ResourceType: "provisioning_session",
	}
}

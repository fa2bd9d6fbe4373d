package auditlog

import (
	"log"

	"panpanocha/internal/repository"
	"panpanocha/pkg/models"
)

type Auditlog struct {
	r *repository.Repository
}

// Auditable is implemented by entities whose mutations land in the audit
// trail (provisioning sessions, inventory items, branches).
type Auditable interface {
	CreateLogView() models.AuditLog
}

// Logger is what handlers depend on; satisfied by Auditlog and mocked in
// handler tests.
type Logger interface {
	Log(action string, data interface{}, item Auditable)
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)
	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(repository *repository.Repository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}

package repository

import (
	"context"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
)

// AuditRepository defines the interface for audit record persistence
type AuditRepository interface {
	// Create persists a new audit record
	Create(ctx context.Context, record *entity.AuditRecord) error

	// List returns audit records newest first with total count
	List(ctx context.Context, limit, offset int) ([]*entity.AuditRecord, int64, error)
}

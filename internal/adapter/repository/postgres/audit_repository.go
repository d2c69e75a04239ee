package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/domain/repository"
)

type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit record repository
func NewAuditRepository(db *gorm.DB) repository.AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, record *entity.AuditRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *auditRepository) List(ctx context.Context, limit, offset int) ([]*entity.AuditRecord, int64, error) {
	var records []*entity.AuditRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.AuditRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

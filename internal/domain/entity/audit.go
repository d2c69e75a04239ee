package entity

import (
	"time"

	"github.com/google/uuid"
)

// ModelType identifies which pipeline produced an audit record
type ModelType string

const (
	ModelTypeLocal   ModelType = "local"
	ModelTypeFewShot ModelType = "few_shot"
)

// AuditRecord is one persisted bias analysis. Result entities themselves are
// request-scoped; this is the durable summary backing the history view.
type AuditRecord struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Text             string    `json:"text" gorm:"type:text;not null"`
	PredictedLabel   string    `json:"predicted_label" gorm:"type:varchar(50);not null"`
	Confidence       float64   `json:"confidence" gorm:"type:decimal(5,4)"`
	AuditScore       int       `json:"audit_score" gorm:"not null"`
	ComplianceRating string    `json:"compliance_rating" gorm:"type:varchar(30);not null"`
	ModelType        ModelType `json:"model_type" gorm:"type:varchar(20);not null"`
	NumBiases        int       `json:"num_biases" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (AuditRecord) TableName() string {
	return "audit_records"
}

// NewAuditRecord creates a new AuditRecord
func NewAuditRecord(text string, label BiasLabel, confidence float64, score int, rating ComplianceRating, modelType ModelType, numBiases int) *AuditRecord {
	return &AuditRecord{
		ID:               uuid.New(),
		Text:             text,
		PredictedLabel:   string(label),
		Confidence:       confidence,
		AuditScore:       score,
		ComplianceRating: string(rating),
		ModelType:        modelType,
		NumBiases:        numBiases,
	}
}

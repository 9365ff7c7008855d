package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zapshift/parcel-backend/pkg/enums"
)

// Payment is a write-once success record for a parcel payment capture.
// Failed attempts are never stored. CreatedBy snapshots the parcel's
// creator at capture time so payment history survives parcel deletion.
type Payment struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID      uuid.UUID           `gorm:"column:parcel_id;type:uuid;not null;index"`
	CreatedBy     string              `gorm:"column:created_by;not null;index"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(10,2);not null"`
	Method        string              `gorm:"column:method;not null"`
	TransactionID *string             `gorm:"column:transaction_id"`
	Status        enums.PaymentStatus `gorm:"column:status;not null;default:'paid'"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}

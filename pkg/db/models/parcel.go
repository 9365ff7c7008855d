package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zapshift/parcel-backend/pkg/enums"
)

// Parcel is a shipment record tracked from creation to delivery.
//
// AssignedRiderID is non-nil exactly when the parcel has left the
// not_collected state; PaymentStatus flips unpaid -> paid at most once.
type Parcel struct {
	ID    uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Type  enums.ParcelType `gorm:"column:type;not null"`
	Title string           `gorm:"column:title;not null"`

	SenderName    string `gorm:"column:sender_name;not null"`
	SenderContact string `gorm:"column:sender_contact;not null"`
	SenderRegion  string `gorm:"column:sender_region;not null"`
	SenderCenter  string `gorm:"column:sender_center;not null"`
	SenderAddress string `gorm:"column:sender_address;not null"`

	ReceiverName    string `gorm:"column:receiver_name;not null"`
	ReceiverContact string `gorm:"column:receiver_contact;not null"`
	ReceiverRegion  string `gorm:"column:receiver_region;not null"`
	ReceiverCenter  string `gorm:"column:receiver_center;not null"`
	ReceiverAddress string `gorm:"column:receiver_address;not null"`

	PickupInstruction   string `gorm:"column:pickup_instruction;not null"`
	DeliveryInstruction string `gorm:"column:delivery_instruction;not null"`

	Cost      decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	CreatedBy string          `gorm:"column:created_by;not null;index"`

	DeliveryStatus enums.DeliveryStatus `gorm:"column:delivery_status;not null;default:'not_collected'"`
	PaymentStatus  enums.PaymentStatus  `gorm:"column:payment_status;not null;default:'unpaid'"`

	AssignedRiderID *uuid.UUID `gorm:"column:assigned_rider_id;type:uuid"`
	AssignedAt      *time.Time `gorm:"column:assigned_at"`

	PaymentID *uuid.UUID `gorm:"column:payment_id;type:uuid"`
	PaidAt    *time.Time `gorm:"column:paid_at"`

	// CreatedAtUnixMS is stamped once at creation and never rewritten; the
	// ISO-8601 form clients see is derived from CreatedAt.
	CreatedAtUnixMS int64     `gorm:"column:created_at_unix_ms;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

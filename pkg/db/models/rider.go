package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/pkg/enums"
)

// Rider is a courier account created by application and activated by an
// admin approval. WorkStatus only means anything once Status is approved.
type Rider struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string                `gorm:"column:name;not null"`
	Email      string                `gorm:"column:email;not null;index"`
	Contact    string                `gorm:"column:contact;not null"`
	Region     string                `gorm:"column:region;not null"`
	Warehouse  string                `gorm:"column:warehouse;not null"`
	Status     enums.RiderStatus     `gorm:"column:status;not null;default:'pending'"`
	WorkStatus enums.RiderWorkStatus `gorm:"column:work_status;not null;default:'idle'"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

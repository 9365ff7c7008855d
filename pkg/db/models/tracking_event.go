package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/pkg/enums"
)

// TrackingEvent is an append-only entry in a parcel's tracking feed.
type TrackingEvent struct {
	ID         uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ParcelID   uuid.UUID               `gorm:"column:parcel_id;type:uuid;not null;index"`
	EventType  enums.TrackingEventType `gorm:"column:event_type;not null"`
	Message    string                  `gorm:"column:message;not null"`
	ActorEmail string                  `gorm:"column:actor_email;not null"`
	CreatedAt  time.Time               `gorm:"column:created_at;autoCreateTime"`
}

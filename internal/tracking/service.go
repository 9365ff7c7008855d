package tracking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/pkg/enums"
	pkgerrors "github.com/zapshift/parcel-backend/pkg/errors"
)

// EventDTO is one entry in a parcel's tracking feed.
type EventDTO struct {
	ID         uuid.UUID               `json:"id"`
	ParcelID   uuid.UUID               `json:"parcelId"`
	EventType  enums.TrackingEventType `json:"eventType"`
	Message    string                  `json:"message"`
	ActorEmail string                  `json:"actorEmail"`
	CreatedAt  time.Time               `json:"createdAt"`
}

// Service reads the per-parcel event feed.
type Service interface {
	ListForParcel(ctx context.Context, parcelID string) ([]EventDTO, error)
}

type service struct {
	repo EventRepository
}

// NewService constructs the tracking feed reader.
func NewService(repo EventRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("tracking repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListForParcel(ctx context.Context, parcelID string) ([]EventDTO, error) {
	id, err := uuid.Parse(strings.TrimSpace(parcelID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid parcel id")
	}
	rows, err := s.repo.ListForParcel(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list tracking events")
	}
	out := make([]EventDTO, len(rows))
	for i, row := range rows {
		out[i] = EventDTO{
			ID:         row.ID,
			ParcelID:   row.ParcelID,
			EventType:  row.EventType,
			Message:    row.Message,
			ActorEmail: row.ActorEmail,
			CreatedAt:  row.CreatedAt,
		}
	}
	return out, nil
}

package riders

import (
	"time"

	"github.com/google/uuid"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// ApplyRequest is a rider application payload.
type ApplyRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Contact   string `json:"contact"`
	Region    string `json:"region"`
	Warehouse string `json:"warehouse"`
}

// SetStatusRequest finalizes a pending application. Email is optional; when
// present on approval the matching user is promoted to the rider role.
type SetStatusRequest struct {
	Status string `json:"status"`
	Email  string `json:"email,omitempty"`
}

// RiderDTO is the transport shape of a rider.
type RiderDTO struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Contact    string                `json:"contact"`
	Region     string                `json:"region"`
	Warehouse  string                `json:"warehouse"`
	Status     enums.RiderStatus     `json:"status"`
	WorkStatus enums.RiderWorkStatus `json:"workStatus"`
	CreatedAt  time.Time             `json:"createdAt"`
}

func FromModel(r *models.Rider) *RiderDTO {
	if r == nil {
		return nil
	}
	return &RiderDTO{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Contact:    r.Contact,
		Region:     r.Region,
		Warehouse:  r.Warehouse,
		Status:     r.Status,
		WorkStatus: r.WorkStatus,
		CreatedAt:  r.CreatedAt,
	}
}

func FromModels(rows []models.Rider) []RiderDTO {
	out := make([]RiderDTO, len(rows))
	for i := range rows {
		out[i] = *FromModel(&rows[i])
	}
	return out
}

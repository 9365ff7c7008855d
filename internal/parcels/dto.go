package parcels

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zapshift/parcel-backend/pkg/db/models"
	"github.com/zapshift/parcel-backend/pkg/enums"
)

// CreateParcelRequest is the submission payload. Required-field checking
// happens in the service so the error can name every missing field at once.
type CreateParcelRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`

	SenderName    string `json:"senderName"`
	SenderContact string `json:"senderContact"`
	SenderRegion  string `json:"senderRegion"`
	SenderCenter  string `json:"senderCenter"`
	SenderAddress string `json:"senderAddress"`

	ReceiverName    string `json:"receiverName"`
	ReceiverContact string `json:"receiverContact"`
	ReceiverRegion  string `json:"receiverRegion"`
	ReceiverCenter  string `json:"receiverCenter"`
	ReceiverAddress string `json:"receiverAddress"`

	PickupInstruction   string `json:"pickupInstruction"`
	DeliveryInstruction string `json:"deliveryInstruction"`

	Cost decimal.Decimal `json:"cost"`
}

// AssignRiderRequest carries the rider chosen for a parcel.
type AssignRiderRequest struct {
	RiderID string `json:"riderId"`
}

// ParcelDTO is the transport shape of a parcel.
type ParcelDTO struct {
	ID    uuid.UUID        `json:"id"`
	Type  enums.ParcelType `json:"type"`
	Title string           `json:"title"`

	SenderName    string `json:"senderName"`
	SenderContact string `json:"senderContact"`
	SenderRegion  string `json:"senderRegion"`
	SenderCenter  string `json:"senderCenter"`
	SenderAddress string `json:"senderAddress"`

	ReceiverName    string `json:"receiverName"`
	ReceiverContact string `json:"receiverContact"`
	ReceiverRegion  string `json:"receiverRegion"`
	ReceiverCenter  string `json:"receiverCenter"`
	ReceiverAddress string `json:"receiverAddress"`

	PickupInstruction   string `json:"pickupInstruction"`
	DeliveryInstruction string `json:"deliveryInstruction"`

	Cost      decimal.Decimal `json:"cost"`
	CreatedBy string          `json:"createdBy"`

	DeliveryStatus enums.DeliveryStatus `json:"deliveryStatus"`
	PaymentStatus  enums.PaymentStatus  `json:"paymentStatus"`

	AssignedRiderID *uuid.UUID `json:"assignedRiderId,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`

	PaymentID *uuid.UUID `json:"paymentId,omitempty"`
	PaidAt    *time.Time `json:"paidAt,omitempty"`

	CreationDate   time.Time `json:"creationDate"`
	CreationUnixMS int64     `json:"creationUnixMs"`
}

func FromModel(p *models.Parcel) *ParcelDTO {
	if p == nil {
		return nil
	}
	return &ParcelDTO{
		ID:                  p.ID,
		Type:                p.Type,
		Title:               p.Title,
		SenderName:          p.SenderName,
		SenderContact:       p.SenderContact,
		SenderRegion:        p.SenderRegion,
		SenderCenter:        p.SenderCenter,
		SenderAddress:       p.SenderAddress,
		ReceiverName:        p.ReceiverName,
		ReceiverContact:     p.ReceiverContact,
		ReceiverRegion:      p.ReceiverRegion,
		ReceiverCenter:      p.ReceiverCenter,
		ReceiverAddress:     p.ReceiverAddress,
		PickupInstruction:   p.PickupInstruction,
		DeliveryInstruction: p.DeliveryInstruction,
		Cost:                p.Cost,
		CreatedBy:           p.CreatedBy,
		DeliveryStatus:      p.DeliveryStatus,
		PaymentStatus:       p.PaymentStatus,
		AssignedRiderID:     p.AssignedRiderID,
		AssignedAt:          p.AssignedAt,
		PaymentID:           p.PaymentID,
		PaidAt:              p.PaidAt,
		CreationDate:        p.CreatedAt,
		CreationUnixMS:      p.CreatedAtUnixMS,
	}
}

func FromModels(rows []models.Parcel) []ParcelDTO {
	out := make([]ParcelDTO, len(rows))
	for i := range rows {
		out[i] = *FromModel(&rows[i])
	}
	return out
}

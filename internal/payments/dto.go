package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zapshift/parcel-backend/pkg/db/models"
)

// RecordPaymentRequest captures a successful payment against a parcel.
type RecordPaymentRequest struct {
	ParcelID      string          `json:"parcelId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transactionId,omitempty"`
}

// CreateIntentRequest asks the gateway for a client secret.
type CreateIntentRequest struct {
	AmountCents int64 `json:"amountCents" validate:"required,min=1"`
}

// PaymentDTO is the transport shape of a payment record.
type PaymentDTO struct {
	ID            uuid.UUID       `json:"id"`
	ParcelID      uuid.UUID       `json:"parcelId"`
	CreatedBy     string          `json:"createdBy"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID *string         `json:"transactionId,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:            p.ID,
		ParcelID:      p.ParcelID,
		CreatedBy:     p.CreatedBy,
		Amount:        p.Amount,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
	}
}

func FromModels(rows []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, len(rows))
	for i := range rows {
		out[i] = *FromModel(&rows[i])
	}
	return out
}

package enums

import "fmt"

// DeliveryStatus tracks a parcel's position in the shipment lifecycle.
type DeliveryStatus string

const (
	DeliveryStatusNotCollected DeliveryStatus = "not_collected"
	DeliveryStatusInTransit    DeliveryStatus = "in_transit"
	// DeliveryStatusDelivered is declared for completeness; no operation
	// currently transitions a parcel into it.
	DeliveryStatusDelivered DeliveryStatus = "delivered"
)

var validDeliveryStatuses = []DeliveryStatus{
	DeliveryStatusNotCollected,
	DeliveryStatusInTransit,
	DeliveryStatusDelivered,
}

// String implements fmt.Stringer.
func (d DeliveryStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryStatus.
func (d DeliveryStatus) IsValid() bool {
	for _, candidate := range validDeliveryStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryStatus converts raw input into a DeliveryStatus.
func ParseDeliveryStatus(value string) (DeliveryStatus, error) {
	for _, candidate := range validDeliveryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery status %q", value)
}

package enums

import "fmt"

// RiderWorkStatus reflects whether an approved rider is carrying a parcel.
// It is meaningful only once the rider is approved.
type RiderWorkStatus string

const (
	RiderWorkStatusIdle       RiderWorkStatus = "idle"
	RiderWorkStatusInDelivery RiderWorkStatus = "in_delivery"
)

var validRiderWorkStatuses = []RiderWorkStatus{
	RiderWorkStatusIdle,
	RiderWorkStatusInDelivery,
}

// String implements fmt.Stringer.
func (r RiderWorkStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RiderWorkStatus.
func (r RiderWorkStatus) IsValid() bool {
	for _, candidate := range validRiderWorkStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRiderWorkStatus converts raw input into a RiderWorkStatus.
func ParseRiderWorkStatus(value string) (RiderWorkStatus, error) {
	for _, candidate := range validRiderWorkStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rider work status %q", value)
}

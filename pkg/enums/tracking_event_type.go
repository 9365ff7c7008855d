package enums

import "fmt"

// TrackingEventType labels entries in a parcel's tracking feed.
type TrackingEventType string

const (
	TrackingEventParcelCreated   TrackingEventType = "parcel_created"
	TrackingEventPaymentRecorded TrackingEventType = "payment_recorded"
	TrackingEventRiderAssigned   TrackingEventType = "rider_assigned"
)

var validTrackingEventTypes = []TrackingEventType{
	TrackingEventParcelCreated,
	TrackingEventPaymentRecorded,
	TrackingEventRiderAssigned,
}

// String implements fmt.Stringer.
func (t TrackingEventType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TrackingEventType.
func (t TrackingEventType) IsValid() bool {
	for _, candidate := range validTrackingEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrackingEventType converts raw input into a TrackingEventType.
func ParseTrackingEventType(value string) (TrackingEventType, error) {
	for _, candidate := range validTrackingEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking event type %q", value)
}

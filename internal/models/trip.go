package models

import "time"

// Trip status literals stored on the wire. These are distinct from the
// event status vocabulary (reservation status id or the "oos" sentinel).
const (
	TripStatusRented       = "rented"
	TripStatusOutOfService = "out of service"
)

// OOSSentinel is the event status literal meaning "vehicle out of service".
// It is not a reservation status row; comparisons are case-insensitive.
const OOSSentinel = "oos"

// Trip is the currentTrip record embedded in a Vehicle while it is off the
// lot. It is created by checkout and cleared by the external check-in flow.
type Trip struct {
	Timestamp time.Time  `bson:"timestamp" json:"timestamp"`
	HandledBy string     `bson:"handledBy" json:"handledBy"`
	Status    string     `bson:"status" json:"status"` // "rented" or "out of service"
	LateAfter *time.Time `bson:"lateAfter" json:"lateAfter"` // nil means never considered late

	// Rented branch only.
	Driver string `bson:"driver,omitempty" json:"driver,omitempty"`
	Event  string `bson:"event,omitempty" json:"event,omitempty"` // source event id

	// Out-of-service branch only.
	OOSDescription string `bson:"oosDescription,omitempty" json:"oosDescription,omitempty"`
}

package models

// ReservationStatus is a row of the externally managed status lookup table.
type ReservationStatus struct {
	ID         string `bson:"_id" json:"id"`
	Name       string `bson:"name" json:"name"`
	Background string `bson:"background" json:"background"`
	Text       string `bson:"text" json:"text"`
}

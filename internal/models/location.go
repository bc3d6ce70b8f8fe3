package models

// RentalLocation is a pickup/return site. The ids are opaque foreign keys
// into externally managed lookup data.
type RentalLocation struct {
	ID    string `bson:"_id" json:"id"`
	Label string `bson:"label" json:"label"`
}

package models

// Vehicle represents a fleet vehicle. Vehicle records are owned by the
// external reservation system; this service only ever writes the
// currentTrip field.
type Vehicle struct {
	ID               string `bson:"_id" json:"id"`
	Make             string `bson:"make" json:"make"`
	Model            string `bson:"model" json:"model"`
	LicenseNo        string `bson:"licenseNo" json:"licenseNo"`
	VIN              string `bson:"vin" json:"vin"`
	ClassName        string `bson:"className" json:"className"`
	AssignedLocation string `bson:"assignedLocation" json:"assignedLocation"`
	Archived         bool   `bson:"archived" json:"archived"`
	Status           string `bson:"status,omitempty" json:"status,omitempty"` // vehicle status lookup id
	Clean            bool   `bson:"clean,omitempty" json:"clean,omitempty"`
	CurrentTrip      *Trip  `bson:"currentTrip,omitempty" json:"currentTrip,omitempty"`
}

// OffLot reports whether the vehicle is currently off the lot. The presence
// of currentTrip is the sole discriminator, independent of Status.
func (v *Vehicle) OffLot() bool {
	return v.CurrentTrip != nil
}

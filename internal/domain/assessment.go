package domain

// AssessmentResults is a dated snapshot of the four field tests a player
// runs during onboarding. Snapshots are immutable once recorded; new tests
// append to the profile's AssessmentHistory instead of editing old entries.
type AssessmentResults struct {
	Date       string  `bson:"date" json:"date"`
	Sprint100m float64 `bson:"sprint100m" json:"sprint100m"` // seconds
	Juggling   int     `bson:"juggling" json:"juggling"`     // touches
	Dribbling  float64 `bson:"dribbling" json:"dribbling"`   // seconds
	Plank      int     `bson:"plank" json:"plank"`           // seconds
}

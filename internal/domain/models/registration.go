// internal/domain/models/registration.go
package models

// RegistrationSummary is the typed projection of a registration used by
// duplicate reports and the per-user associated-registrations cache. Full
// registrations stay schema-less (docs.Document); only this slice of them
// has a stable shape.
type RegistrationSummary struct {
	UniqueID string `bson:"uniqueId" json:"uniqueId"`
	Name     string `bson:"name" json:"name"`
	Email    string `bson:"email" json:"email"`
}

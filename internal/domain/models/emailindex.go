// internal/domain/models/emailindex.go
package models

import "time"

// EmailIndexEntry maps a normalized email address to every registration
// uniqueId that carries it. Entries are keyed by the normalized email.
type EmailIndexEntry struct {
	Email     string    `bson:"email" json:"email"`
	UIDs      []string  `bson:"uids" json:"uids"` // deduplicated, sorted
	Count     int       `bson:"count" json:"count"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

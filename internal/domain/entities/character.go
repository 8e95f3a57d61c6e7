// Package entities contains core domain data structures.
package entities

import (
	"strings"
	"time"
)

// Character represents a member's role-play character on the community roster.
type Character struct {
	ID             string    `json:"id"`
	OwnerUserID    string    `json:"owner_user_id"`
	Name           string    `json:"name"`            // Original name (e.g., "Impa")
	NormalizedName string    `json:"normalized_name"` // Lowercase for matching (e.g., "impa")
	Race           string    `json:"race,omitempty"`
	Job            string    `json:"job,omitempty"`
	Village        string    `json:"village,omitempty"`
	Icon           string    `json:"icon,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Ref returns a snapshot reference to the character for embedding in
// relationship records.
func (c *Character) Ref() CharacterRef {
	return SnapshotRef(CharacterSnapshot{
		ID:      c.ID,
		Name:    c.Name,
		Race:    c.Race,
		Job:     c.Job,
		Village: c.Village,
		Icon:    c.Icon,
	})
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

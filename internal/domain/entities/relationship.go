package entities

import "time"

// RelType defines the kind of feeling one character holds toward another.
type RelType string

const (
	RelLover     RelType = "lover"
	RelFamily    RelType = "family"
	RelFriend    RelType = "friend"
	RelAlly      RelType = "ally"
	RelRival     RelType = "rival"
	RelEnemy     RelType = "enemy"
	RelRespect   RelType = "respect"
	RelCuriosity RelType = "curiosity"
	RelDistrust  RelType = "distrust"
	RelNeutral   RelType = "neutral"
)

// NoteMaxLength caps the free-text note on a relationship record.
const NoteMaxLength = 1000

// Relationship represents one character's one-way stated feelings toward
// another character. Two records may exist for the same unordered pair, one
// authored from each side, and they are fully independent.
type Relationship struct {
	ID          string       `json:"id"`
	OwnerUserID string       `json:"owner_user_id"`
	Source      CharacterRef `json:"source"`
	Target      CharacterRef `json:"target"`
	Types       []RelType    `json:"types"`
	Note        string       `json:"note,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// PrimaryType returns the first-listed type tag, which drives the display
// color and icon. Records are created with at least one tag, but a record
// that somehow reaches us with an empty list falls back to neutral.
func (r *Relationship) PrimaryType() RelType {
	if len(r.Types) == 0 {
		return RelNeutral
	}
	return r.Types[0]
}

// HasType reports whether the record carries the given tag.
func (r *Relationship) HasType(t RelType) bool {
	for _, rt := range r.Types {
		if rt == t {
			return true
		}
	}
	return false
}

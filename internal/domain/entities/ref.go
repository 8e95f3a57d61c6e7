package entities

import (
	"encoding/json"
	"fmt"
)

// CharacterSnapshot is a denormalized display copy of a character attached to
// a relationship record. It may lag behind the roster entry it was taken from.
type CharacterSnapshot struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Race    string `json:"race,omitempty"`
	Job     string `json:"job,omitempty"`
	Village string `json:"village,omitempty"`
	Icon    string `json:"icon,omitempty"`
}

// CharacterRef points at a character either by bare ID or by a full snapshot.
// Legacy records carry only the ID; newer ones carry the snapshot. Either way
// ID() yields the character id, and Snapshot() reports whether display data
// is available.
type CharacterRef struct {
	id       string
	snapshot *CharacterSnapshot
}

// IDRef builds a bare-id reference.
func IDRef(id string) CharacterRef {
	return CharacterRef{id: id}
}

// SnapshotRef builds a reference carrying display data.
func SnapshotRef(s CharacterSnapshot) CharacterRef {
	return CharacterRef{id: s.ID, snapshot: &s}
}

// ID returns the referenced character id, or "" when the reference is empty
// or malformed.
func (r CharacterRef) ID() string {
	return r.id
}

// Snapshot returns the display snapshot if one is attached.
func (r CharacterRef) Snapshot() (CharacterSnapshot, bool) {
	if r.snapshot == nil {
		return CharacterSnapshot{}, false
	}
	return *r.snapshot, true
}

// IsZero reports whether the reference resolves to no character at all.
func (r CharacterRef) IsZero() bool {
	return r.id == ""
}

// MarshalJSON encodes a bare-id reference as a JSON string and a snapshot
// reference as an object, matching what the dashboard API has historically
// served.
func (r CharacterRef) MarshalJSON() ([]byte, error) {
	if r.snapshot != nil {
		return json.Marshal(r.snapshot)
	}
	return json.Marshal(r.id)
}

// UnmarshalJSON accepts either form. Anything else leaves the reference zero
// rather than failing, so one corrupt record cannot poison a whole payload.
func (r *CharacterRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*r = CharacterRef{id: id}
		return nil
	}

	var snap CharacterSnapshot
	if err := json.Unmarshal(data, &snap); err == nil {
		if snap.ID == "" {
			*r = CharacterRef{}
			return nil
		}
		*r = SnapshotRef(snap)
		return nil
	}

	*r = CharacterRef{}
	return nil
}

// String implements fmt.Stringer for log output.
func (r CharacterRef) String() string {
	if r.snapshot != nil {
		return fmt.Sprintf("%s (%s)", r.snapshot.Name, r.id)
	}
	return r.id
}

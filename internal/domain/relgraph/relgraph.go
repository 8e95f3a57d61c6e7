// Package relgraph derives per-character relationship views from flat lists
// of directed relationship records. Everything here is pure: no I/O, no
// mutation of inputs, deterministic for identical inputs-in-order.
package relgraph

import "github.com/castletown/compendium/internal/domain/entities"

// PairView combines up to one outgoing and one incoming relationship record
// for a single counterpart character. At least one of the two is always set.
type PairView struct {
	CounterpartID string                      `json:"counterpart_id"`
	Counterpart   *entities.CharacterSnapshot `json:"counterpart,omitempty"`
	Outgoing      *entities.Relationship      `json:"outgoing,omitempty"`
	Incoming      *entities.Relationship      `json:"incoming,omitempty"`
}

// AggregatePairs merges a focal character's outgoing and incoming records
// into one ordered view per distinct counterpart. Output order is first-seen
// order: all counterparts reached via outgoing records (in input order), then
// any that only appear on the incoming side.
//
// Records whose counterpart reference does not resolve to an id are skipped;
// one corrupt record must not block rendering of the rest. If several
// outgoing (or incoming) records name the same counterpart, the last one
// wins for that slot.
func AggregatePairs(outgoing, incoming []entities.Relationship) []PairView {
	index := make(map[string]int, len(outgoing)+len(incoming))
	views := make([]PairView, 0, len(outgoing)+len(incoming))

	entry := func(ref entities.CharacterRef) *PairView {
		id := ref.ID()
		if id == "" {
			return nil
		}
		if i, ok := index[id]; ok {
			v := &views[i]
			if v.Counterpart == nil {
				if snap, ok := ref.Snapshot(); ok {
					v.Counterpart = &snap
				}
			}
			return v
		}
		view := PairView{CounterpartID: id}
		if snap, ok := ref.Snapshot(); ok {
			view.Counterpart = &snap
		}
		index[id] = len(views)
		views = append(views, view)
		return &views[len(views)-1]
	}

	for i := range outgoing {
		rel := outgoing[i]
		if v := entry(rel.Target); v != nil {
			v.Outgoing = &rel
		}
	}
	for i := range incoming {
		rel := incoming[i]
		if v := entry(rel.Source); v != nil {
			v.Incoming = &rel
		}
	}

	return views
}

// CountReferences counts, over a roster's full relationship set, how many
// records reference each character in either role. Each side of a record
// resolves independently; an unresolvable side is skipped without dropping
// the other. Characters with no records are simply absent, so callers treat
// a missing key as zero.
func CountReferences(all []entities.Relationship) map[string]int {
	counts := make(map[string]int)
	for i := range all {
		if id := all[i].Source.ID(); id != "" {
			counts[id]++
		}
		if id := all[i].Target.ID(); id != "" {
			counts[id]++
		}
	}
	return counts
}

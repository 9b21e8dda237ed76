// Package workset maintains the operator's active working set: an ordered,
// capacity-bounded list of pinned project ids plus a single optional
// selection. Pinning and selection are coupled one-directionally: selecting a
// project pins it, pinning alone never selects.
package workset

// Capacity is the maximum number of pinned projects.
const Capacity = 8

// Visibility reports whether the project with the given id is visible under
// the active mode. Callers inject it so the set never depends on the project
// store directly.
type Visibility func(id string) bool

// Set holds the pinned ids (most recently pinned first) and the selected id.
// It is not safe for concurrent use; the orchestrator serializes access.
type Set struct {
	pinned   []string
	selected string
}

// Pinned returns a copy of the pinned ids, most recent first.
func (s *Set) Pinned() []string {
	out := make([]string, len(s.pinned))
	copy(out, s.pinned)
	return out
}

// Selected returns the selected project id, or "" when nothing is selected.
func (s *Set) Selected() string {
	return s.selected
}

// IsPinned reports whether id is in the pinned list.
func (s *Set) IsPinned(id string) bool {
	return s.indexOf(id) >= 0
}

// Pin adds id to the front of the pinned list. Already-pinned ids keep their
// position; over capacity the oldest pin is evicted.
func (s *Set) Pin(id string) {
	if id == "" || s.IsPinned(id) {
		return
	}
	s.pinned = append([]string{id}, s.pinned...)
	if len(s.pinned) > Capacity {
		s.pinned = s.pinned[:Capacity]
	}
}

// Unpin removes id from the pinned list. If id was selected, the selection
// moves to the first remaining pinned id that is visible, or clears.
func (s *Set) Unpin(id string, visible Visibility) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.pinned = append(s.pinned[:i], s.pinned[i+1:]...)
	if s.selected == id {
		s.selected = s.firstVisible(visible)
	}
}

// Select sets the selection and pins the id as a side effect.
func (s *Set) Select(id string) {
	if id == "" {
		s.selected = ""
		return
	}
	s.Pin(id)
	s.selected = id
}

// Revalidate re-checks the selection after a mode switch. An empty selection
// stays empty; an invisible one is replaced by the first visible pinned id,
// or cleared. The pinned list itself is never mutated: pins persist across
// mode changes even while invisible.
func (s *Set) Revalidate(visible Visibility) {
	if s.selected == "" {
		return
	}
	if visible != nil && visible(s.selected) {
		return
	}
	s.selected = s.firstVisible(visible)
}

// Normalize repairs a set loaded from a persisted document: ids not in known
// are dropped, duplicates collapse keeping the first occurrence, the list is
// truncated to capacity, and a selection that no longer names a known project
// is cleared.
func (s *Set) Normalize(known map[string]bool) {
	seen := make(map[string]bool, len(s.pinned))
	kept := s.pinned[:0]
	for _, id := range s.pinned {
		if id == "" || seen[id] || !known[id] {
			continue
		}
		seen[id] = true
		kept = append(kept, id)
		if len(kept) == Capacity {
			break
		}
	}
	s.pinned = kept
	if s.selected != "" && !known[s.selected] {
		s.selected = ""
	}
}

// Restore replaces the set's contents wholesale. Used when loading persisted
// state; callers normalize afterwards.
func (s *Set) Restore(pinned []string, selected string) {
	s.pinned = append([]string(nil), pinned...)
	s.selected = selected
}

func (s *Set) indexOf(id string) int {
	for i, p := range s.pinned {
		if p == id {
			return i
		}
	}
	return -1
}

func (s *Set) firstVisible(visible Visibility) string {
	for _, id := range s.pinned {
		if visible == nil || visible(id) {
			return id
		}
	}
	return ""
}

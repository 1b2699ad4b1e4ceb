package acquisition

import "strings"

// Selection is the ordered, duplicate-free set of electrodes picked by the user.
// Identity is case-insensitive; the first spelling seen is kept.
// Not safe for concurrent use; the Store guards it.
type Selection struct {
	ids         []string
	lastClicked string
}

func (s *Selection) indexOf(id string) int {
	for i, v := range s.ids {
		if strings.EqualFold(v, id) {
			return i
		}
	}
	return -1
}

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool {
	return s.indexOf(id) >= 0
}

// Toggle adds id if absent or removes it if present, records it as the last
// clicked electrode and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	s.lastClicked = id
	if i := s.indexOf(id); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// SetAll replaces the selection with ids, dropping duplicates and keeping
// first-seen order. The last clicked marker is left untouched.
func (s *Selection) SetAll(ids []string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		dup := false
		for _, v := range next {
			if strings.EqualFold(v, id) {
				dup = true
				break
			}
		}
		if !dup {
			next = append(next, id)
		}
	}
	s.ids = next
}

// Clear empties the selection and the last clicked marker.
func (s *Selection) Clear() {
	s.ids = nil
	s.lastClicked = ""
}

// IDs returns a copy of the selected electrodes in insertion order.
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// LastClicked returns the electrode most recently passed to Toggle.
func (s *Selection) LastClicked() string {
	return s.lastClicked
}

// Len returns the number of selected electrodes.
func (s *Selection) Len() int {
	return len(s.ids)
}

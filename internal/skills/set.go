// Package skills provides the user-managed skill collection shared by the
// job recommendation and learning path workflows.
package skills

import (
	"encoding/json"
	"strings"
)

// Set is a deduplicated, case-normalized collection of skills.
// Insertion order is preserved for display. The zero value is ready to use.
// A Set is not safe for concurrent writes; share it read-only or guard it.
type Set struct {
	items []string
	index map[string]struct{}
}

// NewSet builds a Set from raw skill strings, applying Add to each one.
func NewSet(raw ...string) *Set {
	s := &Set{}
	for _, r := range raw {
		s.Add(r)
	}
	return s
}

// Normalize trims and lowercases a skill. It is the comparison key for the Set.
func Normalize(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

// Add inserts the normalized skill. It returns false when the skill is empty
// after trimming or already present.
func (s *Set) Add(skill string) bool {
	n := Normalize(skill)
	if n == "" {
		return false
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	if _, ok := s.index[n]; ok {
		return false
	}
	s.index[n] = struct{}{}
	s.items = append(s.items, n)
	return true
}

// Remove deletes the skill, comparing after normalization. It returns false
// when the skill was not present.
func (s *Set) Remove(skill string) bool {
	n := Normalize(skill)
	if _, ok := s.index[n]; !ok {
		return false
	}
	delete(s.index, n)
	for i, item := range s.items {
		if item == n {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the normalized skill is in the set.
func (s *Set) Contains(skill string) bool {
	_, ok := s.index[Normalize(skill)]
	return ok
}

// Len returns the number of skills.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// IsEmpty reports whether the set holds no skills.
func (s *Set) IsEmpty() bool {
	return s.Len() == 0
}

// Values returns a copy of the skills in insertion order.
func (s *Set) Values() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// String joins the skills with ", ".
func (s *Set) String() string {
	return strings.Join(s.Values(), ", ")
}

// MarshalJSON encodes the set as a JSON array in insertion order.
func (s *Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON decodes a JSON array, normalizing and deduplicating entries.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Set{}
	for _, r := range raw {
		s.Add(r)
	}
	return nil
}

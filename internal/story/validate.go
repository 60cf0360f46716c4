package story

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyID           = errors.New("story id is empty")
	ErrMissingStart      = errors.New("start section not found")
	ErrBrokenChoice      = errors.New("choice points at a missing section")
	ErrDeadEnd           = errors.New("section has no choices and is not an ending")
	ErrInvalidEndingType = errors.New("invalid ending type")
	ErrNilSection        = errors.New("section is null")
)

// Validate checks the structural invariants of a story graph and returns every
// problem found, joined. Unreachable sections are allowed.
func Validate(s *Story) error {
	if s == nil {
		return errors.New("story is nil")
	}

	var errs []error
	if s.ID == "" {
		errs = append(errs, ErrEmptyID)
	}
	if s.Start() == nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrMissingStart, s.StartSection))
	}

	// Sorted so the report is stable across runs
	ids := make([]string, 0, len(s.Sections))
	for id := range s.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		section := s.Sections[id]
		if section == nil {
			errs = append(errs, fmt.Errorf("section %q: %w", id, ErrNilSection))
			continue
		}
		if section.IsDeadEnd() {
			errs = append(errs, fmt.Errorf("section %q: %w", id, ErrDeadEnd))
		}
		if !section.EndingType.Valid() {
			errs = append(errs, fmt.Errorf("section %q: %w: %q", id, ErrInvalidEndingType, section.EndingType))
		}
		for i, c := range section.Choices {
			if s.Section(c.NextID) == nil {
				errs = append(errs, fmt.Errorf("section %q choice %d: %w: %q", id, i+1, ErrBrokenChoice, c.NextID))
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("story %q: %w", s.ID, errors.Join(errs...))
}

package story

import (
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when two stories share an id.
var ErrDuplicateID = errors.New("duplicate story id")

// Registry holds loaded stories in load order and indexes them by id.
type Registry struct {
	stories []*Story
	byID    map[string]*Story
}

// NewRegistry creates a registry from loaded stories.
func NewRegistry(stories []*Story) (*Registry, error) {
	registry := &Registry{
		stories: stories,
		byID:    make(map[string]*Story, len(stories)),
	}
	for _, s := range stories {
		if _, ok := registry.byID[s.ID]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, s.ID)
		}
		registry.byID[s.ID] = s
	}
	return registry, nil
}

// GetByID returns the story with the given id, or nil if not found.
func (r *Registry) GetByID(id string) *Story {
	return r.byID[id]
}

// IndexOf returns the 1-based menu index of the story with the given id, or 0.
func (r *Registry) IndexOf(id string) int {
	for i, s := range r.stories {
		if s.ID == id {
			return i + 1
		}
	}
	return 0
}

// All returns all stories in load order.
func (r *Registry) All() []*Story {
	return r.stories
}

// Count returns the number of stories in the registry.
func (r *Registry) Count() int {
	return len(r.stories)
}

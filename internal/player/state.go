// Package player provides the story session state machine.
package player

import "github.com/samdwyer/gamebook/internal/story"

// Phase is the discriminant of a State.
type Phase int

const (
	// PhaseLoading is the initial phase, before any stories are loaded.
	PhaseLoading Phase = iota
	// PhaseMenu lists the available stories.
	PhaseMenu
	// PhasePlaying is inside a story, waiting for a choice.
	PhasePlaying
	// PhaseEnded has reached an ending section.
	PhaseEnded
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseMenu:
		return "menu"
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// State is the session state. It is one of Loading, Menu, Playing or Ended.
type State interface {
	Phase() Phase
	sealed()
}

// Loading is the state of a player before LoadStories.
type Loading struct{}

// Menu offers the loaded stories.
type Menu struct {
	Stories []*story.Story
}

// Playing is positioned on a choice section of a story.
type Playing struct {
	Story     *story.Story
	SectionID string
	Section   *story.Section
}

// Ended holds the ending section reached, with its id.
type Ended struct {
	Story     *story.Story
	SectionID string
	Section   *story.Section
}

func (Loading) Phase() Phase { return PhaseLoading }
func (Menu) Phase() Phase    { return PhaseMenu }
func (Playing) Phase() Phase { return PhasePlaying }
func (Ended) Phase() Phase   { return PhaseEnded }

func (Loading) sealed() {}
func (Menu) sealed()    {}
func (Playing) sealed() {}
func (Ended) sealed()   {}

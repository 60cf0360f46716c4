// Package story provides the branching-narrative data model, its decoders and
// the stores that supply stories to the player.
package story

// =============================================================================
// STORY GRAPH
// =============================================================================
//
// A story is a directed graph of named sections. Each section is either a
// choice section (it lists one or more choices, each pointing at another
// section by id) or an ending section (is_ending is set). Play starts at
// start_section.
//
// JSON Schema:
// ------------
// {
//   "id": "lighthouse",
//   "title": "The Lighthouse Keeper",
//   "start_section": "intro",
//   "sections": {
//     "intro": {
//       "text": "The lamp has gone dark...",
//       "choices": [{"label": "Climb the stairs", "next_id": "stairs"}]
//     },
//     "stairs": {"text": "...", "is_ending": true, "ending_type": "good"}
//   }
// }
//
// Audio:
// ------
// Every section has a narration file named after the story and section ids,
// see AudioURLs.

// EndingType classifies an ending for narrative framing.
type EndingType string

const (
	EndingNone    EndingType = ""
	EndingGood    EndingType = "good"
	EndingBad     EndingType = "bad"
	EndingNeutral EndingType = "neutral"
)

// Valid reports whether the ending type is one of the known values or unset.
func (e EndingType) Valid() bool {
	switch e {
	case EndingNone, EndingGood, EndingBad, EndingNeutral:
		return true
	default:
		return false
	}
}

// Choice is one outgoing edge of a section.
type Choice struct {
	Label  string `json:"label" yaml:"label"`
	NextID string `json:"next_id" yaml:"next_id"`
}

// Section is one node of a story graph.
type Section struct {
	Text       string     `json:"text" yaml:"text"`
	Choices    []Choice   `json:"choices,omitempty" yaml:"choices,omitempty"`
	IsEnding   bool       `json:"is_ending,omitempty" yaml:"is_ending,omitempty"`
	EndingType EndingType `json:"ending_type,omitempty" yaml:"ending_type,omitempty"`
}

// IsChoice returns true if the section offers at least one choice.
func (s *Section) IsChoice() bool {
	return len(s.Choices) > 0
}

// IsDeadEnd returns true if the section has no way forward and is not an ending.
func (s *Section) IsDeadEnd() bool {
	return !s.IsEnding && len(s.Choices) == 0
}

// Choice returns the choice at a 1-based index, or nil if out of range.
func (s *Section) Choice(index int) *Choice {
	if index < 1 || index > len(s.Choices) {
		return nil
	}
	return &s.Choices[index-1]
}

// Story is a complete branching narrative.
type Story struct {
	ID           string              `json:"id" yaml:"id"`
	Title        string              `json:"title" yaml:"title"`
	StartSection string              `json:"start_section" yaml:"start_section"`
	Sections     map[string]*Section `json:"sections" yaml:"sections"`
}

// Section returns the section with the given id, or nil if not found.
func (s *Story) Section(id string) *Section {
	return s.Sections[id]
}

// Start returns the start section, or nil if start_section does not resolve.
func (s *Story) Start() *Section {
	return s.Sections[s.StartSection]
}

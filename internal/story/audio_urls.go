package story

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the raw content root of the upstream gamebook backend.
const DefaultBaseURL = "https://raw.githubusercontent.com/bobby-sills/telephone-gamebook-backend/main"

// AudioURLs maps story sections to their narration files under BaseURL.
type AudioURLs struct {
	BaseURL string
}

// NewAudioURLs creates a resolver rooted at baseURL, or DefaultBaseURL if empty.
func NewAudioURLs(baseURL string) AudioURLs {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return AudioURLs{BaseURL: strings.TrimRight(baseURL, "/")}
}

// SectionAudioURL returns the narration URL for a section of a story.
func (a AudioURLs) SectionAudioURL(storyID, sectionID string) string {
	return a.BaseURL + "/public/" + url.PathEscape(storyID) + "/" + url.PathEscape(sectionID) + ".mp3"
}

// WelcomeAudioURL returns the narration URL for the story menu.
func (a AudioURLs) WelcomeAudioURL() string {
	return a.BaseURL + "/public/welcome.mp3"
}

package player

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/samdwyer/gamebook/internal/audio"
	"github.com/samdwyer/gamebook/internal/story"
	"github.com/samdwyer/gamebook/internal/telemetry"
)

// AudioResolver maps states to narration URLs. Both methods must be pure.
type AudioResolver interface {
	SectionAudioURL(storyID, sectionID string) string
	WelcomeAudioURL() string
}

// Notifier is called synchronously after every state change. It must not call
// back into the Player.
type Notifier func(State)

// Player runs one story session. It is not safe for concurrent use: every
// method is expected to be called from a single event loop.
//
// Invalid calls (wrong phase, out-of-range index, broken story data) are
// logged and ignored, leaving state, audio and notifications untouched.
type Player struct {
	driver    audio.Driver
	urls      AudioResolver
	notify    Notifier
	logger    *zap.Logger
	tracer    trace.Tracer
	sessionID string

	state     State
	stories   []*story.Story
	current   audio.Handle
	destroyed bool
}

// Option configures a Player.
type Option func(*Player)

// WithNotifier registers the state change callback.
func WithNotifier(fn Notifier) Option {
	return func(p *Player) { p.notify = fn }
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Player) { p.logger = l }
}

// WithTracer sets the tracer used for transition spans.
func WithTracer(t trace.Tracer) Option {
	return func(p *Player) { p.tracer = t }
}

// New creates a player in the loading phase.
func New(driver audio.Driver, urls AudioResolver, opts ...Option) *Player {
	p := &Player{
		driver:    driver,
		urls:      urls,
		logger:    zap.NewNop(),
		tracer:    telemetry.Tracer("player"),
		sessionID: uuid.NewString(),
		state:     Loading{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With(zap.String("session_id", p.sessionID))
	return p
}

// SessionID returns the id attached to this session's logs and spans.
func (p *Player) SessionID() string {
	return p.sessionID
}

// State returns the current state.
func (p *Player) State() State {
	return p.state
}

// LoadStories enters the menu with the given stories. Valid from any phase.
func (p *Player) LoadStories(ctx context.Context, stories []*story.Story) {
	_, span := p.startSpan(ctx, "player.load_stories")
	defer span.End()
	span.SetAttributes(attribute.Int("story.count", len(stories)))

	if p.isDestroyed(span) {
		return
	}

	p.stories = stories
	p.transition(span, Menu{Stories: stories})
}

// SelectStory starts the story at a 1-based menu index.
func (p *Player) SelectStory(ctx context.Context, index int) {
	_, span := p.startSpan(ctx, "player.select_story")
	defer span.End()
	span.SetAttributes(attribute.Int("story.index", index))

	if p.isDestroyed(span) {
		return
	}

	menu, ok := p.state.(Menu)
	if !ok {
		p.reject(span, "Cannot select story - not in menu phase")
		return
	}
	if index < 1 || index > len(menu.Stories) {
		p.reject(span, "Invalid story index", zap.Int("index", index), zap.Int("stories", len(menu.Stories)))
		return
	}

	st := menu.Stories[index-1]
	first := st.Start()
	if first == nil {
		p.fail(span, "Start section not found",
			zap.String("story_id", st.ID), zap.String("section_id", st.StartSection))
		return
	}

	p.transition(span, p.enter(st, st.StartSection, first))
}

// MakeChoice follows the choice at a 1-based index of the current section.
func (p *Player) MakeChoice(ctx context.Context, index int) {
	_, span := p.startSpan(ctx, "player.make_choice")
	defer span.End()
	span.SetAttributes(attribute.Int("choice.index", index))

	if p.isDestroyed(span) {
		return
	}

	playing, ok := p.state.(Playing)
	if !ok {
		p.reject(span, "Cannot make choice - not in playing phase")
		return
	}
	if !playing.Section.IsChoice() {
		p.reject(span, "Current section has no choices", zap.String("section_id", playing.SectionID))
		return
	}
	choice := playing.Section.Choice(index)
	if choice == nil {
		p.reject(span, "Invalid choice index",
			zap.Int("index", index), zap.Int("choices", len(playing.Section.Choices)))
		return
	}

	next := playing.Story.Section(choice.NextID)
	if next == nil {
		// Leave the session on the current section rather than corrupt it
		p.fail(span, "Next section not found",
			zap.String("story_id", playing.Story.ID),
			zap.String("section_id", playing.SectionID),
			zap.String("next_id", choice.NextID))
		return
	}

	p.transition(span, p.enter(playing.Story, choice.NextID, next))
}

// ReturnToMenu leaves a story and goes back to the full story list.
func (p *Player) ReturnToMenu(ctx context.Context) {
	_, span := p.startSpan(ctx, "player.return_to_menu")
	defer span.End()

	if p.isDestroyed(span) {
		return
	}

	switch p.state.(type) {
	case Playing, Ended:
		p.transition(span, Menu{Stories: p.stories})
	default:
		p.reject(span, "Cannot return to menu - not in a story")
	}
}

// Replay restarts the audio of the current state without changing it.
func (p *Player) Replay(ctx context.Context) {
	_, span := p.startSpan(ctx, "player.replay")
	defer span.End()

	if p.isDestroyed(span) {
		return
	}
	p.playCurrent()
}

// Destroy stops and releases the audio. The player ignores later calls.
func (p *Player) Destroy() {
	p.stopAudio()
	p.destroyed = true
}

// enter returns the state for arriving at a section: Ended for endings and
// dead ends, Playing otherwise.
func (p *Player) enter(st *story.Story, id string, section *story.Section) State {
	if section.IsEnding {
		return Ended{Story: st, SectionID: id, Section: section}
	}
	if section.IsDeadEnd() {
		p.logger.Warn("Section is a dead end, treating it as an ending",
			zap.String("story_id", st.ID), zap.String("section_id", id))
		return Ended{Story: st, SectionID: id, Section: section}
	}
	return Playing{Story: st, SectionID: id, Section: section}
}

// transition replaces the state, swaps the audio, then notifies.
func (p *Player) transition(span trace.Span, next State) {
	p.state = next
	span.SetAttributes(attribute.String("phase", next.Phase().String()))
	switch s := next.(type) {
	case Playing:
		span.SetAttributes(attribute.String("story.id", s.Story.ID), attribute.String("section.id", s.SectionID))
	case Ended:
		span.SetAttributes(
			attribute.String("story.id", s.Story.ID),
			attribute.String("section.id", s.SectionID),
			attribute.String("ending.type", string(s.Section.EndingType)),
		)
	}

	p.playCurrent()
	p.notifyStateChange()
}

// playCurrent stops any audio and starts the audio for the current state.
func (p *Player) playCurrent() {
	p.stopAudio()

	switch s := p.state.(type) {
	case Menu:
		p.playAudio(p.urls.WelcomeAudioURL())
	case Playing:
		p.playAudio(p.urls.SectionAudioURL(s.Story.ID, s.SectionID))
	case Ended:
		p.playAudio(p.urls.SectionAudioURL(s.Story.ID, s.SectionID))
	}
}

func (p *Player) playAudio(url string) {
	p.logger.Debug("Playing audio", zap.String("url", url))
	p.current = p.driver.Play(url)
}

func (p *Player) stopAudio() {
	if p.current != nil {
		p.current.Stop()
		p.current = nil
	}
}

func (p *Player) notifyStateChange() {
	if p.notify != nil {
		p.notify(p.state)
	}
}

func (p *Player) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	ctx, span := p.tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.String("session.id", p.sessionID),
		attribute.String("phase.before", p.state.Phase().String()),
	)
	return ctx, span
}

func (p *Player) isDestroyed(span trace.Span) bool {
	if p.destroyed {
		p.reject(span, "Player is destroyed")
	}
	return p.destroyed
}

// reject logs an ignored call at warn level.
func (p *Player) reject(span trace.Span, msg string, fields ...zap.Field) {
	span.SetAttributes(attribute.String("rejected", msg))
	p.logger.Warn(msg, append(fields, zap.Stringer("phase", p.state.Phase()))...)
}

// fail logs an ignored call caused by broken story data at error level.
func (p *Player) fail(span trace.Span, msg string, fields ...zap.Field) {
	span.SetAttributes(attribute.String("rejected", msg))
	p.logger.Error(msg, append(fields, zap.Stringer("phase", p.state.Phase()))...)
}

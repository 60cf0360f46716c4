package player

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/samdwyer/gamebook/internal/audio"
	"github.com/samdwyer/gamebook/internal/story"
	"github.com/samdwyer/gamebook/internal/telemetry"
)

// recorder collects audio and notification events in call order.
type recorder struct {
	events    []string
	active    int
	maxActive int
	plays     []string
}

// mockDriver is a test implementation of audio.Driver that counts live handles.
type mockDriver struct {
	rec *recorder
}

func (d mockDriver) Play(url string) audio.Handle {
	d.rec.active++
	if d.rec.active > d.rec.maxActive {
		d.rec.maxActive = d.rec.active
	}
	d.rec.plays = append(d.rec.plays, url)
	d.rec.events = append(d.rec.events, "play:"+url)
	return &mockHandle{rec: d.rec}
}

type mockHandle struct {
	rec     *recorder
	stopped bool
}

func (h *mockHandle) Stop() {
	if h.stopped {
		return
	}
	h.stopped = true
	h.rec.active--
	h.rec.events = append(h.rec.events, "stop")
}

type fakeURLs struct{}

func (fakeURLs) SectionAudioURL(storyID, sectionID string) string { return storyID + "/" + sectionID }
func (fakeURLs) WelcomeAudioURL() string                          { return "welcome" }

type harness struct {
	player   *Player
	rec      *recorder
	logs     *observer.ObservedLogs
	notified []State
}

func newHarness() *harness {
	h := &harness{rec: &recorder{}}
	core, logs := observer.New(zapcore.DebugLevel)
	h.logs = logs
	h.player = New(mockDriver{rec: h.rec}, fakeURLs{},
		WithLogger(zap.New(core)),
		WithTracer(telemetry.NoopTracer()),
		WithNotifier(func(s State) {
			h.notified = append(h.notified, s)
			h.rec.events = append(h.rec.events, "notify:"+s.Phase().String())
		}),
	)
	return h
}

// s1 is A -> B (good ending), plus a broken branch and a dead end reachable from A.
func s1() *story.Story {
	return &story.Story{
		ID:           "s1",
		Title:        "One",
		StartSection: "A",
		Sections: map[string]*story.Section{
			"A": {Text: "start", Choices: []story.Choice{
				{Label: "x", NextID: "B"},
				{Label: "broken", NextID: "missing"},
				{Label: "middle", NextID: "C"},
				{Label: "dead", NextID: "D"},
			}},
			"B": {Text: "end", IsEnding: true, EndingType: story.EndingGood},
			"C": {Text: "middle", Choices: []story.Choice{{Label: "on", NextID: "B"}}},
			"D": {Text: "nothing here"},
		},
	}
}

func s2() *story.Story {
	return &story.Story{
		ID:           "s2",
		Title:        "Two",
		StartSection: "only",
		Sections: map[string]*story.Section{
			"only": {Text: "over", IsEnding: true, EndingType: story.EndingBad},
		},
	}
}

func (h *harness) warnings(msg string) int {
	return h.logs.FilterLevelExact(zapcore.WarnLevel).FilterMessage(msg).Len()
}

func (h *harness) errors(msg string) int {
	return h.logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessage(msg).Len()
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase    Phase
		expected string
	}{
		{PhaseLoading, "loading"},
		{PhaseMenu, "menu"},
		{PhasePlaying, "playing"},
		{PhaseEnded, "ended"},
		{Phase(99), "unknown"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.phase.String())
	}
}

func TestNewPlayerIsLoading(t *testing.T) {
	h := newHarness()

	assert.Equal(t, PhaseLoading, h.player.State().Phase())
	assert.Empty(t, h.rec.plays)
	assert.Empty(t, h.notified)
	assert.NotEmpty(t, h.player.SessionID())
}

func TestLoadStoriesEntersMenu(t *testing.T) {
	h := newHarness()
	a, b := s1(), s2()

	h.player.LoadStories(context.Background(), []*story.Story{a, b})

	menu, ok := h.player.State().(Menu)
	require.True(t, ok, "state = %T, want Menu", h.player.State())
	require.Len(t, menu.Stories, 2)
	assert.Same(t, a, menu.Stories[0])
	assert.Same(t, b, menu.Stories[1])
	assert.Equal(t, []string{"welcome"}, h.rec.plays)
	assert.Len(t, h.notified, 1)
}

func TestSelectStory(t *testing.T) {
	h := newHarness()
	a := s1()
	h.player.LoadStories(context.Background(), []*story.Story{a, s2()})

	h.player.SelectStory(context.Background(), 1)

	playing, ok := h.player.State().(Playing)
	require.True(t, ok, "state = %T, want Playing", h.player.State())
	assert.Same(t, a, playing.Story)
	assert.Equal(t, a.StartSection, playing.SectionID)
	assert.Same(t, a.Sections[a.StartSection], playing.Section)
	assert.Equal(t, "s1/A", h.rec.plays[len(h.rec.plays)-1])
}

func TestSelectStoryStartingAtEnding(t *testing.T) {
	h := newHarness()
	h.player.LoadStories(context.Background(), []*story.Story{s1(), s2()})

	h.player.SelectStory(context.Background(), 2)

	ended, ok := h.player.State().(Ended)
	require.True(t, ok, "state = %T, want Ended", h.player.State())
	assert.Equal(t, "only", ended.SectionID)
	assert.Equal(t, "s2/only", h.rec.plays[len(h.rec.plays)-1])
}

func TestSelectStoryOutOfRange(t *testing.T) {
	for _, index := range []int{0, -1, 2, 5} {
		h := newHarness()
		h.player.LoadStories(context.Background(), []*story.Story{s1()})
		before := h.player.State()

		h.player.SelectStory(context.Background(), index)

		assert.Equal(t, before, h.player.State(), "index %d", index)
		assert.Len(t, h.notified, 1, "index %d", index)
		assert.Len(t, h.rec.plays, 1, "index %d", index)
		assert.Equal(t, 1, h.warnings("Invalid story index"), "index %d", index)
	}
}

func TestSelectStoryOutsideMenu(t *testing.T) {
	h := newHarness()

	h.player.SelectStory(context.Background(), 1)

	assert.Equal(t, PhaseLoading, h.player.State().Phase())
	assert.Equal(t, 1, h.warnings("Cannot select story - not in menu phase"))
	assert.Empty(t, h.notified)
}

func TestSelectStoryMissingStart(t *testing.T) {
	h := newHarness()
	bad := s1()
	bad.StartSection = "nowhere"
	h.player.LoadStories(context.Background(), []*story.Story{bad})

	h.player.SelectStory(context.Background(), 1)

	assert.Equal(t, PhaseMenu, h.player.State().Phase())
	assert.Equal(t, 1, h.errors("Start section not found"))
}

func TestMakeChoiceReachesEnding(t *testing.T) {
	h := newHarness()
	a := s1()
	h.player.LoadStories(context.Background(), []*story.Story{a})
	h.player.SelectStory(context.Background(), 1)

	h.player.MakeChoice(context.Background(), 1)

	ended, ok := h.player.State().(Ended)
	require.True(t, ok, "state = %T, want Ended", h.player.State())
	assert.Same(t, a.Sections["B"], ended.Section)
	assert.Equal(t, "B", ended.SectionID)
	assert.Equal(t, "s1/B", h.rec.plays[len(h.rec.plays)-1])
}

func TestMakeChoiceContinuesPlaying(t *testing.T) {
	h := newHarness()
	a := s1()
	h.player.LoadStories(context.Background(), []*story.Story{a})
	h.player.SelectStory(context.Background(), 1)

	h.player.MakeChoice(context.Background(), 3)

	playing, ok := h.player.State().(Playing)
	require.True(t, ok, "state = %T, want Playing", h.player.State())
	assert.Equal(t, "C", playing.SectionID)
	assert.Same(t, a.Sections["C"], playing.Section)

	h.player.MakeChoice(context.Background(), 1)
	assert.Equal(t, PhaseEnded, h.player.State().Phase())
}

func TestMakeChoiceBrokenReference(t *testing.T) {
	h := newHarness()
	h.player.LoadStories(context.Background(), []*story.Story{s1()})
	h.player.SelectStory(context.Background(), 1)
	before := h.player.State()
	notified := len(h.notified)
	plays := len(h.rec.plays)

	h.player.MakeChoice(context.Background(), 2)

	assert.Equal(t, before, h.player.State())
	assert.Equal(t, 1, h.errors("Next section not found"))
	assert.Len(t, h.notified, notified)
	assert.Len(t, h.rec.plays, plays)
	assert.Equal(t, 1, h.rec.active, "current audio should keep playing")
}

func TestMakeChoiceDeadEndBecomesEnding(t *testing.T) {
	h := newHarness()
	h.player.LoadStories(context.Background(), []*story.Story{s1()})
	h.player.SelectStory(context.Background(), 1)

	h.player.MakeChoice(context.Background(), 4)

	ended, ok := h.player.State().(Ended)
	require.True(t, ok, "state = %T, want Ended", h.player.State())
	assert.Equal(t, "D", ended.SectionID)
	assert.Equal(t, 1, h.warnings("Section is a dead end, treating it as an ending"))
}

func TestMakeChoiceGuards(t *testing.T) {
	t.Run("not playing", func(t *testing.T) {
		h := newHarness()
		h.player.LoadStories(context.Background(), []*story.Story{s1()})

		h.player.MakeChoice(context.Background(), 1)

		assert.Equal(t, PhaseMenu, h.player.State().Phase())
		assert.Equal(t, 1, h.warnings("Cannot make choice - not in playing phase"))
	})

	t.Run("out of range", func(t *testing.T) {
		h := newHarness()
		h.player.LoadStories(context.Background(), []*story.Story{s1()})
		h.player.SelectStory(context.Background(), 1)

		h.player.MakeChoice(context.Background(), 9)

		assert.Equal(t, PhasePlaying, h.player.State().Phase())
		assert.Equal(t, 1, h.warnings("Invalid choice index"))
	})

	t.Run("after ending", func(t *testing.T) {
		h := newHarness()
		h.player.LoadStories(context.Background(), []*story.Story{s1()})
		h.player.SelectStory(context.Background(), 1)
		h.player.MakeChoice(context.Background(), 1)

		h.player.MakeChoice(context.Background(), 1)

		assert.Equal(t, PhaseEnded, h.player.State().Phase())
		assert.Equal(t, 1, h.warnings("Cannot make choice - not in playing phase"))
	})
}

func TestReturnToMenuRestoresFullList(t *testing.T) {
	for _, finish := range []bool{false, true} {
		h := newHarness()
		stories := []*story.Story{s1(), s2()}
		h.player.LoadStories(context.Background(), stories)
		h.player.SelectStory(context.Background(), 1)
		if finish {
			h.player.MakeChoice(context.Background(), 1)
		}

		h.player.ReturnToMenu(context.Background())

		menu, ok := h.player.State().(Menu)
		require.True(t, ok, "state = %T, want Menu", h.player.State())
		assert.Equal(t, stories, menu.Stories)
		assert.Equal(t, "welcome", h.rec.plays[len(h.rec.plays)-1])
		assert.Equal(t, 1, h.rec.active)
	}
}

func TestReturnToMenuOutsideStory(t *testing.T) {
	h := newHarness()
	h.player.LoadStories(context.Background(), []*story.Story{s1()})

	h.player.ReturnToMenu(context.Background())

	assert.Len(t, h.notified, 1)
	assert.Equal(t, 1, h.warnings("Cannot return to menu - not in a story"))
}

func TestReplay(t *testing.T) {
	h := newHarness()

	h.player.Replay(context.Background())
	assert.Empty(t, h.rec.plays, "nothing to replay while loading")

	h.player.LoadStories(context.Background(), []*story.Story{s1()})
	h.player.SelectStory(context.Background(), 1)
	notified := len(h.notified)
	before := h.player.State()

	h.player.Replay(context.Background())

	assert.Equal(t, before, h.player.State())
	assert.Len(t, h.notified, notified, "replay must not notify")
	assert.Equal(t, []string{"welcome", "s1/A", "s1/A"}, h.rec.plays)
	assert.Equal(t, 1, h.rec.active)
}

func TestDestroy(t *testing.T) {
	h := newHarness()
	h.player.LoadStories(context.Background(), []*story.Story{s1()})

	h.player.Destroy()
	assert.Zero(t, h.rec.active)

	h.player.SelectStory(context.Background(), 1)
	h.player.LoadStories(context.Background(), []*story.Story{s1()})
	h.player.Replay(context.Background())

	assert.Equal(t, PhaseMenu, h.player.State().Phase())
	assert.Len(t, h.notified, 1)
	assert.Len(t, h.rec.plays, 1)
	assert.Equal(t, 3, h.warnings("Player is destroyed"))

	// Destroy is idempotent
	h.player.Destroy()
}

func TestAudioExclusivity(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	stories := []*story.Story{s1(), s2()}

	h.player.LoadStories(ctx, stories)
	h.player.SelectStory(ctx, 1)
	h.player.Replay(ctx)
	h.player.MakeChoice(ctx, 2) // broken
	h.player.MakeChoice(ctx, 3)
	h.player.Replay(ctx)
	h.player.MakeChoice(ctx, 1)
	h.player.Replay(ctx)
	h.player.ReturnToMenu(ctx)
	h.player.SelectStory(ctx, 2)
	h.player.ReturnToMenu(ctx)
	h.player.LoadStories(ctx, stories)

	assert.Equal(t, 1, h.rec.maxActive)
	assert.Equal(t, 1, h.rec.active)

	h.player.Destroy()
	assert.Zero(t, h.rec.active)
}

func TestNotificationOrdering(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	h.player.LoadStories(ctx, []*story.Story{s1()})
	h.player.SelectStory(ctx, 7) // rejected
	h.player.SelectStory(ctx, 1) // playing A
	h.player.MakeChoice(ctx, 2)  // rejected, broken reference
	h.player.MakeChoice(ctx, 1)  // ended B
	h.player.ReturnToMenu(ctx)   // menu
	h.player.ReturnToMenu(ctx)   // rejected

	want := []string{
		"play:welcome", "notify:menu",
		"stop", "play:s1/A", "notify:playing",
		"stop", "play:s1/B", "notify:ended",
		"stop", "play:welcome", "notify:menu",
	}
	assert.Equal(t, want, h.rec.events)
	require.Len(t, h.notified, 4)
	assert.Equal(t, PhaseEnded, h.notified[2].Phase())
}

func TestNotifierIsOptional(t *testing.T) {
	rec := &recorder{}
	p := New(mockDriver{rec: rec}, fakeURLs{})

	p.LoadStories(context.Background(), []*story.Story{s1()})
	p.SelectStory(context.Background(), 1)

	assert.Equal(t, PhasePlaying, p.State().Phase())
}

// Package game provides the terminal main loop around the story player.
package game

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/samdwyer/gamebook/internal/audio"
	"github.com/samdwyer/gamebook/internal/player"
	"github.com/samdwyer/gamebook/internal/story"
	"github.com/samdwyer/gamebook/internal/telemetry"
	"github.com/samdwyer/gamebook/internal/ui"
)

// screen is the terminal the game draws on and reads keys from.
type screen interface {
	ui.Canvas
	PollEvent() tcell.Event
	Sync()
	Close()
}

// Game holds the terminal session.
type Game struct {
	screen       screen
	renderer     *ui.Renderer
	store        story.Store
	player       *player.Player
	logger       *zap.Logger
	startStory   string
	fetchTimeout time.Duration
	running      bool
}

// New creates a new game instance on the terminal.
func New(cfg Config, logger *zap.Logger) (*Game, error) {
	store, err := cfg.Store(logger)
	if err != nil {
		return nil, err
	}

	s, err := ui.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}

	g := newGame(s, store, cfg.AudioDriver(logger), cfg.AudioURLs(), logger)
	g.startStory = cfg.StartStory
	g.fetchTimeout = cfg.FetchTimeout
	return g, nil
}

func newGame(s screen, store story.Store, driver audio.Driver, urls player.AudioResolver, logger *zap.Logger) *Game {
	g := &Game{
		screen:       s,
		renderer:     ui.NewRenderer(s),
		store:        store,
		logger:       logger,
		fetchTimeout: 30 * time.Second,
		running:      true,
	}
	g.player = player.New(driver, urls,
		player.WithLogger(logger),
		player.WithNotifier(g.renderer.Render),
	)
	return g
}

// Run loads the stories and executes the main game loop until the user quits.
func (g *Game) Run(ctx context.Context) error {
	g.start(ctx)

	for g.running {
		g.handleInput(ctx)
	}

	g.player.Destroy()
	g.screen.Close()
	return nil
}

// start draws the loading screen and loads the stories under the game.init span.
// The span covers startup only; session spans hang off the caller's context.
func (g *Game) start(ctx context.Context) {
	initCtx, span := telemetry.Tracer("game").Start(ctx, "game.init")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", g.player.SessionID()))

	g.renderer.Render(g.player.State())
	if err := g.load(initCtx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// load fetches the stories and opens the menu, or the configured start story.
// On failure the player stays in the loading phase and the error is shown.
func (g *Game) load(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, g.fetchTimeout)
	defer cancel()

	stories, err := g.store.Fetch(fetchCtx)
	if err != nil {
		g.logger.Error("Failed to load stories", zap.Error(err))
		g.renderer.SetMessage("Could not load stories. See the log for details. Press q to quit.")
		g.renderer.Render(g.player.State())
		return err
	}

	g.logger.Info("Stories loaded", zap.Int("count", len(stories)))
	g.player.LoadStories(ctx, stories)

	if g.startStory == "" {
		return nil
	}
	registry, err := story.NewRegistry(stories)
	if err != nil {
		return err
	}
	index := registry.IndexOf(g.startStory)
	if index == 0 {
		err := fmt.Errorf("story %q not found", g.startStory)
		g.logger.Warn("Start story not found", zap.String("story_id", g.startStory))
		g.renderer.SetMessage(err.Error())
		g.renderer.Render(g.player.State())
		return err
	}
	g.player.SelectStory(ctx, index)
	return nil
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd, n := commandFor(ev.Key(), ev.Rune())
		g.apply(ctx, cmd, n)
	case *tcell.EventResize:
		g.screen.Sync()
		g.renderer.Render(g.player.State())
	case nil:
		// Screen finalized
		g.running = false
	}
}

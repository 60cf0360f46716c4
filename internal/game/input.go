package game

import (
	"context"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/gamebook/internal/player"
)

// command is a user action decoded from a key press.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdReplay
	cmdMenu
	// cmdPick selects a story in the menu or a choice in a story.
	cmdPick
)

// commandFor maps a key to a command. Digits 1-9 carry their value. The
// telephone keys '*' and '#' replay and return to the menu.
func commandFor(key tcell.Key, r rune) (command, int) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit, 0
	case tcell.KeyRune:
		switch {
		case r >= '1' && r <= '9':
			return cmdPick, int(r - '0')
		case r == 'r' || r == 'R' || r == '*':
			return cmdReplay, 0
		case r == 'm' || r == 'M' || r == '0' || r == '#':
			return cmdMenu, 0
		case r == 'q' || r == 'Q':
			return cmdQuit, 0
		}
	}
	return cmdNone, 0
}

// apply runs a command against the player.
func (g *Game) apply(ctx context.Context, cmd command, n int) {
	switch cmd {
	case cmdQuit:
		g.running = false
	case cmdReplay:
		g.player.Replay(ctx)
	case cmdMenu:
		g.player.ReturnToMenu(ctx)
	case cmdPick:
		if g.player.State().Phase() == player.PhaseMenu {
			g.player.SelectStory(ctx, n)
		} else {
			g.player.MakeChoice(ctx, n)
		}
	}
}

package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/samdwyer/gamebook/internal/player"
	"github.com/samdwyer/gamebook/internal/story"
)

const (
	marginX  = 2
	marginY  = 1
	maxWidth = 72
	appTitle = "TELEPHONE GAMEBOOK"
)

// Key help lines per phase.
const (
	helpMenu    = "1-9 pick a story   r replay   q quit"
	helpPlaying = "1-9 choose   r replay   m menu   q quit"
	helpEnded   = "r replay   m menu   q quit"
)

// Renderer handles drawing the player state to the screen.
type Renderer struct {
	canvas  Canvas
	message string
}

// NewRenderer creates a new renderer for the given canvas.
func NewRenderer(canvas Canvas) *Renderer {
	return &Renderer{canvas: canvas}
}

// SetMessage sets a status line shown under the current state until replaced.
func (r *Renderer) SetMessage(msg string) {
	r.message = msg
}

// Render draws the given state to the screen.
func (r *Renderer) Render(state player.State) {
	r.canvas.Clear()
	width, height := r.canvas.Size()
	textWidth := min(width-2*marginX, maxWidth)

	header := tcell.StyleDefault.Foreground(Accent).Bold(true)
	body := tcell.StyleDefault.Foreground(Foreground)
	option := tcell.StyleDefault.Foreground(Highlight)

	y := marginY
	var help string

	switch s := state.(type) {
	case player.Loading:
		y = r.drawLine(appTitle, y, header) + 1
		r.drawLine("Loading stories...", y, body)

	case player.Menu:
		help = helpMenu
		y = r.drawLine(appTitle, y, header) + 1
		if len(s.Stories) == 0 {
			r.drawLine("No stories available.", y, body)
			break
		}
		y = r.drawLine("Choose a story:", y, body) + 1
		for i, st := range s.Stories {
			y = r.drawWrapped(numbered(i+1, st.Title), y, textWidth, option)
		}

	case player.Playing:
		help = helpPlaying
		y = r.drawLine(s.Story.Title, y, header) + 1
		y = r.drawWrapped(s.Section.Text, y, textWidth, body) + 1
		for i, c := range s.Section.Choices {
			y = r.drawWrapped(numbered(i+1, c.Label), y, textWidth, option)
		}

	case player.Ended:
		help = helpEnded
		y = r.drawLine(s.Story.Title, y, header) + 1
		y = r.drawWrapped(s.Section.Text, y, textWidth, body) + 1
		r.drawLine(EndingBanner(s.Section.EndingType), y,
			tcell.StyleDefault.Foreground(EndingColor(s.Section.EndingType)).Bold(true))
	}

	if r.message != "" {
		r.RenderMessage(r.message, height-3, tcell.StyleDefault.Foreground(Bad))
	}
	if help != "" {
		r.RenderMessage(help, height-2, tcell.StyleDefault.Foreground(Muted))
	}

	r.canvas.Show()
}

// RenderMessage displays a single line at row y, left aligned to the margin.
func (r *Renderer) RenderMessage(msg string, y int, style tcell.Style) {
	if y < 0 {
		return
	}
	r.drawLine(msg, y, style)
}

// EndingBanner returns the line announcing an ending.
func EndingBanner(e story.EndingType) string {
	if e == story.EndingNone {
		return "THE END"
	}
	return "THE END (" + string(e) + ")"
}

// drawLine draws text at row y and returns the next row.
func (r *Renderer) drawLine(text string, y int, style tcell.Style) int {
	x := marginX
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		r.canvas.SetContent(x, y, runes[0], style)
		x += g.Width()
	}
	return y + 1
}

// drawWrapped draws word-wrapped text starting at row y and returns the next row.
func (r *Renderer) drawWrapped(text string, y, width int, style tcell.Style) int {
	for _, line := range Wrap(text, width) {
		y = r.drawLine(line, y, style)
	}
	return y
}

// Wrap splits text into lines no wider than width display cells. Words wider
// than width are kept whole on their own line.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var (
		lines     []string
		current   strings.Builder
		lineWidth int
	)
	for _, word := range strings.Fields(text) {
		w := uniseg.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, current.String())
			current.Reset()
			lineWidth = 0
		}
		if lineWidth > 0 {
			current.WriteByte(' ')
			lineWidth++
		}
		current.WriteString(word)
		lineWidth += w
	}
	if lineWidth > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

func numbered(n int, label string) string {
	return strconv.Itoa(n) + ". " + label
}

package rockfall

import (
	"fmt"
	"strconv"

	platformcore "github.com/vovakirdan/rockfall/internal/core"
	"github.com/vovakirdan/rockfall/internal/games/rockfall/core"
)

// Layout constants.
const (
	hudRows    = 4 // Status, separator, controls, separator
	footerRows = 1 // Event message
	minScreenW = 24
	minScreenH = hudRows + footerRows + 5
)

// tile is the on-screen look of one grid kind, two columns wide.
type tile struct {
	glyph [2]rune
	fg    platformcore.Color
}

var tiles = map[core.Kind]tile{
	core.Empty:   {glyph: [2]rune{' ', ' '}, fg: platformcore.ColorDefault},
	core.Wall:    {glyph: [2]rune{'▓', '▓'}, fg: platformcore.ColorGray},
	core.Dirt:    {glyph: [2]rune{'░', '░'}, fg: platformcore.ColorBrown},
	core.Boulder: {glyph: [2]rune{'(', ')'}, fg: platformcore.ColorBrightWhite},
	core.Diamond: {glyph: [2]rune{'<', '>'}, fg: platformcore.ColorBrightCyan},
	core.Player:  {glyph: [2]rune{'@', '@'}, fg: platformcore.ColorBrightYellow},
	core.Exit:    {glyph: [2]rune{'[', ']'}, fg: platformcore.ColorBrightGreen},
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()
	g.screenW = dst.Width()
	g.screenH = dst.Height()

	g.renderHUD(dst)

	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	if g.state == nil {
		msg := g.loadErr
		if msg == "" {
			msg = "Press R to restart"
		}
		g.renderOverlay(dst, "No level loaded", msg)
		return
	}

	g.renderGrid(dst)
	g.renderFooter(dst)

	switch {
	case g.won:
		g.renderOverlay(dst, "You Win!", "All caves cleared! Score "+strconv.Itoa(g.banked))
	case g.gameOver:
		g.renderOverlay(dst, g.gameOverTitle(), "Press R to restart")
	case g.levelDone:
		g.renderOverlay(dst, "Level complete!", "Press Enter for the next cave")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

func (g *Game) gameOverTitle() string {
	if g.state != nil && g.state.TimeLeft <= 0 {
		return "Out of time"
	}
	return "Crushed!"
}

// renderHUD draws the status bar and controls hint.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " " + g.Title()
	if g.state != nil {
		c := g.state.Counters()
		hud += " | " + g.levelLabel() +
			" | Diamonds: " + strconv.Itoa(c.DiamondsCollected) + "/" + strconv.Itoa(c.DiamondsNeeded) +
			" | Time: " + strconv.Itoa(c.TimeLeft) +
			" | Score: " + strconv.Itoa(g.Score())
	}
	dst.DrawTextColored(0, 0, hud, platformcore.ColorCyan)

	for x := 0; x < dst.Width(); x++ {
		dst.SetColored(x, 1, '─', platformcore.ColorGray)
	}
	dst.DrawTextColored(0, 2, " Arrows/WASD: Move | Hold: Run | P: Pause | R: Restart | Q: Quit", platformcore.ColorGray)
	for x := 0; x < dst.Width(); x++ {
		dst.SetColored(x, 3, '─', platformcore.ColorGray)
	}
}

func (g *Game) levelLabel() string {
	if g.mode == ModeEndless {
		return fmt.Sprintf("Depth %d", g.depth+1)
	}
	return fmt.Sprintf("Level %d/%d: %s", g.levelIndex+1, len(g.campaign), g.level.Name)
}

// renderGrid draws the visible part of the world, following the player.
func (g *Game) renderGrid(dst *platformcore.Screen) {
	w := g.state.World
	view := platformcore.NewRect(0, hudRows, dst.Width(), dst.Height()-hudRows-footerRows)

	cellW := 2
	if w.W*2 > view.W && w.W <= view.W {
		cellW = 1
	}
	visW := platformcore.Min(w.W, view.W/cellW)
	visH := platformcore.Min(w.H, view.H)

	focus := core.Pos{}
	if p := w.Player(); p != nil {
		focus = p.Pos
	}
	offX := platformcore.ScrollOffset(focus.X, w.W, visW)
	offY := platformcore.ScrollOffset(focus.Y, w.H, visH)

	area := view.Centered(visW*cellW, visH)
	for vy := 0; vy < visH; vy++ {
		for vx := 0; vx < visW; vx++ {
			k := w.Get(core.P(offX+vx, offY+vy))
			t := g.tileFor(k)
			sx := area.X + vx*cellW
			sy := area.Y + vy
			if cellW == 1 {
				dst.SetColored(sx, sy, singleGlyph(k), t.fg)
				continue
			}
			dst.SetColored(sx, sy, t.glyph[0], t.fg)
			dst.SetColored(sx+1, sy, t.glyph[1], t.fg)
		}
	}
}

// tileFor returns the look of k, dimming an exit that has not opened yet.
func (g *Game) tileFor(k core.Kind) tile {
	t := tiles[k]
	if k == core.Exit && !g.state.ExitSpawned {
		t.fg = platformcore.ColorGray
	}
	return t
}

// singleGlyph is used when the map is too wide for two-column tiles.
func singleGlyph(k core.Kind) rune {
	switch k {
	case core.Wall:
		return '▓'
	case core.Dirt:
		return '░'
	case core.Boulder:
		return 'O'
	case core.Diamond:
		return '◆'
	case core.Player:
		return '@'
	case core.Exit:
		return 'E'
	default:
		return ' '
	}
}

// renderFooter draws the latest event message on the bottom row.
func (g *Game) renderFooter(dst *platformcore.Screen) {
	if g.message == "" {
		return
	}
	dst.DrawTextCentered(dst.Height()-1, g.message, g.messageColor)
}

// renderOverlay draws a centered boxed message.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	width := platformcore.Max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(width, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, platformcore.ColorBrightWhite)
	dst.DrawTextCentered(box.Y+1, line1, platformcore.ColorBrightYellow)
	dst.DrawTextCentered(box.Y+3, line2, platformcore.ColorDefault)
}

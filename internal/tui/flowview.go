package tui

import (
	"math"
	"strings"

	"github.com/swarmdeck/swarmdeck/internal/graph"
	"github.com/swarmdeck/swarmdeck/internal/models"
	"github.com/swarmdeck/swarmdeck/internal/session"
)

// labelReserve is the horizontal room kept free on the right edge so a node
// label drawn next to its glyph stays inside the panel. Sized for the
// longest agent name plus the glyph and gap.
const labelReserve = 14

// cell is a coordinate in the flow panel's character grid.
type cell struct {
	x, y int
}

// renderFlow draws the layout simulation into a w by h character grid:
// pipeline links first, the active edge over them, node glyphs and labels
// on top.
func renderFlow(positions map[models.Agent]graph.Vec, agents map[models.Agent]models.AgentState, edge *session.Edge, w, h int) string {
	if w < 10 || h < 3 {
		return ""
	}

	cells := fitPositions(positions, w, h)

	grid := make([][]string, h)
	for y := range grid {
		grid[y] = make([]string, w)
		for x := range grid[y] {
			grid[y][x] = " "
		}
	}

	// Static pipeline links, one per agent with a predecessor.
	dot := linkIdleStyle.Render("·")
	for _, a := range models.Agents() {
		pred, ok := a.Predecessor()
		if !ok {
			continue
		}
		drawLine(grid, cells[pred], cells[a], dot)
	}

	// Active communication edge drawn over the static links.
	if edge != nil {
		drawLine(grid, cells[edge.From], cells[edge.To], linkActiveStyle.Render("•"))
	}

	for _, a := range models.Agents() {
		c, ok := cells[a]
		if !ok {
			continue
		}
		glyph, glyphStyle, labelStyle := "○", nodeIdleStyle, labelIdleStyle
		if agents[a] == models.AgentActive {
			glyph, glyphStyle, labelStyle = "●", nodeActiveStyle, labelActiveStyle
		}
		put(grid, c.x, c.y, glyphStyle.Render(glyph))
		for i, r := range []rune(a.DisplayName()) {
			put(grid, c.x+2+i, c.y, labelStyle.Render(string(r)))
		}
	}

	rows := make([]string, h)
	for y, row := range grid {
		rows[y] = strings.Join(row, "")
	}
	return strings.Join(rows, "\n")
}

// fitPositions maps simulation coordinates onto the panel grid. Each axis
// scales independently, which fills the panel and absorbs the roughly 2:1
// height-to-width aspect of terminal cells.
func fitPositions(positions map[models.Agent]graph.Vec, w, h int) map[models.Agent]cell {
	const padLeft, padTop = 2, 1

	usableW := w - padLeft - labelReserve
	if usableW < 1 {
		usableW = 1
	}
	usableH := h - 2*padTop
	if usableH < 1 {
		usableH = 1
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range positions {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	spanX := maxX - minX
	spanY := maxY - minY

	out := make(map[models.Agent]cell, len(positions))
	for a, p := range positions {
		// Degenerate spans (all nodes stacked) collapse to the middle.
		cx := padLeft + usableW/2
		if spanX > 0 {
			cx = padLeft + int(math.Round((p.X-minX)/spanX*float64(usableW-1)))
		}
		cy := padTop + usableH/2
		if spanY > 0 {
			cy = padTop + int(math.Round((p.Y-minY)/spanY*float64(usableH-1)))
		}
		out[a] = cell{x: cx, y: cy}
	}
	return out
}

// drawLine plots a Bresenham line between two cells. Endpoints are plotted
// too; node glyphs are drawn afterwards and win.
func drawLine(grid [][]string, from, to cell, glyph string) {
	dx := abs(to.x - from.x)
	dy := -abs(to.y - from.y)
	sx := 1
	if from.x > to.x {
		sx = -1
	}
	sy := 1
	if from.y > to.y {
		sy = -1
	}
	err := dx + dy

	x, y := from.x, from.y
	for {
		put(grid, x, y, glyph)
		if x == to.x && y == to.y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func put(grid [][]string, x, y int, s string) {
	if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
		return
	}
	grid[y][x] = s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

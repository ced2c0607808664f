package analysis

import "strings"

type Point struct{ X, Y float64 }

// PhasePortrait pairs height (X) with vertical velocity (Y).
type PhasePortrait struct {
	Points []Point
}

// GeneratePhasePortrait builds a height/velocity portrait from recorded
// series of equal length.
func GeneratePhasePortrait(heights, velocities []float64) *PhasePortrait {
	n := min(len(heights), len(velocities))
	if n == 0 {
		return nil
	}
	p := &PhasePortrait{Points: make([]Point, n)}
	for i := 0; i < n; i++ {
		p.Points[i] = Point{heights[i], velocities[i]}
	}
	return p
}

// PhasePortraitToASCII plots the portrait with the zero-velocity axis drawn
// when it is in range.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if maxX == minX {
		maxX = minX + 1
	}
	if maxY == minY {
		maxY = minY + 1
	}

	grid := newGrid(width, height)
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			grid[r][c] = '─'
		}
	}
	for _, p := range portrait.Points {
		grid[row(p.Y)][col(p.X)] = '•'
	}
	return grid.String()
}

type grid [][]rune

func newGrid(width, height int) grid {
	g := make(grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

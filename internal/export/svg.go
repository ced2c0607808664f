package export

import (
	"fmt"
	"strings"
)

type Point struct{ X, Y float64 }

// HeightPoints pairs each time with its height.
func HeightPoints(times, heights []float64) []Point {
	n := min(len(times), len(heights))
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		points[i] = Point{times[i], heights[i]}
	}
	return points
}

// TrajectoryToSVG draws points as a polyline. A dashed reference line is
// drawn at y = ground when ground lies inside the plotted range.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string, ground float64) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	px := func(x float64) float64 { return (x - minX) / rangeX * float64(width) }
	py := func(y float64) float64 { return float64(height) - (y-minY)/rangeY*float64(height) }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if ground >= minY && ground <= maxY {
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#555555" stroke-dasharray="4 4"/>
`, py(ground), width, py(ground))
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", px(p.X), py(p.Y))
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", px(p.X), py(p.Y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

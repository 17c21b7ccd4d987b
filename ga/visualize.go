package ga

import (
	"fmt"
	"math"
	"os"
)

// RouteLabel names one stop of a route for VisualizeRoute's rendering.
type RouteLabel struct {
	Name string
	X, Y float64
}

// VisualizeRoute renders route (a Permutation individual indexing into
// stops) as an SVG tour: numbered circles at each stop's coordinates joined
// by arrows in visiting order, closing back to the first stop. Adapted from
// the teacher's City-based SVG renderer to work over the generic
// Individual[int] encoding instead of a problem-specific chromosome type.
func VisualizeRoute(stops []RouteLabel, route Individual[int], filename string) error {
	if len(route) == 0 {
		return fmt.Errorf("ga: empty route")
	}
	for _, idx := range route {
		if idx < 0 || idx >= len(stops) {
			return fmt.Errorf("ga: route index %d out of range for %d stops", idx, len(stops))
		}
	}

	minX, maxX := stops[route[0]].X, stops[route[0]].X
	minY, maxY := stops[route[0]].Y, stops[route[0]].Y
	for _, idx := range route {
		s := stops[idx]
		if s.X < minX {
			minX = s.X
		}
		if s.X > maxX {
			maxX = s.X
		}
		if s.Y < minY {
			minY = s.Y
		}
		if s.Y > maxY {
			maxY = s.Y
		}
	}

	padding := 80.0
	canvasWidth := 800.0
	canvasHeight := 600.0

	spanX := maxX - minX
	spanY := maxY - minY
	if spanX == 0 {
		spanX = 1
	}
	if spanY == 0 {
		spanY = 1
	}
	scale := math.Min((canvasWidth-2*padding)/spanX, (canvasHeight-2*padding)/spanY)

	transformX := func(x float64) float64 { return padding + (x-minX)*scale }
	transformY := func(y float64) float64 { return padding + (y-minY)*scale }

	svg := fmt.Sprintf(`<svg width="%.0f" height="%.0f" xmlns="http://www.w3.org/2000/svg">`, canvasWidth, canvasHeight)
	svg += `<defs><marker id="arrowhead" markerWidth="10" markerHeight="7" refX="9" refY="3.5" orient="auto">`
	svg += `<polygon points="0 0, 10 3.5, 0 7" fill="blue" /></marker></defs>`

	for i := range route {
		cur := stops[route[i]]
		next := stops[route[(i+1)%len(route)]]
		x1, y1 := transformX(cur.X), transformY(cur.Y)
		x2, y2 := transformX(next.X), transformY(next.Y)
		dx, dy := x2-x1, y2-y1
		length := math.Sqrt(dx*dx + dy*dy)
		if length > 0 {
			const r = 6.0
			ox, oy := dx/length*r, dy/length*r
			svg += fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="blue" stroke-width="2" marker-end="url(#arrowhead)" />`,
				x1+ox, y1+oy, x2-ox, y2-oy)
		}
	}

	for i, idx := range route {
		s := stops[idx]
		x, y := transformX(s.X), transformY(s.Y)
		svg += fmt.Sprintf(`<circle cx="%.2f" cy="%.2f" r="6" fill="red" stroke="black" stroke-width="1" />`, x, y)
		label := s.Name
		if label == "" {
			label = fmt.Sprintf("%d", i)
		}
		svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="12" font-weight="bold" fill="black">%s</text>`,
			x, y-12, label)
	}

	totalDistance := routeDistance(stops, route)
	svg += fmt.Sprintf(`<text x="%.2f" y="25" text-anchor="middle" font-family="Arial, sans-serif" font-size="18" font-weight="bold" fill="black">Route Visualization</text>`, canvasWidth/2)
	svg += fmt.Sprintf(`<text x="%.2f" y="%.2f" text-anchor="middle" font-family="Arial, sans-serif" font-size="14" fill="black">Total Distance: %.2f</text>`,
		canvasWidth/2, canvasHeight-15, totalDistance)
	svg += `</svg>`

	return os.WriteFile(filename, []byte(svg), 0644)
}

// RouteDistance sums the closed-tour Euclidean distance of route over
// stops, returning to stops[route[0]] after the last stop.
func RouteDistance(stops []RouteLabel, route Individual[int]) float64 {
	return routeDistance(stops, route)
}

func routeDistance(stops []RouteLabel, route Individual[int]) float64 {
	var total float64
	for i := range route {
		a := stops[route[i]]
		b := stops[route[(i+1)%len(route)]]
		dx, dy := a.X-b.X, a.Y-b.Y
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

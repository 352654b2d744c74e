// Package export renders computed trajectories to static SVG drawings. It
// consumes positions/series only; nothing here feeds back into the
// simulation.
package export

import (
	"fmt"
	"os"
	"strings"
)

// A4 paper at 96 dpi (210mm x 297mm).
const (
	A4WidthPx  = 794
	A4HeightPx = 1123
)

// FloorProjection draws the trajectory projected onto the floor plane (x-y),
// black line on white, equal aspect, sized for A4.
func FloorProjection(points [][3]float64) string {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p[0]
		ys[i] = p[1]
	}
	return projectionSVG(xs, ys)
}

// WallProjection draws the trajectory projected onto the wall plane (y-z).
func WallProjection(points [][3]float64) string {
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		ys[i] = p[1]
		zs[i] = p[2]
	}
	return projectionSVG(ys, zs)
}

// WriteProjections saves both projections of a trajectory.
func WriteProjections(floorPath, wallPath string, points [][3]float64) error {
	if err := os.WriteFile(floorPath, []byte(FloorProjection(points)), 0644); err != nil {
		return fmt.Errorf("write floor projection: %w", err)
	}
	if err := os.WriteFile(wallPath, []byte(WallProjection(points)), 0644); err != nil {
		return fmt.Errorf("write wall projection: %w", err)
	}
	return nil
}

func projectionSVG(xs, ys []float64) string {
	minX, maxX := bounds(xs)
	minY, maxY := bounds(ys)

	// Equal aspect: scale both axes by the larger data range.
	rangeX := maxX - minX
	rangeY := maxY - minY
	span := rangeX
	if rangeY > span {
		span = rangeY
	}
	if span == 0 {
		span = 1
	}
	span *= 1.1 // margin

	cxData := (minX + maxX) / 2
	cyData := (minY + maxY) / 2

	drawable := float64(A4WidthPx)
	scale := drawable / span

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<path fill="none" stroke="#000000" stroke-width="1.0" d="`,
		A4WidthPx, A4HeightPx, A4WidthPx, A4HeightPx))

	for i := range xs {
		px := float64(A4WidthPx)/2 + (xs[i]-cxData)*scale
		py := float64(A4HeightPx)/2 - (ys[i]-cyData)*scale
		if i == 0 {
			sb.WriteString(fmt.Sprintf("M%.2f,%.2f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// SeriesSVG renders a time series as a single polyline, used by the
// export-svg command for the derived output series.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minT, maxT := bounds(times)
	minV, maxV := bounds(values)

	rangeT := maxT - minT
	rangeV := maxV - minV
	if rangeT == 0 {
		rangeT = 1
	}
	if rangeV == 0 {
		rangeV = 1
	}
	minV -= rangeV * 0.1
	maxV += rangeV * 0.1
	rangeV = maxV - minV

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range times {
		x := (times[i] - minT) / rangeT * float64(width)
		y := float64(height) - (values[i]-minV)/rangeV*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func bounds(vals []float64) (min, max float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	min, max = vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// Package export renders recorded surfaces as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/wavesim/internal/viz"
)

const background = "#0a0a0a"

// Point is one vertex of a plotted curve.
type Point struct{ X, Y float64 }

func header(sb *strings.Builder, width, height float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background)
}

// CanvasToSVG converts a Braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}
	pw, ph := canvas.PixelSize()
	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	fmt.Fprintf(&sb, "<g fill=%q>\n", color)

	dots := [4][2]rune{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	r := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			pattern := canvas.Grid[row][col] - 0x2800
			if pattern <= 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dots[dy][dx] == 0 {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, r)
				}
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds returns the padded extent of every point across all curves.
func bounds(curves [][]Point) (minX, maxX, minY, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, pts := range curves {
		for _, p := range pts {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	return minX, maxX, minY - ry*0.1, maxY + ry*0.1
}

func path(sb *strings.Builder, pts []Point, minX, maxX, minY, maxY float64, width, height int, stroke string, opacity float64) {
	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	fmt.Fprintf(sb, `<path fill="none" stroke=%q stroke-opacity="%.2f" stroke-width="1.5" d="`, stroke, opacity)
	for i, p := range pts {
		x := (p.X - minX) / rx * float64(width)
		y := float64(height) - (p.Y-minY)/ry*float64(height)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// TrajectoryToSVG draws a single curve scaled to fill the image, such as a
// probe phase portrait.
func TrajectoryToSVG(points []Point, width, height int, stroke string) string {
	if len(points) < 2 {
		return ""
	}
	minX, maxX, minY, maxY := bounds([][]Point{points})
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	path(&sb, points, minX, maxX, minY, maxY, width, height, stroke, 1)
	sb.WriteString("</svg>")
	return sb.String()
}

// Profile turns one recorded frame into world-space points.
func Profile(heights []float64, originX, spacing float64) []Point {
	pts := make([]Point, len(heights))
	for i, h := range heights {
		pts[i] = Point{X: originX + float64(i)*spacing, Y: h}
	}
	return pts
}

// FramesToSVG overlays recorded height frames on shared axes. Older frames
// fade so the latest profile stands out.
func FramesToSVG(frames [][]float64, originX, spacing float64, width, height int, stroke string) string {
	curves := make([][]Point, 0, len(frames))
	for _, f := range frames {
		if len(f) >= 2 {
			curves = append(curves, Profile(f, originX, spacing))
		}
	}
	if len(curves) == 0 {
		return ""
	}
	minX, maxX, minY, maxY := bounds(curves)
	var sb strings.Builder
	header(&sb, float64(width), float64(height))

	// neutral surface
	if minY < 0 && maxY > 0 {
		y := float64(height) - (0-minY)/(maxY-minY)*float64(height)
		fmt.Fprintf(&sb, "<line x1=\"0\" y1=\"%.1f\" x2=\"%d\" y2=\"%.1f\" stroke=\"#333344\" stroke-dasharray=\"4 4\"/>\n", y, width, y)
	}
	for i, c := range curves {
		opacity := 0.15 + 0.85*float64(i+1)/float64(len(curves))
		path(&sb, c, minX, maxX, minY, maxY, width, height, stroke, opacity)
	}
	sb.WriteString("</svg>")
	return sb.String()
}

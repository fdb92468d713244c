package export

import (
	"strings"
	"testing"

	"github.com/san-kum/wavesim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 4, "#fff") != "" {
		t.Errorf("expected empty output for nil canvas")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4, "#00ccff")
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("expected 2 dots, got %d", n)
	}
	if !strings.Contains(svg, `width="16" height="16"`) {
		t.Errorf("expected 16x16 image")
	}
}

func TestProfile(t *testing.T) {
	pts := Profile([]float64{1, 2, 3}, 10, 0.5)
	if pts[2].X != 11 || pts[2].Y != 3 {
		t.Errorf("expected (11, 3), got %+v", pts[2])
	}
}

func TestFramesToSVG(t *testing.T) {
	if FramesToSVG(nil, 0, 1, 100, 50, "#fff") != "" {
		t.Errorf("expected empty output without frames")
	}
	frames := [][]float64{{0, 1, 0}, {0, -1, 0}, {0, 0.5, 0}}
	svg := FramesToSVG(frames, 0, 1, 100, 50, "#00ccff")
	if n := strings.Count(svg, "<path"); n != 3 {
		t.Errorf("expected 3 paths, got %d", n)
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Errorf("expected a neutral line when heights straddle zero")
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Errorf("expected closed svg")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]Point{{0, 0}}, 10, 10, "#fff") != "" {
		t.Errorf("expected empty output for a single point")
	}
	svg := TrajectoryToSVG([]Point{{0, 0}, {1, 1}, {2, 0}}, 10, 10, "#fff")
	if !strings.Contains(svg, "M0.0,") {
		t.Errorf("expected path to start at the left edge, got %s", svg)
	}
}

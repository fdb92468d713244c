package wave

import (
	"math"
	"testing"
)

func TestAddImpulse_SingleImpulse(t *testing.T) {
	g := newTestGrid(t)
	p := DefaultParams()
	c := g.WorldXToIndex(50)

	if n := g.AddImpulse(50, 5, 2, p.MaxVelocity); n == 0 {
		t.Fatal("expected at least one node touched")
	}
	Step(g, p, 0.02)

	if g.Velocity(c) <= 0 {
		t.Errorf("expected positive velocity at center, got %f", g.Velocity(c))
	}
	for _, i := range []int{c - 10, c + 10} {
		if math.Abs(g.Velocity(i)) > 1e-12 {
			t.Errorf("node %d should be unaffected, got %f", i, g.Velocity(i))
		}
	}
}

func TestAddImpulse_Split(t *testing.T) {
	g := newTestGrid(t)
	c := g.WorldXToIndex(50)
	x := g.IndexToWorldX(c)

	g.AddImpulse(x, 5, 1, 100)

	if math.Abs(g.Velocity(c)-3) > 1e-12 {
		t.Errorf("expected vertical share 3, got %f", g.Velocity(c))
	}
	if math.Abs(g.HVelocity(c)-2) > 1e-12 {
		t.Errorf("expected horizontal share 2, got %f", g.HVelocity(c))
	}
}

func TestAddImpulse_Falloff(t *testing.T) {
	g, _ := NewGrid(101, 100, 0)
	r := 5.0
	g.AddImpulse(50, 1, r, 100)

	for d := 0; d < 5; d++ {
		if g.Velocity(50+d) <= g.Velocity(50+d+1) {
			t.Errorf("velocity not decreasing at distance %d: %f <= %f", d, g.Velocity(50+d), g.Velocity(50+d+1))
		}
		if g.Velocity(50-d) != g.Velocity(50+d) {
			t.Errorf("falloff not symmetric at distance %d", d)
		}
	}
	want := 0.6 * math.Exp(-1)
	if math.Abs(g.Velocity(55)-want) > 1e-12 {
		t.Errorf("expected %f at the radius, got %f", want, g.Velocity(55))
	}
	if g.Velocity(56) != 0 || g.Velocity(44) != 0 {
		t.Error("nodes beyond the radius should be untouched")
	}
}

func TestAddImpulse_Noop(t *testing.T) {
	tests := []struct {
		name          string
		x, f, r, maxV float64
	}{
		{"zero radius", 50, 5, 0, 10},
		{"negative radius", 50, 5, -1, 10},
		{"zero force", 50, 0, 2, 10},
		{"NaN position", math.NaN(), 5, 2, 10},
		{"Inf force", 50, math.Inf(1), 2, 10},
		{"far left of grid", -500, 5, 2, 10},
		{"far right of grid", 500, 5, 2, 10},
		{"zero max velocity", 50, 5, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t)
			if n := g.AddImpulse(tt.x, tt.f, tt.r, tt.maxV); n != 0 {
				t.Errorf("expected no nodes touched, got %d", n)
			}
			for i := 0; i < g.Resolution(); i++ {
				if g.Velocity(i) != 0 || g.HVelocity(i) != 0 {
					t.Fatalf("node %d changed", i)
				}
			}
		})
	}
}

func TestAddImpulse_PartiallyOutside(t *testing.T) {
	g, _ := NewGrid(11, 10, 0)
	n := g.AddImpulse(-1, 1, 2.5, 10)
	// nodes -3..1 are in reach, only 0 and 1 exist
	if n != 2 {
		t.Errorf("expected 2 nodes touched, got %d", n)
	}
	if g.Velocity(1) >= g.Velocity(0) {
		t.Error("node closer to the impulse should receive more")
	}
}

func TestAddImpulse_Clamp(t *testing.T) {
	g := newTestGrid(t)
	g.AddImpulse(50, 1000, 4, 1)
	g.AddImpulse(50, -3000, 4, 1)

	for i := 0; i < g.Resolution(); i++ {
		if math.Abs(g.Velocity(i)) > 1 || math.Abs(g.HVelocity(i)) > 1 {
			t.Fatalf("node %d exceeds clamp: v=%f hv=%f", i, g.Velocity(i), g.HVelocity(i))
		}
	}
}

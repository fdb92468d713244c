// Package wave implements a discretized 1D surface-wave simulation.
//
// The package is organised around a single stateful type and a handful of
// operators over it:
//
//   - [Grid]: per-node height, vertical velocity, acceleration and
//     horizontal velocity over a fixed horizontal span
//   - [Step]: advances a grid by one fixed timestep
//   - [Grid.AddImpulse]: injects a localized velocity kick
//   - [Grid.SampleHeight] and friends: read-only world-space queries
//   - [BaseWave]: analytic sine layered on top of sampled heights
//
// [Surface] bundles a grid with a [ParamSource] and a logger and exposes the
// driver-facing API (Step, AddImpulse, Sample*).
//
// # Example
//
//	surf, _ := wave.NewSurface(128, 100, wave.ParamFunc(wave.DefaultParams))
//	surf.AddImpulse(50, 5, 2)
//	surf.Step(0.02)
//	h := surf.SampleHeight(42.5)
//
// # Thread Safety
//
// Nothing in this package locks. One driver calls Step once per tick;
// impulses and samples happen between steps. Hosts that sample from several
// goroutines must synchronize externally (see sim.SyncSurface).
package wave

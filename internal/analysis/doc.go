// Package analysis provides post-run tools for recorded surface data.
//
//   - [PowerSpectrum]: one-sided power spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency of a probe series
//   - [WavenumberSpectrum]: spatial spectrum of one height frame
//   - [NewPhasePortrait]: probe height against probe velocity
//
// # Example
//
//	spec := analysis.PowerSpectrum(result.Probe, cfg.Dt)
//	f, _ := analysis.DominantFrequency(result.Probe, cfg.Dt)
package analysis

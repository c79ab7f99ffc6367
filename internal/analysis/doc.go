// Package analysis turns arena runs into numbers and plots.
//
//   - [Series]: a coordinate time series for one block
//   - [PowerSpectrum] and [DominantPeriod]: bounce periodicity
//   - [Divergence]: sensitivity of a run to a tiny heading perturbation
//   - [PathPortrait] and [PortraitToASCII]: a block's path or phase plot
//
// # Sensitivity
//
// Two arenas started from headings a hair apart separate once their blocks
// hit the center block or each other:
//
//	res, err := analysis.Divergence(analysis.DivergenceConfig{Ticks: 2000, Red: 0.8, Blue: 4.1})
//	if res.GrowthRate > 0 {
//	    // nearby runs diverge
//	}
package analysis

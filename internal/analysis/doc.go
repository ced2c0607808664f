// Package analysis extracts bounce structure from recorded height series.
//
//   - [FindApexes] and [FindMinima]: local extrema of a sampled series
//   - [Analyze]: apexes, contacts and per-bounce restitution estimates
//   - [GeneratePhasePortrait]: height against vertical velocity
//   - [ApexDiagram]: apex heights across the runs of a parameter sweep
//
// # Restitution
//
// Between two successive apexes h1 and h2 of a sphere of radius r the
// effective coefficient of restitution is
//
//	e = sqrt((h2 - r) / (h1 - r))
//
// which is what the "R=" label of the time series refers to.
package analysis

// Package metrics computes trading-performance statistics from a client's
// cleaned daily PNL series: cumulative PNL and drawdown curves, win/loss
// ratios, streaks, expectancy, and a month-aggregated PNL table.
//
// Every function here is pure and total: the same series always produces
// the same output, and the degenerate empty series yields a fully
// zero-valued summary instead of panicking on empty reductions.
package metrics

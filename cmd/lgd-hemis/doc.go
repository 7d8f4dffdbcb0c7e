// Package main hosts the lgd-hemis CLI entrypoint and command graph.
//
// The root command runs a batch: it discovers segmentation volumes under the
// input directory, pairs each with its T2 companion, and drives minccalc and
// extract_wm_hemispheres_fetus for every subject on a bounded worker pool.
// Subcommands expose a dry-run plan, tool availability, the label remap
// table, run history, and configuration scaffolding.
//
// Keep this package lean: behavior lives in internal packages and is only
// wired together here.
package main

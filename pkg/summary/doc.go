// Package summary tracks operation outcome counts for the end-of-run report.
// The summary is the primary success signal of a run: it is always printed,
// even when every single operation failed.
package summary

// Package pipeline orchestrates a site scan as an ordered sequence of
// steps: normalize the input URL, discover candidate pages, extract
// people from each page, then score and select decision makers. Each
// step mutates the shared scan result; degraded outcomes are recorded as
// error tags on the result rather than failing the run.
//
// The BatchProcessor runs the same pipeline over many sites with bounded
// concurrency. Within one site pages are fetched sequentially, keeping
// per-host request pacing meaningful.
package pipeline

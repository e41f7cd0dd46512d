// Package fetch retrieves per-airport raw feeds with bounded, paced
// concurrency.
//
// Airports are processed in sequential chunks; within a chunk every request
// launch is preceded by a short pacing delay so the upstream provider never
// sees a burst, and the chunk completes before the next one starts. A failed
// or unparseable feed contributes zero sightings to the cycle and never
// aborts the batch.
package fetch

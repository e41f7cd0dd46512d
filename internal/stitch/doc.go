// Package stitch reconstructs multi-airport flight journeys from
// fragmentary per-airport sightings.
//
// Each airport feed is a partial, single-endpoint view of a journey. The
// stitcher reconciles same-identity sightings from multiple feeds into one
// ordered chain of stops without assuming a fixed number of legs, and
// rejects groups whose data is internally inconsistent: a wrong route must
// never be published.
//
// The package also holds the time window filter that admits only journeys
// relevant to the present moment.
package stitch

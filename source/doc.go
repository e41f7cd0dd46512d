// Package source provides built-in feed source implementations.
//
// The production source, fetching and parsing the upstream per-airport
// feeds, lives outside this library, next to the protocol encoder it is
// paired with. This package includes:
//
//   - Static: Fixed in-memory sighting set for examples and integration tests
//
// Custom sources can be implemented by satisfying the types.FeedSource interface.
package source

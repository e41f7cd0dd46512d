// Package changecache decides whether a reconstructed journey carries new
// information compared to the previous poll cycle.
//
// The cache holds one fingerprint per flight key: a hash over the ordered
// mutable status fields of the journey's stops. Journeys themselves are
// never retained. The map is safe for concurrent use from the poll-cycle
// goroutine and subscriber registration.
package changecache

// Package transport provides the default outbound HTTP implementation of
// the types.Poster boundary.
package transport

// Package registry manages active push subscribers.
//
// Each subscriber owns one heartbeat goroutine, started on registration and
// stopped on termination. Push and heartbeat failures accumulate in a shared
// per-subscriber counter; the threshold is only evaluated at heartbeat-tick
// time (lazy eviction), so a transient blip during a push never removes a
// subscriber outright. Termination is idempotent and terminal.
package registry

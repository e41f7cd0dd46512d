// Package publish mirrors changed-journey documents onto a NATS JetStream
// subject, in addition to the HTTP push path.
//
// The mirror lets in-cluster consumers follow flight status changes without
// registering an HTTP callback. It is optional and best-effort: a publish
// failure is logged by the service and never aborts a poll cycle.
package publish

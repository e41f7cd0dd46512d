package types

import "time"

// DataType identifies the kind of payload a document carries and the kind of
// updates a subscription wants to receive.
type DataType string

// DataTypeFlightStatus is the only data type produced by this service:
// flight status journey updates.
const DataTypeFlightStatus DataType = "flight-status"

// Document is an encoded protocol payload ready for delivery. The body is
// opaque to the core; its schema belongs to the external protocol encoder.
type Document struct {
	Type DataType
	Body []byte
}

// Subscription describes one registered push subscriber.
//
// The registry owns the associated mutable state (failure counter,
// heartbeat timer); Subscription itself is immutable after registration.
type Subscription struct {
	// ID is the unique subscription identifier assigned on subscribe.
	ID string

	// CallbackAddress is the URL that receives status pushes and
	// heartbeat notifications.
	CallbackAddress string

	// RequestorRef is the subscriber-supplied participant reference,
	// echoed in heartbeat notifications.
	RequestorRef string

	// HeartbeatInterval is the period of this subscriber's liveness probe.
	HeartbeatInterval time.Duration

	// DataType selects which documents this subscription receives.
	DataType DataType

	// RegisteredAt records when the subscription was accepted.
	RegisteredAt time.Time
}

package gibil

import "errors"

// Sentinel errors returned by the Service.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrFeedSourceRequired is returned when the feed source is nil.
	ErrFeedSourceRequired = errors.New("feed source is required")

	// ErrEncoderRequired is returned when the protocol encoder is nil.
	ErrEncoderRequired = errors.New("protocol encoder is required")

	// ErrPosterRequired is returned when the outbound poster is nil.
	ErrPosterRequired = errors.New("outbound poster is required")

	// ErrAlreadyStarted is returned when Start is called on a running service.
	ErrAlreadyStarted = errors.New("service already started")

	// ErrNotStarted is returned when Stop is called on a service that is not running.
	ErrNotStarted = errors.New("service not started")

	// ErrInvalidCallback is returned when a subscription callback address is empty.
	ErrInvalidCallback = errors.New("callback address is required")

	// ErrSubscriptionNotFound is returned when unsubscribing an unknown or
	// already-evicted subscription.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

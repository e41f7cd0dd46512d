package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/entur/gibil-sub000/internal/natsutil"
	"github.com/entur/gibil-sub000/types"
)

// Common errors for publisher construction and operation.
var (
	ErrConnRequired = errors.New("NATS connection is required")
	ErrEmptyStream  = errors.New("stream name is required")

	// ErrBusUnavailable wraps publish failures caused by bus connectivity.
	// Callers may treat these as transient.
	ErrBusUnavailable = errors.New("message bus unavailable")
)

const ensureStreamTimeout = 10 * time.Second

// NATSPublisher implements types.ChangePublisher over a JetStream stream.
//
// Documents are published on "<subjectPrefix>.<dataType>" so consumers can
// filter by data type with a plain subject subscription.
type NATSPublisher struct {
	js            jetstream.JetStream
	subjectPrefix string
}

// Compile-time assertion that NATSPublisher implements ChangePublisher.
var _ types.ChangePublisher = (*NATSPublisher)(nil)

// NewNATS creates a publisher and ensures the backing stream exists.
//
// Parameters:
//   - nc: NATS connection
//   - stream: JetStream stream name (created or updated on construction)
//   - subjectPrefix: Subject prefix for published documents
//
// Returns:
//   - *NATSPublisher: Ready publisher
//   - error: Connection or stream provisioning error
//
// Example:
//
//	pub, err := publish.NewNATS(nc, "GIBIL-CHANGES", "gibil.changes")
//	svc, err := gibil.New(&cfg, feed, enc, poster, gibil.WithChangePublisher(pub))
func NewNATS(nc *nats.Conn, stream, subjectPrefix string) (*NATSPublisher, error) {
	if nc == nil {
		return nil, ErrConnRequired
	}
	if stream == "" {
		return nil, ErrEmptyStream
	}
	if subjectPrefix == "" {
		subjectPrefix = "gibil.changes"
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create jetstream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ensureStreamTimeout)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     stream,
		Subjects: []string{subjectPrefix + ".>"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to ensure stream %s: %w", stream, err)
	}

	return &NATSPublisher{js: js, subjectPrefix: subjectPrefix}, nil
}

// Publish sends one document body to the stream. Connectivity failures are
// wrapped in ErrBusUnavailable.
func (p *NATSPublisher) Publish(ctx context.Context, doc types.Document) error {
	subject := p.subjectPrefix + "." + string(doc.Type)
	if _, err := p.js.Publish(ctx, subject, doc.Body); err != nil {
		if natsutil.IsConnectivityError(err) {
			return fmt.Errorf("%w: %v", ErrBusUnavailable, err)
		}

		return fmt.Errorf("failed to publish change document: %w", err)
	}

	return nil
}

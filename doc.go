// Package gibil aggregates near-real-time flight status events from
// per-airport feeds, reconstructs complete multi-airport journeys from
// fragmentary per-airport records, detects meaningful status changes across
// polling cycles, and pushes those changes to registered subscribers with
// per-subscriber liveness monitoring.
//
// The Service is the main entry point. It drives a fixed-period poll cycle:
//
//	fetch (bounded fan-out) → stitch → time window filter →
//	change detection → encode → push
//
// and manages the subscriber registry with one independent heartbeat timer
// per subscriber. The upstream feed format, the wire protocol schema, and
// process startup are external collaborators wired in through the
// boundary interfaces in the types subpackage.
//
// Basic usage:
//
//	cfg := gibil.DefaultConfig()
//	cfg.Airports = []string{"OSL", "BGO", "TRD"}
//
//	svc, err := gibil.New(&cfg, feedSource, encoder, transport.NewHTTP(),
//	    gibil.WithLogger(logging.NewSlogDefault()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := svc.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer svc.Stop(context.Background())
//
//	id, err := svc.Subscribe(ctx, "https://consumer.example/cb", "consumer-1", 60*time.Second)
package gibil

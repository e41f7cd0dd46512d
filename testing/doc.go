// Package testing provides test utilities for the gibil library.
//
// It offers a test logger that routes structured output through testing.T
// and an embedded NATS server for exercising the JetStream mirror publisher
// without external dependencies, following Go's convention of a dedicated
// testing package (similar to net/http/httptest).
//
// Example usage:
//
//	import gibiltest "github.com/entur/gibil-sub000/testing"
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := gibiltest.StartEmbeddedNATS(t)
//	    logger := gibiltest.NewTestLogger(t)
//	    // ...
//	}
package testing

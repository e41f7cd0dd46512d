// Package types defines the core data model and boundary interfaces of the
// gibil flight status aggregator.
//
// This package has no dependencies on the rest of the module so that internal
// packages can share the model without import cycles. The root gibil package
// re-exports the commonly used definitions via type aliases.
package types

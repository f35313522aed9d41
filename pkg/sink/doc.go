// Package sink provides wizard.Sink implementations: an HTTP webhook that POSTs
// the submission as JSON, a writer sink that prints it, and a fan-out helper
// that delivers to several sinks in order.
package sink

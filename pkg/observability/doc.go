// Package observability carries the Prometheus instruments of the pairing
// layer. The core records nothing itself; consumers create a Metrics value on
// their own registry, count outcomes from their resolution loop, and wrap the
// environment they resolve against with InstrumentEnvironment.
package observability

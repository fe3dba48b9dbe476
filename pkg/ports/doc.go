/*
Package ports defines the contracts between the pairing layer and the
evaluation engine that hosts it.

The central contract is Environment: a batched, non-blocking view of the
engine's computed graph values. Absence of a value is an expected outcome
(the value has not been computed this round), not an error; the error return
is reserved for host interruption.

Adapters under pkg/adapters implement Environment against concrete backends.
The conformance suite in pkg/ports/tests keeps them honest.
*/
package ports

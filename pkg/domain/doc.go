/*
Package domain contains the value types the pairing layer operates over.

It defines the graph-side entities (nodes, loaded packages, declarations,
configurations) at their interface boundary. This package is kept pure and
free of I/O or persistence, following Hexagonal Architecture principles; the
evaluation engine that owns these values lives on the other side of the
pkg/ports contracts.

# Key Entities

  - Node: a graph vertex under evaluation, addressed by a Label and optionally
    bound to a configuration key.
  - Package: the loaded declaration set for one package identifier.
  - Declaration: the source-level unit a node was instantiated from.
  - Configuration: a keyed bundle of named option fragments.
*/
package domain

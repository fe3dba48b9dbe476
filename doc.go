/*
Package espalier pairs the vertices of an incremental build graph with the
source declarations and configurations they were instantiated from, and keeps
those pairings honest.

It is the consistency layer between an evaluation engine and the consumers
that need a node, its declaration and its configuration together: analysis
passes, dependency resolution, introspection tooling. The engine computes
values; espalier assembles them into short-lived, validated Pairing tuples.

# Concept

A build graph addresses everything by keys. A node knows the label of its
declaration and, when configurable, the key of its configuration, but holds
neither object. Whenever a consumer needs the objects side by side, the
members are fetched from the graph and bound into a Pairing whose structural
consistency (matching labels, matching configuration keys) is checked at
construction. Pairings are never stored back into the graph; they are
assembled per evaluation step and dropped. This Hexagonal Architecture keeps
the core free of engine specifics: the graph is reached only through the
ports.Environment contract, and the reference adapters under pkg/adapters
(memory, Redis, SQLite, filesystem snapshot) stand in for the host engine in
tests and tooling.

# Key Features

  - Checked construction: a Pairing that exists is a Pairing that is
    consistent. Violations surface as *InvariantError, never as silent skew.
  - Batched, non-blocking resolution: ResolveNode fetches the package and
    configuration in one round trip and reports "not ready" as a value, so
    engines can interleave resolution with the rest of their scheduling.
  - Controlled rebinding: Rebind swaps the node and re-validates;
    RebindUnchecked supports configuration trimming, where the divergence is
    intentional.

# Usage

Resolution runs against any ports.Environment. The in-memory adapter is
enough to see the flow:

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/espalier"
		"github.com/aretw0/espalier/pkg/adapters/memory"
		"github.com/aretw0/espalier/pkg/domain"
		"github.com/aretw0/espalier/pkg/label"
	)

	func main() {
		lbl := label.MustParse("//lib:core")
		pkg, _ := domain.NewPackage("lib", domain.NewDecl(lbl, "library"))
		cfg := domain.NewConfiguration("host", nil)

		env := memory.New()
		if err := env.Publish(context.Background(), pkg, cfg); err != nil {
			log.Fatal(err)
		}

		node := domain.NewConfiguredHandle(lbl, "host")
		pairing, ready, err := espalier.ResolveNode(context.Background(), env, node)
		if err != nil {
			log.Fatal(err)
		}
		if !ready {
			// Missing values; the engine schedules them and retries.
			return
		}
		fmt.Println(pairing.Declaration().Kind()) // "library"
	}
*/
package espalier

/*
Package dsl provides a fluent builder for constructing fixture graphs
programmatically instead of loading a YAML workspace.

It is aimed at tests and examples: declare packages, configurations, and
node handles in Go, then publish the built fixture to any store and resolve
the nodes against it.

Example usage:

	b := dsl.New()

	b.Package("lib").
		Declaration("core", "library").
		Declaration("cli", "binary")

	b.Configuration("host").
		Fragment("build", map[string]any{"opt_level": 2})

	b.Node("//lib:core").Under("host")
	b.Node("//lib:cli")

	fx, err := b.Build()
	if err != nil {
		// a label failed to parse or a package held duplicate declarations
	}

	store := memory.New()
	if err := fx.Publish(ctx, store); err != nil {
		// ...
	}
	// fx.Nodes are ready to resolve against the store.
*/
package dsl

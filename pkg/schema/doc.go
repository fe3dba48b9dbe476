// Package schema provides runtime type validation for configuration option
// fragments.
//
// A configuration carries named fragments of loosely typed options
// (map[string]any decoded from YAML or JSON). A Schema pins the expected
// shape of one fragment: field names mapped to types, with built-in types
// (string, int, float, bool), homogeneous slices, nested maps and custom
// validators.
//
// Basic usage:
//
//	platform := schema.Schema{
//	    "os":        schema.String(),
//	    "hermetic":  schema.Bool(),
//	    "cpu_count": schema.Int(),
//	}
//
//	frag, _ := configuration.Fragment("platform")
//	if err := schema.Validate(platform, frag); err != nil {
//	    // err aggregates every field failure
//	}
//
// Schemas can also be parsed from type strings, which is how the workspace
// document declares them:
//
//	s, err := schema.ParseTypeMap(map[string]string{
//	    "os":       "string",
//	    "hermetic": "bool",
//	    "tags":     "[string]",
//	})
//
// The package has no dependencies beyond the standard library and knows
// nothing about configurations themselves; internal/validator applies it to
// a loaded workspace.
package schema

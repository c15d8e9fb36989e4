// Package schemaedit provides the schema/data path-resolution core of a
// schema-driven document editor:
//
// - A recursive schema model (Primitive, Object, Array, Union) as a closed sum type
// - A tolerant path grammar ("users[0].address.city") with Segment/Path values
// - Union variant inference (discriminator, structural scoring, array shape, primitive kind)
// - A schema+value co-walker producing a Location for any path
// - A lenient structural compatibility check that gates copy/paste
// - An explicit, path-keyed store of user-forced variant choices
//
// Design policy:
// - Everything here is pure and synchronous. Inputs are never mutated; value-producing
//   operations work on a Clone and return a new root.
// - "Cannot determine" is a valid result (nil variant, shallower Location), never an error.
// - Field-tree building lives under fieldtree/, clipboard and paste under clipboard/,
//   schema decoding under schemaload/ and the CLI under cmd/schemaedit.
//
// Typical usage:
//
//	root, _, err := schemaload.LoadYAML(data, schemaload.Options{})
//	sel := schemaedit.NewVariantSelections()
//	loc := schemaedit.ResolveString(root, doc, "pets[0].name", sel)
//	if u, ok := loc.Schema.(*schemaedit.Union); ok {
//		v := schemaedit.ResolveVariant(u, loc.Value, sel.Index(loc.BasePath))
//		_ = v // nil means: ask the user to choose
//	}
package schemaedit

// Package component defines the descriptor data model for the registration
// kernel: what a registrable component looks like before anything is
// instantiated.
//
// A Descriptor mirrors what an annotated bean definition carries in Spring —
// source type, scope, lazy/primary flags, qualifier tags, and an instance
// supplier — except that all metadata is explicit and typed. There is no
// annotation scanning and no reflective construction: the external loader
// populates a Metadata value and supplies a Factory, and the kernel consumes
// both as plain data.
//
//	md := component.Metadata{Type: component.TypeOf[*Widget]()}
//	factory := func() (any, error) { return &Widget{}, nil }
//	registrar.Register(md, factory)
package component

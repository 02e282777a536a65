// Package gotmpl is a from-scratch interpreter for the Go text/template
// action language: {{...}} actions with pipelines, if/range/with control
// structures, variables, trim markers, and a pluggable helper function
// registry.
//
// The package deliberately diverges from the standard library in a few
// documented ways: map iteration order is always sorted (deterministic
// output), unknown function names fail at parse time, and assigning an
// undeclared variable fails at render time.
//
// Basic usage:
//
//	engine := gotmpl.MustNew()
//	tmpl, err := engine.Parse("greeting", `Hello {{ .name | title }}!`)
//	out, err := tmpl.Render(map[string]any{"name": "ada"})
//
// A parsed Template and its frozen function registry are immutable and safe
// for unlimited concurrent renders.
package gotmpl

// Package migrate rewrites legacy template syntax into its current form.
//
// Each Rule registers handlers per node kind. A Pipeline composes the rules of a run
// into one registry and Run applies it in a single traversal of the tree. Rules only
// report: every rewrite is a Fix attached to a deprecation diagnostic, and whether it
// runs is decided by the fix policy behind the Reporter (internal/fix).
//
// Structural errors (the <invoke> call form) are the exception: the offending tag is
// removed right away so later phases never see it.
package migrate

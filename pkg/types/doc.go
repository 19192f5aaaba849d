// Package types implements the pipeflow type system: descriptors for the
// values that move through a pipeline (literals, containers, numeric
// arrays, tabular frames) and the dual-mode schema checking they provide.
//
// Every Type can be checked against a live value (instance mode) or
// against another Type descriptor standing in for that value (type mode).
// The two modes are symmetric: checking a value against a Type is
// equivalent, for every property the type encodes, to checking the Type
// inferred from that value against the declared Type. This is what lets a
// pipeline validate its stages by schema inspection alone, before any
// expensive computation runs.
package types

// Package guccomposite implements a composite configuration-value
// subsystem: a registry of user-defined record, fixed-array and
// dynamic-array types; a recursive-descent parser and serializer for a
// bespoke value grammar (full literals and semicolon-terminated
// "path=value" patch lists); and the structural operations — clone,
// compare, free, nested-path lookup — that every composite-typed
// configuration variable needs.
//
// A Registry is the single collaborator: it owns the type catalog and is
// the receiver for every operation that needs a type; ConvertPath,
// NormalizeValue and the atom helpers work on text alone and are plain
// functions. Callers build one Registry
// per process (or per test), register their types and variables against
// it, and then use it to parse, serialize and manipulate values of those
// types.
package guccomposite

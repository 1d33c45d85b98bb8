// Package catalog holds method tables of well-known Windows Runtime
// interfaces and the value types they use.
//
// The tables list methods in vtable order. Entries are shared and must not
// be extended in place; build a new table with invoke.FromIInspectable for
// anything else.
package catalog

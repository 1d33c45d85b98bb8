// Package layout is the registry of user-defined value types (structs) that
// cross the vtable ABI by value.
//
// A Registry is append-only: struct definitions are assigned sequential ids,
// are never edited and never removed. A Handle names either a primitive ABI
// category or a struct of one registry and answers size, alignment, field
// offset and foreign-call descriptor queries. Offsets follow C natural
// alignment: every field starts at a multiple of its own alignment and the
// total size is rounded up to the largest field alignment. Explicit packing
// is not supported.
//
// ValueTypeData is a zeroed buffer shaped by a Handle with typed field access.
//
// Struct-only accessors called on a primitive handle, and field indexes out of
// range, are programmer errors and panic.
package layout

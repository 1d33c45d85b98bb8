// Package abi describes the raw calling-convention categories used by the
// WinRT vtable ABI and the descriptors the call engine lowers them with.
//
// # Contents
//
//   - types.go: the closed set of transport categories (bool, sized integers,
//     floats, pointer) with their size, alignment and zero value
//   - value.go: tagged scalar values, argument words and raw storage access
//   - descriptor.go: foreign-call type descriptors, including composite structs
//   - win64.go: argument classification for the Windows x64 convention
//
// Every category has alignment equal to its size. Pointers are one machine word.
package abi

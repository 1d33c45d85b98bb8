// Package handles provides a concurrent table of Go values addressed by small
// integer handles.
//
// Native code cannot hold Go pointers, so objects that the platform calls back
// into (completion handlers, emulated callbacks, emulated strings) are parked in
// a Table and identified by their Handle. Handle 0 is reserved and always invalid.
// Freed slots are reused.
package handles

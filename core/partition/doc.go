// Package partition chunks extracted domain sets into gateway-sized
// lists and derives the list and rule names used to publish them. It
// carries the hard quota constants the rest of the engine checks
// against before touching the remote account.
package partition

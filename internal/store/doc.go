// Package store implements the in-memory job store. It owns every Job record:
// callers read value snapshots and apply changes through Update with a Mutator,
// which is the only way to move a job through its state machine. All
// synchronization lives behind the store API; nothing outside this package
// holds a live Job pointer.
package store

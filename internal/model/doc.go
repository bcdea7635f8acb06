// Package model defines the domain data structures shared across the service:
// download jobs and their state enum. Jobs are plain values; all mutation goes
// through the store so that state transitions stay explicit.
package model

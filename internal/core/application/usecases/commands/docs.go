// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
//
// Every handler follows the same shape: validate the command, open a unit of work,
// load and mutate aggregates, persist them and commit. Side effects that leave the
// process (tracking updates, order events, tracking timers) happen only after the
// commit, through Effects and ports.TrackingScheduler.
package commands

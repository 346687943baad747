// Package ports defines the contracts between the application core and the adapters
// of the food delivery service: repositories behind a unit of work, the live
// tracking publisher, the order event sink, the idempotency key store and the
// per-order tracking scheduler.
//
// Repository implementations return errs.ObjectNotFoundError (matching
// errs.ErrObjectNotFound) for missing entities and hand out copies, so callers may
// mutate what they read and persist it with Update.
package ports

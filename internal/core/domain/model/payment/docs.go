// Package payment contains the payment sub-machine: one Payment per order whose
// status moves PENDING -> PAID -> REFUNDED or PENDING -> FAILED.
//
// Settlement is simulated. The caller decides whether a payment succeeds; the
// aggregate only checks that the requested edge exists and stamps the synthetic
// transaction id and processing time on the first move away from PENDING.
package payment

// Package user holds the identity side of the domain: customers who place orders,
// couriers who deliver them, restaurant staff and administrators.
//
// A User is read-mostly. The order orchestrator only needs its role, its city
// (which picks the courier speed used for ETA estimates) and its default address
// (the customer's drop-off point or the courier's home coordinates).
package user

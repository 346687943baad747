// Package queries contains the read side of the service. Every handler opens a
// unit of work, reads the aggregates it needs and flattens them into read models
// shaped for the HTTP API. Handlers never write.
package queries

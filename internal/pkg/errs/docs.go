// Package errs defines the error taxonomy shared by the domain, the use cases and
// the adapters.
//
// Every typed error unwraps to exactly one sentinel:
//   - ValueIsInvalidError, ValueIsRequiredError, ValueIsOutOfRangeError: bad input,
//     grouped by IsValidation and answered with 422
//   - ObjectNotFoundError: a referenced order, user, menu item or coupon is missing (404)
//   - ConflictError: the request is illegal for the current state, such as a status
//     change outside the transition table or an exhausted coupon (409)
//
// Callers classify with errors.Is on the sentinels and keep details in Cause.
package errs

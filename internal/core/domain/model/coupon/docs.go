// Package coupon implements promotion codes and the rules that decide whether a
// code can discount a given cart.
//
// Evaluate never fails: an unusable coupon yields a Result with Valid=false, a
// human-readable Reason, no discount and FinalTotal equal to the cart total.
// Redeem is the only mutation and bumps the usage counter.
package coupon

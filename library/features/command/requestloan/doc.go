// Package requestloan implements lending a book to a patron.
//
// The decision reads the book's and the patron's histories through one filter,
// so the append conflicts with any concurrent change of either of them:
// two requests for the same book, or two requests of a patron at the cap, can't both succeed.
package requestloan

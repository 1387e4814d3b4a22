// Package returnloan implements closing an open loan. Loans are addressed by id only,
// any caller knowing the id can return it.
package returnloan

// Package httpapi exposes the loan ledger and the catalog as a JSON API under /api.
//
// Field names and messages are French, as the clients of the API expect them. Domain errors are
// mapped to status codes in one place, see statusOf.
package httpapi

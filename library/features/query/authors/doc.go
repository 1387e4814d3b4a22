// Package authors implements the query listing authors, or a single one by id.
package authors

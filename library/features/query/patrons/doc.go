// Package patrons implements the query listing registered patrons, or a single one by id.
package patrons

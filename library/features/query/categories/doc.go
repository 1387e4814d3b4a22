// Package categories implements the query listing categories, or a single one by id.
package categories

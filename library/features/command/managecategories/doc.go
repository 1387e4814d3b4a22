// Package managecategories implements adding, renaming and removing categories,
// with the same rules as authors.
package managecategories

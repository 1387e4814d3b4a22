// Package catalog maintains the authors, categories, books and patrons the loan ledger refers to.
//
// Ids of new entities are generated UUIDv7 strings. Removed ids are never reused.
package catalog

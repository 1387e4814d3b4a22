// Package snapshot speeds up projections that read long event histories.
//
// QueryWrapper keeps the last projection of a query in a snapshot store together with the sequence number
// of the last event it contains. On the next call only the events appended after that sequence number are
// queried and projected on top of the restored projection. LRUStore is an in-process snapshot store.
package snapshot

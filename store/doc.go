// Package store defines how the hydrator looks up persisted domain objects.
//
// The hydrator never writes. It only asks a [Finder] for the canonical
// instance addressed by an [Identifier], when a record carries identifier
// values or an association refers to another object by key.
//
// # Implementations
//
//   - store/memstore: in-memory identity map, used in tests
//   - store/gormstore: gorm backed lookups (SQL databases)
//   - store/dynamo: DynamoDB lookups with TTL based soft deletes
//
// # Errors
//
// A lookup miss is reported as [ErrNotFound]. The hydrator treats it as a
// normal outcome, any other error aborts the call.
package store

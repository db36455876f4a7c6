// Package hydrator maps between flat records and persisted domain objects.
//
// Extract reads an object into a *record.Record, Hydrate writes a record
// into an object. Both work either through the object's accessor methods
// (by value: GetX/X, SetX, AddX, RemoveX) or directly on its struct storage
// (by reference), as selected by [Config].
//
// # Associations
//
// Field kinds come from a metadata.Provider. A single-valued association
// accepts a live instance, an identifier (a bare scalar when the target has
// one identifier field, or a mapping of identifier fields) or a nested
// record, which is hydrated recursively into the stored instance it
// identifies or into a new instance. Collection-valued associations accept
// a sequence of any of those and are reconciled in place by a
// strategy.CollectionStrategy: the container is never replaced.
//
// A record carrying values for every identifier field of the target type is
// hydrated into the instance returned by the store.Finder, which Hydrate
// returns in place of the object passed in.
//
// # Concurrency
//
// A Hydrator keeps no per-call state and may be shared between goroutines.
// The object graph being hydrated must not be used concurrently.
//
// # Errors
//
//   - [ErrInvalidObject] - the object is not a non-nil pointer to struct
//   - [ErrInvalidStrategy] - a collection field has a non-collection strategy
//   - [ErrReadOnly] - by-reference hydration of a read-only type or field
//   - [ErrInvalidIdentifier] - an identifier cannot address the target type
//   - [ErrTypeMismatch] - a value cannot be stored in a field
//
// Unknown fields, missing setters and uninitialized collections are skipped.
// A store miss is not an error.
package hydrator

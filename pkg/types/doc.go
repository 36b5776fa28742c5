// Package types defines the Form/Field entity graph, the Store and Table
// interfaces, and the standard error types for the formdef system.
//
// Entity types are pure in-memory domain objects: every mutation is
// synchronous and validates before writing, so no partial state is
// observable after a failed call. Persistence is the backend's job
// (internal/sqlite); entity methods never touch storage.
package types

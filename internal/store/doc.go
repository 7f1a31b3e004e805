// Package store defines the persistence interfaces and sentinel errors
// used by the service layer. Concrete implementations live under
// internal/platform (e.g., postgres). The store is the authoritative
// source of truth: services apply optimistic in-memory changes first and
// reconcile against the store whenever a write fails.
package store

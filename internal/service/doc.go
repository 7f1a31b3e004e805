// Package service implements the application's orchestration layer: the
// board service that owns in-memory board state and reconciles it with
// the persistence store, and the knowledge service that turns external
// URLs into stored study resources.
package service

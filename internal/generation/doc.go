// Package generation defines the boundary between the application core
// and external AI/LLM services, following the hexagonal architecture
// pattern. It contains the ContentProvider interface, the value types
// providers return, and helpers for defensively extracting structured
// payloads from untrusted model output.
package generation

package generation

import "errors"

// Common errors returned by content providers
var (
	// ErrProviderFailed is returned when a content provider call fails
	// for any general reason (network, quota, upstream outage).
	ErrProviderFailed = errors.New("content provider call failed")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed into the expected structure. Callers treat this the same
	// way as a provider failure.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content
	// due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the provider configuration is invalid.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)

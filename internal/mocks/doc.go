// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of interfaces used throughout
// the application, facilitating consistent and DRY testing across the
// codebase. Instead of defining inline mocks in individual test files,
// these standardized mock implementations can be reused.
//
// Usage:
//
// Import the mocks package in your test file and create the required mock:
//
//	import "github.com/nexusboard/nexus-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    provider := &mocks.MockContentProvider{
//	        GenerateSolutionDraftFn: func(ctx context.Context, task *domain.Task) (string, error) {
//	            return "mocked draft", nil
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks

package api

import "context"

// PathResolver builds endpoint paths relative to the base URL.
type PathResolver interface {
	// resourcePath returns the endpoint for a resource under the api/ prefix.
	// Example: resourcePath("complaints/7") -> "api/complaints/7"
	resourcePath(path string) string
}

// HTTPExecutor executes requests and handles JSON encoding of bodies and results.
type HTTPExecutor interface {
	// do executes a request and unmarshals a non-empty response into result.
	do(ctx context.Context, method, endpoint string, body any, result any) error

	// doRaw executes a request and returns the raw response bytes.
	// Used for confirmation endpoints whose body is opaque text.
	doRaw(ctx context.Context, method, endpoint string, body any) ([]byte, error)
}

// Requester combines PathResolver and HTTPExecutor. Resource helpers depend on
// it so they can be exercised against a fake in tests.
type Requester interface {
	PathResolver
	HTTPExecutor
}

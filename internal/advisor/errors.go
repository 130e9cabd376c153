package advisor

import "fmt"

// ParseError reports AI output that could not be decoded as JSON even after
// truncation repair. Snippet carries a bounded prefix of the raw text for
// diagnostics.
type ParseError struct {
	Reason  string
	Snippet string
}

func (e *ParseError) Error() string {
	return "parse AI response: " + e.Reason
}

// ShapeError reports decoded JSON that does not match the expected analysis
// structure.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "invalid AI response structure: " + e.Reason
}

// UpstreamError wraps a provider transport or API failure.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai provider: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

const snippetLimit = 500

func snippet(s string) string {
	if len(s) > snippetLimit {
		return s[:snippetLimit]
	}
	return s
}

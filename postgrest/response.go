package postgrest

import (
	"encoding/json"
	"fmt"
)

// CountUnknown is the Count value of a response whose content-range header
// did not report a total row count.
const CountUnknown int64 = -1

// Response wraps a parsed PostgREST response.
type Response struct {
	// Body holds the raw response payload. For most requests this is a
	// JSON array or object; for HEAD requests with CSV negotiation it is
	// raw CSV bytes.
	Body []byte

	// Status is the HTTP status code of the response.
	Status int

	// Count is the total row count reported via the content-range header,
	// or CountUnknown when the server did not report one.
	Count int64
}

// HasCount reports whether the server reported a total row count.
func (r *Response) HasCount() bool {
	return r.Count != CountUnknown
}

// DecodeInto unmarshals the response body into v.
func (r *Response) DecodeInto(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

// ABOUTME: Upstream request and raw response models exchanged with the transport
// ABOUTME: Kept free of net/http so core packages stay transport agnostic

package domain

import "strings"

// RequestKind tells the transport which header profile to present
type RequestKind string

const (
	// RequestAPI is a structured JSON query (GraphQL)
	RequestAPI RequestKind = "api"

	// RequestPage is a browser navigation returning markup
	RequestPage RequestKind = "page"
)

// UpstreamRequest is built by a strategy and sent by the transport
type UpstreamRequest struct {
	Method  string
	URL     string
	Body    []byte
	Kind    RequestKind
	Headers map[string]string
}

// RawResponse is an upstream reply with its body fully read and decoded
type RawResponse struct {
	StatusCode  int
	Body        []byte
	Headers     map[string]string
	Fingerprint string
}

// Header returns a response header value, matching names case-insensitively
func (r *RawResponse) Header(key string) string {
	for k, v := range r.Headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

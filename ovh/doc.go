// Package ovh implements a credentialed client for the OVH REST API.
//
// Owns:
//   - Request signing (the $1$ SHA-1 scheme) and header assembly
//   - The Get/Post/Put/Delete dispatch surface and the normalized Response
//   - Configuration resolution (environment + ovh.conf) and endpoint aliases
//   - The consumer-key request/validate/logout flow helpers
//
// Does not own:
//   - Resource-specific request/response schemas (callers pass any
//     JSON-serializable value and decode the body themselves)
//   - Retry, backoff, or pagination policy
//   - Clock-skew handling; the remote side is the authority on drift
//
// Invariants:
//   - The timestamp signed and the timestamp sent in X-Ovh-Timestamp are the
//     same single read
//   - The signature covers the literal body bytes that go on the wire
//   - Without a consumer key no X-Ovh-Consumer / X-Ovh-Signature headers are
//     sent; the call is application-only
package ovh

// Package mockapi implements a local stand-in for the remote OVH-style API.
//
// Owns:
//   - HTTP routing and handlers for the auth flow (/auth/credential,
//     /auth/validate/{ck}, /auth/time, /auth/logout) and signed probes
//   - Signature verification: the exact mirror of the client's header
//     assembly and $1$ SHA-1 scheme (RequireSignature)
//   - Storage of registered applications and issued consumer keys
//     (Store implementations)
//
// Does not own:
//   - Client-side signing and header assembly (package ovh)
//   - Any real OVH resource semantics; /me and /echo exist to prove
//     authentication end to end
//
// Invariants:
//   - JSON responses go through writeJSON
//   - Signed endpoints must be wrapped in RequireSignature
//   - Timestamp drift is enforced here, never in the client
package mockapi

package ovh

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// Sign computes the value sent in X-Ovh-Signature.
//
// The signed material is the six fields joined with "+" and no escaping:
//
//	secret+consumerKey+METHOD+url+body+timestamp
//
// body must be the exact serialized string transmitted (empty string when the
// request has no body, which leaves adjacent "++" in the material). The digest
// is lowercase hex SHA-1 prefixed with the "$1$" scheme marker so the remote
// verifier can tell signature versions apart. Deterministic, no nonce.
func Sign(appSecret, consumerKey, method, url, body string, timestamp int64) string {
	material := appSecret + "+" + consumerKey + "+" + method + "+" + url + "+" + body + "+" + strconv.FormatInt(timestamp, 10)
	sum := sha1.Sum([]byte(material))
	return "$1$" + hex.EncodeToString(sum[:])
}

package ovh

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignKnownVector(t *testing.T) {
	// SHA-1("S+T+GET+https://eu.api.ovh.com/1.0/me++1000000000"), with the
	// adjacent "++" left by the empty body.
	got := Sign("S", "T", "GET", "https://eu.api.ovh.com/1.0/me", "", 1000000000)
	assert.Equal(t, "$1$5f219bb8715febca028b489f1f115e8e298ba257", got)
}

func TestSignKnownVectorWithBody(t *testing.T) {
	got := Sign("secret", "consumer", "POST", "https://api.example/1.0/echo", `{"a":1}`, 1000000000)
	assert.Equal(t, "$1$fdd6fcf5c3f0c49af29884288df1b3746a352534", got)
}

func TestSignDeterministic(t *testing.T) {
	a := Sign("sec", "ck", "PUT", "https://api/x", `{"k":"v"}`, 1234567890)
	b := Sign("sec", "ck", "PUT", "https://api/x", `{"k":"v"}`, 1234567890)
	assert.Equal(t, a, b)
}

func TestSignFieldSensitivity(t *testing.T) {
	base := Sign("sec", "ck", "GET", "https://api/x", "body", 1000)

	variants := map[string]string{
		"secret":    Sign("seC", "ck", "GET", "https://api/x", "body", 1000),
		"consumer":  Sign("sec", "cK", "GET", "https://api/x", "body", 1000),
		"method":    Sign("sec", "ck", "POST", "https://api/x", "body", 1000),
		"url":       Sign("sec", "ck", "GET", "https://api/y", "body", 1000),
		"body":      Sign("sec", "ck", "GET", "https://api/x", "bodY", 1000),
		"timestamp": Sign("sec", "ck", "GET", "https://api/x", "body", 1001),
	}
	for field, got := range variants {
		assert.NotEqual(t, base, got, "changing %s must change the digest", field)
	}
}

func TestSignFormat(t *testing.T) {
	got := Sign("", "", "", "", "", 0)
	assert.True(t, strings.HasPrefix(got, "$1$"))
	assert.Len(t, got, 3+40)
	assert.Equal(t, strings.ToLower(got), got)
}

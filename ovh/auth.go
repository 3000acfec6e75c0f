package ovh

import (
	"context"
	"fmt"
	"time"
)

// AccessRule is one method/path grant requested for a consumer key.
type AccessRule struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// ReadOnlyRules grants GET on the given path pattern.
func ReadOnlyRules(path string) []AccessRule {
	return []AccessRule{{Method: "GET", Path: path}}
}

// ReadWriteRules grants all four methods on the given path pattern.
func ReadWriteRules(path string) []AccessRule {
	return []AccessRule{
		{Method: "GET", Path: path},
		{Method: "POST", Path: path},
		{Method: "PUT", Path: path},
		{Method: "DELETE", Path: path},
	}
}

// CredentialRequest is the body of POST /auth/credential.
type CredentialRequest struct {
	AccessRules []AccessRule `json:"accessRules"`
	Redirection string       `json:"redirection,omitempty"`
}

// Credential is the remote side's answer: a consumer key that stays
// pendingValidation until the user visits ValidationURL.
type Credential struct {
	ConsumerKey   string `json:"consumerKey"`
	ValidationURL string `json:"validationUrl"`
	State         string `json:"state"`
}

// RequestCredential asks for a new consumer key restricted to rules. This is
// an application-only call: it works (and is normally made) with no consumer
// key set. The returned key is not stored on the client; callers set it
// after validation.
func (c *Client) RequestCredential(ctx context.Context, rules []AccessRule, redirection string) (*Credential, error) {
	res, err := c.Post(ctx, "/auth/credential", CredentialRequest{AccessRules: rules, Redirection: redirection})
	if err != nil {
		return nil, err
	}
	if !res.OK {
		return nil, fmt.Errorf("ovh: credential request refused (status %d): %s", res.StatusCode, res.Body)
	}
	var cred Credential
	if err := res.Into(&cred); err != nil {
		return nil, err
	}
	return &cred, nil
}

// Logout invalidates the current consumer key remotely, then clears it
// locally so subsequent calls go back to application-only mode.
func (c *Client) Logout(ctx context.Context) error {
	res, err := c.Post(ctx, "/auth/logout", nil)
	if err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("ovh: logout refused (status %d): %s", res.StatusCode, res.Body)
	}
	c.ClearConsumerKey()
	return nil
}

// Time returns the remote side's clock. Informational only: the client never
// corrects its own timestamps with it, drift rejection is the server's call.
func (c *Client) Time(ctx context.Context) (time.Time, error) {
	res, err := c.Get(ctx, "/auth/time")
	if err != nil {
		return time.Time{}, err
	}
	if !res.OK {
		return time.Time{}, fmt.Errorf("ovh: time request failed (status %d)", res.StatusCode)
	}
	var ts int64
	if err := res.Into(&ts); err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0), nil
}

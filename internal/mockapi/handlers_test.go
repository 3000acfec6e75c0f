package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ovhkit/ovh"
)

func newTestAPI(t *testing.T) (*httptest.Server, Store) {
	t.Helper()
	store := NewMemStore()
	require.NoError(t, store.CreateApplication(&AppRecord{AppKey: "ak", AppSecret: "as", Name: "tester"}))

	api := &API{Store: store, Logger: zerolog.Nop()}
	srv := httptest.NewServer(api.Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func newRealClient(t *testing.T, url, secret string) *ovh.Client {
	t.Helper()
	c, err := ovh.NewClient(url, "ak", secret)
	require.NoError(t, err)
	return c
}

// Full flow with the real client: request a key, validate it, make signed
// calls, log out.
func TestCredentialFlowEndToEnd(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := newRealClient(t, srv.URL, "as")
	ctx := context.Background()

	cred, err := c.RequestCredential(ctx, ovh.ReadWriteRules("/*"), "")
	require.NoError(t, err)
	assert.Equal(t, ConsumerPending, cred.State)

	// Pending key: signature checks out but the key is not usable yet.
	c.SetConsumerKey(cred.ConsumerKey)
	res, err := c.Get(ctx, "/me")
	require.NoError(t, err)
	assert.Equal(t, 403, res.StatusCode)

	// Visit the validation URL, as the user would in a browser.
	vres, err := http.Get(cred.ValidationURL)
	require.NoError(t, err)
	vres.Body.Close()
	require.Equal(t, 200, vres.StatusCode)

	res, err = c.Get(ctx, "/me")
	require.NoError(t, err)
	require.True(t, res.OK)
	var me struct {
		Nichandle   string `json:"nichandle"`
		ConsumerKey string `json:"consumerKey"`
	}
	require.NoError(t, res.Into(&me))
	assert.Equal(t, "tester", me.Nichandle)
	assert.Equal(t, cred.ConsumerKey, me.ConsumerKey)

	// Signed call with a body: the mock re-derives the signature over the
	// exact body bytes, so a pass proves client and verifier agree.
	res, err = c.Post(ctx, "/echo", map[string]any{"a": 1})
	require.NoError(t, err)
	require.True(t, res.OK)
	var echoed struct {
		Method string `json:"method"`
		Body   struct {
			A int `json:"a"`
		} `json:"body"`
	}
	require.NoError(t, res.Into(&echoed))
	assert.Equal(t, "POST", echoed.Method)
	assert.Equal(t, 1, echoed.Body.A)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.ConsumerKey())

	// The revoked key no longer authenticates.
	c.SetConsumerKey(cred.ConsumerKey)
	res, err = c.Get(ctx, "/me")
	require.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)
}

func TestUnsignedCallRejected(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := newRealClient(t, srv.URL, "as")

	res, err := c.Get(context.Background(), "/me")
	require.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)
}

func TestWrongSecretRejected(t *testing.T) {
	srv, store := newTestAPI(t)
	require.NoError(t, store.CreateConsumer(&ConsumerRecord{
		ConsumerKey: "ck-good",
		AppKey:      "ak",
		Status:      ConsumerValidated,
	}))

	c := newRealClient(t, srv.URL, "wrong-secret")
	c.SetConsumerKey("ck-good")

	res, err := c.Get(context.Background(), "/me")
	require.NoError(t, err)
	assert.Equal(t, 401, res.StatusCode)
}

func TestStaleTimestampRejected(t *testing.T) {
	srv, store := newTestAPI(t)
	require.NoError(t, store.CreateConsumer(&ConsumerRecord{
		ConsumerKey: "ck-good",
		AppKey:      "ak",
		Status:      ConsumerValidated,
	}))

	// Hand-build a correctly signed request whose timestamp is an hour old;
	// the signature itself is valid, only the drift check should fire.
	ts := time.Now().Unix() - 3600
	url := srv.URL + "/me"
	req, err := http.NewRequest(http.MethodGet, url, strings.NewReader(""))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Ovh-Application", "ak")
	req.Header.Set("X-Ovh-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Ovh-Consumer", "ck-good")
	req.Header.Set("X-Ovh-Signature", ovh.Sign("as", "ck-good", "GET", url, "", ts))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 401, resp.StatusCode)
}

func TestCredentialRequiresKnownApplication(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := newRealClient(t, srv.URL, "whatever")
	// unknown app key
	c.AppKey = "nope"

	_, err := c.RequestCredential(context.Background(), ovh.ReadOnlyRules("/me"), "")
	assert.Error(t, err)
}

func TestCredentialRequiresAccessRules(t *testing.T) {
	srv, _ := newTestAPI(t)
	c := newRealClient(t, srv.URL, "as")

	_, err := c.RequestCredential(context.Background(), nil, "")
	assert.Error(t, err)
}

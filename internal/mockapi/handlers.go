package mockapi

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ovhkit/ovh"
)

const defaultDriftWindow = 600 // seconds, each side of now

type API struct {
	Store       Store
	DriftWindow int64 // 0 means defaultDriftWindow
	Logger      zerolog.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(io.LimitReader(r.Body, 2<<20))
}

// Routes wires the full handler set. Shared between ovh-mockd and tests.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/time", a.Time)
	mux.HandleFunc("/auth/credential", a.Credential)
	mux.HandleFunc("/auth/validate/", a.Validate)
	// Signed endpoints
	mux.HandleFunc("/auth/logout", a.RequireSignature(a.Logout))
	mux.HandleFunc("/me", a.RequireSignature(a.Me))
	mux.HandleFunc("/echo", a.RequireSignature(a.Echo))
	return mux
}

func (a *API) Time(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, 405, map[string]any{"message": "method not allowed"})
		return
	}
	writeJSON(w, 200, time.Now().Unix())
}

// Credential issues a new pendingValidation consumer key for the calling
// application. Application-only: no signature required, matching the real
// flow where the key needed for signing does not exist yet.
func (a *API) Credential(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, 405, map[string]any{"message": "method not allowed"})
		return
	}

	appKey := r.Header.Get("X-Ovh-Application")
	if appKey == "" {
		writeJSON(w, 401, map[string]any{"message": "missing X-Ovh-Application"})
		return
	}
	app, err := a.Store.GetApplication(appKey)
	if err != nil {
		writeJSON(w, 500, map[string]any{"message": "store error"})
		return
	}
	if app == nil {
		writeJSON(w, 401, map[string]any{"message": "unknown application"})
		return
	}

	body, err := readBody(r)
	if err != nil {
		writeJSON(w, 400, map[string]any{"message": "bad body"})
		return
	}
	var req ovh.CredentialRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, 400, map[string]any{"message": "bad json"})
		return
	}
	if len(req.AccessRules) == 0 {
		writeJSON(w, 400, map[string]any{"message": "missing accessRules"})
		return
	}

	ck := uuid.NewString()
	rec := &ConsumerRecord{
		ConsumerKey: ck,
		AppKey:      appKey,
		Rules:       req.AccessRules,
		Status:      ConsumerPending,
		CreatedAt:   time.Now().Unix(),
	}
	if err := a.Store.CreateConsumer(rec); err != nil {
		writeJSON(w, 500, map[string]any{"message": "store error"})
		return
	}

	a.Logger.Info().Str("app", appKey).Str("consumer", ck).Msg("issued consumer key")

	writeJSON(w, 200, ovh.Credential{
		ConsumerKey:   ck,
		ValidationURL: "http://" + r.Host + "/auth/validate/" + ck,
		State:         ConsumerPending,
	})
}

// Validate stands in for the browser validation page: visiting the URL
// returned by Credential flips the key to validated.
func (a *API) Validate(w http.ResponseWriter, r *http.Request) {
	ck := strings.TrimPrefix(r.URL.Path, "/auth/validate/")
	if ck == "" {
		writeJSON(w, 400, map[string]any{"message": "missing consumer key"})
		return
	}
	rec, err := a.Store.GetConsumer(ck)
	if err != nil {
		writeJSON(w, 500, map[string]any{"message": "store error"})
		return
	}
	if rec == nil {
		writeJSON(w, 404, map[string]any{"message": "unknown consumer key"})
		return
	}
	if err := a.Store.ValidateConsumer(ck); err != nil {
		writeJSON(w, 500, map[string]any{"message": "store error"})
		return
	}
	writeJSON(w, 200, map[string]any{"consumerKey": ck, "state": ConsumerValidated})
}

// RequireSignature re-derives the client's signature from stored credentials
// and rejects anything that does not match. Mirror image of the client's
// header assembly: same tuple, same joiner, same $1$ scheme.
func (a *API) RequireSignature(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appKey := r.Header.Get("X-Ovh-Application")
		ck := r.Header.Get("X-Ovh-Consumer")
		ts := r.Header.Get("X-Ovh-Timestamp")
		sig := r.Header.Get("X-Ovh-Signature")

		if appKey == "" || ck == "" || ts == "" || sig == "" {
			a.Logger.Warn().Str("path", r.URL.Path).Msg("missing auth headers")
			writeJSON(w, 401, map[string]any{"message": "missing authentication headers"})
			return
		}

		app, err := a.Store.GetApplication(appKey)
		if err != nil {
			writeJSON(w, 500, map[string]any{"message": "store error"})
			return
		}
		if app == nil {
			writeJSON(w, 401, map[string]any{"message": "unknown application"})
			return
		}

		window := a.DriftWindow
		if window <= 0 {
			window = defaultDriftWindow
		}
		tInt, err := strconv.ParseInt(ts, 10, 64)
		now := time.Now().Unix()
		if err != nil || tInt < now-window || tInt > now+window {
			writeJSON(w, 401, map[string]any{"message": "timestamp outside window"})
			return
		}

		rec, err := a.Store.GetConsumer(ck)
		if err != nil {
			writeJSON(w, 500, map[string]any{"message": "store error"})
			return
		}
		if rec == nil || rec.AppKey != appKey {
			writeJSON(w, 401, map[string]any{"message": "unknown consumer key"})
			return
		}
		if rec.Status != ConsumerValidated {
			writeJSON(w, 403, map[string]any{"message": "consumer key pending validation"})
			return
		}

		body, err := readBody(r)
		if err != nil {
			writeJSON(w, 400, map[string]any{"message": "bad body"})
			return
		}

		// The client signed origin+path, so rebuild the same absolute URL.
		// The mock only speaks plain HTTP.
		url := "http://" + r.Host + r.URL.RequestURI()
		want := ovh.Sign(app.AppSecret, ck, r.Method, url, string(body), tInt)
		if subtle.ConstantTimeCompare([]byte(want), []byte(sig)) != 1 {
			a.Logger.Warn().Str("path", r.URL.Path).Str("consumer", ck).Msg("bad signature")
			writeJSON(w, 401, map[string]any{"message": "bad signature"})
			return
		}

		_ = a.Store.TouchConsumer(ck, now)

		r.Body = io.NopCloser(bytes.NewReader(body))
		next(w, r)
	}
}

func (a *API) Me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, 405, map[string]any{"message": "method not allowed"})
		return
	}
	app, _ := a.Store.GetApplication(r.Header.Get("X-Ovh-Application"))
	name := "mock"
	if app != nil && app.Name != "" {
		name = app.Name
	}
	writeJSON(w, 200, map[string]any{
		"nichandle":      name,
		"applicationKey": r.Header.Get("X-Ovh-Application"),
		"consumerKey":    r.Header.Get("X-Ovh-Consumer"),
	})
}

func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, 405, map[string]any{"message": "method not allowed"})
		return
	}
	ck := r.Header.Get("X-Ovh-Consumer")
	if err := a.Store.DeleteConsumer(ck); err != nil {
		writeJSON(w, 500, map[string]any{"message": "store error"})
		return
	}
	a.Logger.Info().Str("consumer", ck).Msg("consumer key revoked")
	writeJSON(w, 200, map[string]any{"ok": true})
}

// Echo answers any signed request with what it received. Handy for poking
// the signature scheme with arbitrary methods and bodies.
func (a *API) Echo(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeJSON(w, 400, map[string]any{"message": "bad body"})
		return
	}
	resp := map[string]any{
		"method": r.Method,
		"path":   r.URL.RequestURI(),
	}
	if len(body) > 0 {
		resp["body"] = json.RawMessage(body)
	}
	writeJSON(w, 200, resp)
}

package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/openadmit/auth-service/internal/application/auth"
	"github.com/openadmit/auth-service/internal/infrastructure/memory"
	"github.com/openadmit/auth-service/internal/infrastructure/security"
	"github.com/openadmit/auth-service/internal/transport/http/middleware"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out.
// It tries to decode directly into out.
// If that fails, it tries {"data": <out>} wrapper.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	wrapped := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, out); err != nil {
			t.Fatalf("decode wrapped.data failed; body=%s err=%v", string(raw), err)
		}
		return
	}

	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s", string(raw))
	}
}

// withUserCtx injects identity into request context (the middleware keys).
func withUserCtx(req *http.Request, userID, username, role string) *http.Request {
	ctx := middleware.WithUser(req.Context(), userID, username, role)
	return req.WithContext(ctx)
}

// newTestHandler wires a real service over the in-memory store with the
// production hasher and signer at a cheap bcrypt cost.
func newTestHandler(t *testing.T) (*AuthHandler, *memory.UserStore, *security.JWTSigner) {
	t.Helper()

	store := memory.NewUserStore()
	hasher := security.NewBcryptHasher(4)
	signer := security.NewJWTSigner("test-secret", "auth-service-test")
	svc := auth.NewService(store, hasher, signer, auth.Config{AccessTTL: 15 * time.Minute})
	return NewAuthHandler(svc), store, signer
}

package http_handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openadmit/auth-service/internal/transport/http/dto"
	"github.com/openadmit/auth-service/internal/transport/http/response"
)

func doJSON(t *testing.T, h http.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, mustJSONBody(t, body))
	req.Header.Set("Content-Type", "application/json")
	h(rr, req)
	return rr
}

func signupReq() dto.SignupRequest {
	return dto.SignupRequest{
		FullName: "Alice Smith",
		Username: "Alice",
		Email:    "Alice@Example.com",
		Phone:    "0400000000",
		Password: "correct-horse",
	}
}

// ---- signup ----

func TestSignup_Created(t *testing.T) {
	h, store, _ := newTestHandler(t)

	rr := doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var data dto.SignupData
	mustReadJSON(t, rr.Body, &data)
	if data.Message != dto.MsgAccountCreated {
		t.Fatalf("message: %q", data.Message)
	}
	if data.UserID == "" {
		t.Fatalf("expected a user id")
	}

	// stored in normalized form
	u, err := store.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if u.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if u.PasswordHash == "correct-horse" {
		t.Fatalf("password stored in the clear")
	}
}

func TestSignup_BadJSON(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)
	h.Signup(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}
}

func TestSignup_MissingField(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := signupReq()
	req.Email = ""
	rr := doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d", rr.Code)
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.Error.Code != "missing_field" {
		t.Fatalf("code: %q", body.Error.Code)
	}
}

func TestSignup_DuplicateIs400(t *testing.T) {
	h, _, _ := newTestHandler(t)

	if rr := doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq()); rr.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", rr.Code)
	}

	// same username, different case and email
	dup := signupReq()
	dup.Username = "ALICE"
	dup.Email = "other@example.com"
	rr := doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", dup)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: got %d want 400", rr.Code)
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.Error.Code != "account_conflict" {
		t.Fatalf("code: %q", body.Error.Code)
	}
}

// ---- signin ----

func TestSignin_Success(t *testing.T) {
	h, _, signer := newTestHandler(t)

	doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	rr := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "  ALICE ", // normalized before lookup
		Password: "correct-horse",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var data dto.SigninData
	mustReadJSON(t, rr.Body, &data)
	if data.Message != dto.MsgLoginSuccessful {
		t.Fatalf("message: %q", data.Message)
	}
	if data.TokenType != "Bearer" {
		t.Fatalf("token type: %q", data.TokenType)
	}
	if data.ExpiresIn != 15*60 {
		t.Fatalf("expires_in: %d", data.ExpiresIn)
	}
	if data.User.Username != "alice" {
		t.Fatalf("user: %+v", data.User)
	}

	claims, err := signer.VerifyAccessToken(data.AccessToken)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if claims.Username != "alice" || claims.Role != "user" {
		t.Fatalf("claims: %+v", claims)
	}
}

func TestSignin_UnknownUserAndWrongPassword_SameBody(t *testing.T) {
	h, _, _ := newTestHandler(t)

	doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	unknown := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "nobody",
		Password: "correct-horse",
	})
	wrongPw := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "alice",
		Password: "wrong",
	})

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses: %d, %d", unknown.Code, wrongPw.Code)
	}

	// byte-identical bodies: nothing distinguishes the two failures
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Fatalf("bodies differ:\n%s\n%s", unknown.Body.String(), wrongPw.Body.String())
	}
}

// ---- verify ----

func TestVerifyUser_OKAndNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)

	doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	ok := doJSON(t, h.VerifyUser, http.MethodPost, "/api/auth/verify-user", dto.VerifyUserRequest{
		Username: "Alice",
		Email:    "ALICE@example.com",
	})
	if ok.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", ok.Code, ok.Body.String())
	}

	var data dto.VerifyUserData
	mustReadJSON(t, ok.Body, &data)
	if data.Message != dto.MsgUserVerified {
		t.Fatalf("message: %q", data.Message)
	}
	if data.Username != "alice" || data.Email != "alice@example.com" {
		t.Fatalf("echoed pair: %+v", data)
	}

	// matching username but wrong email is a 404
	miss := doJSON(t, h.VerifyUser, http.MethodPost, "/api/auth/verify-user", dto.VerifyUserRequest{
		Username: "alice",
		Email:    "bob@example.com",
	})
	if miss.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", miss.Code)
	}
}

// ---- reset ----

func TestResetPassword_FullFlow(t *testing.T) {
	h, _, _ := newTestHandler(t)

	doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	rr := doJSON(t, h.ResetPassword, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		NewPassword: "brand-new-password",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var data dto.ResetPasswordData
	mustReadJSON(t, rr.Body, &data)
	if data.Message != dto.MsgPasswordUpdated {
		t.Fatalf("message: %q", data.Message)
	}

	// old password no longer works, new one does
	old := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "alice", Password: "correct-horse",
	})
	if old.Code != http.StatusUnauthorized {
		t.Fatalf("old password: got %d", old.Code)
	}

	fresh := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "alice", Password: "brand-new-password",
	})
	if fresh.Code != http.StatusOK {
		t.Fatalf("new password: got %d body=%s", fresh.Code, fresh.Body.String())
	}
}

func TestResetPassword_MismatchedPairIs404(t *testing.T) {
	h, _, _ := newTestHandler(t)

	doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())

	rr := doJSON(t, h.ResetPassword, http.MethodPost, "/api/auth/reset-password", dto.ResetPasswordRequest{
		Username:    "alice",
		Email:       "someone-else@example.com",
		NewPassword: "brand-new-password",
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d", rr.Code)
	}

	// password untouched
	still := doJSON(t, h.Signin, http.MethodPost, "/api/auth/signin", dto.SigninRequest{
		Username: "alice", Password: "correct-horse",
	})
	if still.Code != http.StatusOK {
		t.Fatalf("original password should still work: got %d", still.Code)
	}
}

// ---- me ----

func TestMe_ReturnsAccount(t *testing.T) {
	h, _, _ := newTestHandler(t)

	created := doJSON(t, h.Signup, http.MethodPost, "/api/auth/signup", signupReq())
	var sd dto.SignupData
	mustReadJSON(t, created.Body, &sd)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = withUserCtx(req, sd.UserID, "alice", "user")

	h.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rr.Code, rr.Body.String())
	}

	var data dto.MeData
	mustReadJSON(t, rr.Body, &data)
	if data.User.ID != sd.UserID || data.User.Username != "alice" {
		t.Fatalf("user: %+v", data.User)
	}
}

func TestMe_NoIdentityInContext(t *testing.T) {
	h, _, _ := newTestHandler(t)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d", rr.Code)
	}
}

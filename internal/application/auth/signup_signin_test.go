package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openadmit/auth-service/internal/domain"
)

func validSignup() SignupInput {
	return SignupInput{
		FullName: "Alice Lidell",
		Username: "Alice",
		Email:    "A@X.com",
		Phone:    "+1-555-0100",
		Password: "wonderland",
	}
}

func TestSignup_MissingFields(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSvcForTest(t)

	cases := []struct {
		name string
		mut  func(*SignupInput)
	}{
		{"username", func(in *SignupInput) { in.Username = "" }},
		{"email", func(in *SignupInput) { in.Email = "  " }},
		{"password", func(in *SignupInput) { in.Password = "" }},
	}
	for _, c := range cases {
		in := validSignup()
		c.mut(&in)
		_, err := svc.Signup(context.Background(), in)
		requireErrCode(t, err, "missing_field")
	}
}

func TestSignup_Success_PersistsNormalizedUser(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)

	id, err := svc.Signup(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if id == "" {
		t.Fatalf("expected account id")
	}

	u, ok := users.byID[id]
	if !ok {
		t.Fatalf("expected user stored by id")
	}
	if u.Username != "alice" || u.Email != "a@x.com" {
		t.Fatalf("expected normalized keys, got %q/%q", u.Username, u.Email)
	}
	if u.Role != string(domain.RoleUser) {
		t.Fatalf("expected role user, got %q", u.Role)
	}
	if u.PasswordHash == "" || strings.Contains(u.PasswordHash, "wonderland") == false {
		// the fake hasher embeds the password; real bcrypt does not
		t.Fatalf("expected hash produced by hasher, got %q", u.PasswordHash)
	}
	if u.FullName != "Alice Lidell" || u.Phone != "+1-555-0100" {
		t.Fatalf("unexpected profile fields: %+v", u)
	}
}

func TestSignup_DuplicateUsername_CaseInsensitive_Conflict(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSvcForTest(t)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	dup := validSignup()
	dup.Username = "ALICE"
	dup.Email = "other@y.com"
	_, err := svc.Signup(context.Background(), dup)
	requireErrCode(t, err, "account_conflict")
}

func TestSignup_DuplicateEmail_CaseInsensitive_Conflict(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSvcForTest(t)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("first signup: %v", err)
	}

	dup := validSignup()
	dup.Username = "bob"
	dup.Email = "a@x.COM"
	_, err := svc.Signup(context.Background(), dup)
	requireErrCode(t, err, "account_conflict")
}

func TestSignup_StoreConstraintConflict_Propagates(t *testing.T) {
	t.Parallel()

	// Pre-check misses (store lookup races), constraint fires on insert.
	svc, users, _, _ := newSvcForTest(t)
	users.createErr = domain.ErrAccountConflict()

	_, err := svc.Signup(context.Background(), validSignup())
	requireErrCode(t, err, "account_conflict")
}

func TestSignup_HashFail_ReturnsHashFailed(t *testing.T) {
	t.Parallel()

	svc, _, hasher, _ := newSvcForTest(t)
	hasher.hashFn = func(pw string) (string, error) { return "", errors.New("boom") }

	_, err := svc.Signup(context.Background(), validSignup())
	requireErrCode(t, err, "hash_failed")
}

func TestSignup_StoreLookupFailure_Propagates(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	users.getErr = domain.ErrStoreUnavailable(errors.New("down"))

	_, err := svc.Signup(context.Background(), validSignup())
	requireErrCode(t, err, "store_unavailable")
}

func TestSignin_EmptyFields_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSvcForTest(t)

	_, err := svc.Signin(context.Background(), "", "")
	requireErrCode(t, err, "invalid_credentials")
}

func TestSignin_UnknownUser_And_WrongPassword_SameError(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	users.add(domain.User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash1:pw", Role: "user"})

	_, errMissing := svc.Signin(context.Background(), "nobody", "pw")
	_, errWrongPw := svc.Signin(context.Background(), "alice", "wrong")

	requireErrCode(t, errMissing, "invalid_credentials")
	requireErrCode(t, errWrongPw, "invalid_credentials")
	if errMissing.Error() != errWrongPw.Error() {
		t.Fatalf("enumeration leak: %q vs %q", errMissing, errWrongPw)
	}
}

func TestSignin_StoreOutage_Propagates(t *testing.T) {
	t.Parallel()

	// Only not-found hides behind invalid_credentials; an outage must not.
	svc, users, _, _ := newSvcForTest(t)
	users.getErr = domain.ErrStoreUnavailable(errors.New("down"))

	_, err := svc.Signin(context.Background(), "alice", "pw")
	requireErrCode(t, err, "store_unavailable")
}

func TestSignin_Success_IssuesToken_MixedCaseUsername(t *testing.T) {
	t.Parallel()

	svc, users, _, _ := newSvcForTest(t)
	users.add(domain.User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash1:pw", Role: "user"})

	res, err := svc.Signin(context.Background(), "  Alice ", "pw")
	if err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if res.User.ID != "u1" {
		t.Fatalf("expected user u1, got %+v", res.User)
	}
	if res.Token != "jwt(u1,alice,user)" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if res.TokenType != "Bearer" || res.ExpiresIn != int64(15*60) {
		t.Fatalf("unexpected token meta: %+v", res)
	}
}

func TestSignin_SignFail_ReturnsTokenSignFailed(t *testing.T) {
	t.Parallel()

	svc, users, _, signer := newSvcForTest(t)
	users.add(domain.User{ID: "u1", Username: "alice", Email: "a@x.com", PasswordHash: "hash1:pw", Role: "user"})
	signer.signFn = func(_, _, _ string, _ time.Duration) (string, error) { return "", errors.New("hsm down") }

	_, err := svc.Signin(context.Background(), "alice", "pw")
	requireErrCode(t, err, "token_sign_failed")
}

func TestSignupThenSignin_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, _, _ := newSvcForTest(t)

	if _, err := svc.Signup(context.Background(), validSignup()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	res, err := svc.Signin(context.Background(), "alice", "wonderland")
	if err != nil {
		t.Fatalf("signin after signup: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token")
	}
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/dishboard/console/domain"
	"github.com/dishboard/console/internal/session"
	"github.com/dishboard/console/internal/upstream"
	authUC "github.com/dishboard/console/usecase/auth"
)

type loginStub struct {
	result upstream.LoginResult
	err    error
}

func (s loginStub) Login(context.Context, upstream.Credentials) (upstream.LoginResult, error) {
	return s.result, s.err
}

func (s loginStub) Logout(context.Context) error { return nil }

func newAuthHandler(api authUC.AuthAPI) (*AuthHandler, *session.Container) {
	sessions := session.NewContainer(context.Background(), nil, nil)
	uc := authUC.New(api, sessions, nil, nil, nil, nil)
	return NewAuthHandler(uc, sessions, nil, nil), sessions
}

func postJSON(handler fasthttp.RequestHandler, uri, body string) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetRequestURI(uri)
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetBodyString(body)
	handler(ctx)
	return ctx
}

func decodeEnvelope(t *testing.T, ctx *fasthttp.RequestCtx) map[string]json.RawMessage {
	t.Helper()
	envelope := map[string]json.RawMessage{}
	if err := json.Unmarshal(ctx.Response.Body(), &envelope); err != nil {
		t.Fatalf("decoding response %q: %v", ctx.Response.Body(), err)
	}
	return envelope
}

func TestAuthHandler_LoginSuccess(t *testing.T) {
	h, sessions := newAuthHandler(loginStub{result: upstream.LoginResult{
		User:  domain.User{ID: "1", Name: "Amy", Email: "a@b.com", Role: domain.RoleAdmin},
		Token: "tok123",
	}})

	ctx := postJSON(h.Login, "/api/v1/auth/login", `{"email":"a@b.com","password":"x"}`)

	if got := ctx.Response.StatusCode(); got != http.StatusOK {
		t.Fatalf("status = %d, body %s", got, ctx.Response.Body())
	}
	envelope := decodeEnvelope(t, ctx)

	var data struct {
		User     *domain.User `json:"user"`
		Redirect string       `json:"redirect"`
	}
	if err := json.Unmarshal(envelope["data"], &data); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if data.User == nil || data.User.Name != "Amy" {
		t.Fatalf("user = %+v", data.User)
	}
	if data.Redirect != "/dashboard" {
		t.Fatalf("redirect = %q, want /dashboard", data.Redirect)
	}
	if !sessions.IsAuthenticated() {
		t.Fatal("login must authenticate the container")
	}
}

func TestAuthHandler_LoginRejectsEmptyPayload(t *testing.T) {
	h, sessions := newAuthHandler(loginStub{})

	for _, body := range []string{``, `{}`, `{"email":"a@b.com"}`, `not json`} {
		ctx := postJSON(h.Login, "/api/v1/auth/login", body)
		if got := ctx.Response.StatusCode(); got != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want %d", body, got, http.StatusBadRequest)
		}
	}
	if sessions.IsAuthenticated() {
		t.Fatal("rejected payloads must not authenticate")
	}
}

func TestAuthHandler_LoginPassesUpstreamRejectionThrough(t *testing.T) {
	h, _ := newAuthHandler(loginStub{err: &upstream.APIError{
		Status:  http.StatusUnauthorized,
		Message: "Invalid email or password",
	}})

	ctx := postJSON(h.Login, "/api/v1/auth/login", `{"email":"a@b.com","password":"wrong"}`)

	if got := ctx.Response.StatusCode(); got != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", got, http.StatusUnauthorized)
	}
	envelope := decodeEnvelope(t, ctx)
	if code := string(envelope["code"]); code != `"UNAUTHORIZED"` {
		t.Fatalf("code = %s, want UNAUTHORIZED", code)
	}
}

func TestAuthHandler_LogoutAlwaysSucceeds(t *testing.T) {
	h, sessions := newAuthHandler(loginStub{result: upstream.LoginResult{
		User:  domain.User{ID: "1", Name: "Amy"},
		Token: "tok123",
	}})
	postJSON(h.Login, "/api/v1/auth/login", `{"email":"a@b.com","password":"x"}`)

	ctx := postJSON(h.Logout, "/api/v1/auth/logout", ``)

	if got := ctx.Response.StatusCode(); got != http.StatusOK {
		t.Fatalf("status = %d, body %s", got, ctx.Response.Body())
	}
	if sessions.IsAuthenticated() {
		t.Fatal("logout must clear the container")
	}
}

func TestMapError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"upstream rejection keeps status", &upstream.APIError{Status: http.StatusNotFound, Message: "Order not found"}, http.StatusNotFound, "NOT_FOUND"},
		{"domain invalid", domain.ErrInvalidPayload, http.StatusBadRequest, "INVALID"},
		{"domain unavailable", domain.ErrUpstreamUnavailable, http.StatusBadGateway, "UNAVAILABLE"},
		{"unknown error", context.DeadlineExceeded, http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, code := mapError(tc.err)
			if status != tc.wantStatus || code != tc.wantCode {
				t.Fatalf("mapError() = (%d, %s), want (%d, %s)", status, code, tc.wantStatus, tc.wantCode)
			}
		})
	}
}

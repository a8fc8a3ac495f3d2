package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dishboard/console/api/transport"
	"github.com/dishboard/console/internal/session"
	"github.com/dishboard/console/internal/upstream"
	"github.com/dishboard/console/pkg/httpcontext"
	authUC "github.com/dishboard/console/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc       *authUC.UseCase
	sessions *session.Container
}

func NewAuthHandler(uc *authUC.UseCase, sessions *session.Container, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		sessions:    sessions,
	}
}

// Login signs the operator in and tells the UI where to land next.
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" || req.Password == "" {
		h.respondInvalid(ctx, "email and password are required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Login(stdCtx, upstream.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.respondSuccess(ctx, http.StatusOK, transport.SessionResponse{
		User:     user,
		Redirect: "/dashboard",
	})
}

// Logout clears the session. Always succeeds from the UI's point of view,
// even when the upstream revocation fails.
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	h.uc.Logout(stdCtx)

	h.respondSuccess(ctx, http.StatusOK, transport.SessionResponse{
		Redirect: "/login",
	})
}

// Session re-validates the persisted session and reports the current state,
// called by the UI on startup.
func (h *AuthHandler) Session(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	authenticated := h.uc.CheckAuth(stdCtx)
	state := h.sessions.Snapshot()

	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"authenticated": authenticated,
		"user":          state.User,
		"loading":       state.IsLoading,
	})
}

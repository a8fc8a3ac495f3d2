package middleware

import (
	"net/url"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/dishboard/console/internal/session"
)

// LoginPath is where unauthenticated requests get redirected.
const LoginPath = "/login"

// Guard gates protected console views on the session container's
// authenticated flag. Unauthenticated requests are redirected to the login
// view with the originally requested location preserved in the "from"
// parameter; replaying it after login is the UI's concern.
func Guard(sessions *session.Container, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if sessions.IsAuthenticated() {
				next(ctx)
				return
			}

			from := string(ctx.RequestURI())
			logger.Debug("unauthenticated access", zap.String("from", from))
			ctx.Redirect(LoginPath+"?from="+url.QueryEscape(from), fasthttp.StatusFound)
		}
	}
}

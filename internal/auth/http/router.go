package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/NallyTHEdude/TMS-Server/internal/auth/domain"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/service"
	"github.com/NallyTHEdude/TMS-Server/internal/auth/store"
	"github.com/NallyTHEdude/TMS-Server/pkg/httpx"
	"github.com/NallyTHEdude/TMS-Server/pkg/jwtx"
	"github.com/NallyTHEdude/TMS-Server/pkg/slogx"

	_ "github.com/NallyTHEdude/TMS-Server/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	cookies      CookieOptions

	store          store.Store
	AccountService *service.AccountService
	SessionService *service.SessionService

	// MailQueue is probed by /readyz when set.
	MailQueue Pinger
}

// NewRouter wires the shared dependencies. verifier checks access tokens.
func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	cookies CookieOptions,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		cookies:      cookies,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TMS Authentication API
//	@version		1.0.0
//	@description	Account registration, email verification, password login and session management for the TMS property management backend.
//	@description
//	@description				Responses use the envelope {statusCode, data, message, success}.
//	@description				Access and refresh tokens are HS256 JWTs delivered as HttpOnly cookies and in the login body.
//
//	@contact.name				TMS Server
//	@contact.url				https://github.com/NallyTHEdude/TMS-Server
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}". The accessToken cookie is accepted as well.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) secured(h http.Handler, mws ...httpx.Middleware) http.Handler {
	return httpx.Chain(h, append([]httpx.Middleware{httpx.AuthnMiddleware(r.verifier)}, mws...)...)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /api/v1/auth/register", &RegisterHandler{AccountService: r.AccountService})
	r.Mux.Handle("POST /api/v1/auth/login", &LoginHandler{SessionService: r.SessionService, Cookies: r.cookies})
	r.Mux.Handle("POST /api/v1/auth/refresh-token", &RefreshHandler{SessionService: r.SessionService, Cookies: r.cookies})
	r.Mux.Handle("GET /api/v1/auth/verify-email/{verificationToken}", &VerifyEmailHandler{AccountService: r.AccountService})
	r.Mux.Handle("POST /api/v1/auth/forgot-password", &ForgotPasswordHandler{AccountService: r.AccountService})
	r.Mux.Handle("POST /api/v1/auth/reset-password/{resetToken}", &ResetPasswordHandler{AccountService: r.AccountService})

	// session required
	r.Mux.Handle("POST /api/v1/auth/logout",
		r.secured(&LogoutHandler{SessionService: r.SessionService, Cookies: r.cookies}))
	r.Mux.Handle("POST /api/v1/auth/resend-email-verification",
		r.secured(&ResendVerificationHandler{AccountService: r.AccountService}))
	r.Mux.Handle("POST /api/v1/auth/change-password",
		r.secured(&ChangePasswordHandler{AccountService: r.AccountService}))
}

func (r *Router) registerUsers() {
	r.Mux.Handle("GET /api/v1/users/profile",
		r.secured(&ProfileHandler{AccountService: r.AccountService}))

	r.Mux.Handle("GET /api/v1/admin/users/{id}",
		r.secured(&AdminUserHandler{AccountService: r.AccountService},
			httpx.RequireRole(domain.RoleAdmin.String()),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.MailQueue))
}

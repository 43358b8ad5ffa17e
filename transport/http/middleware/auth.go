package middleware

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel/config"
	"hotel/infras/jwt"
	"hotel/infras/otel"
	"hotel/permissions"
	"hotel/shared/constant"
	"hotel/shared/failure"
	"hotel/shared/session"
	"hotel/transport/http/response"
)

const internalCaller = "internal"

// Auth defines the interface for authentication middleware
type Auth interface {
	Auth(http.Handler) http.Handler
	Session(http.Handler) http.Handler
	APIKey(http.Handler) http.Handler
}

// Role defines the interface for role-based access control middleware
type Role interface {
	AdminGate(http.Handler) http.Handler
	RBAC(http.Handler) http.Handler
}

// AuthRole combines all middleware interfaces
type AuthRole interface {
	Auth
	Role
}

type authRoleImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	permission *permissions.PermissionData
	cfg        *config.Config
}

func NewAuthRoleMiddleware(jwtService jwt.JWT, otel otel.Otel, permissions *permissions.PermissionData, cfg *config.Config) AuthRole {
	return &authRoleImpl{
		jwtService: jwtService,
		otel:       otel,
		permission: permissions,
		cfg:        cfg,
	}
}

// Auth validates the bearer token and places the caller's session on the
// request context. A session already present (see APIKey) is kept.
func (m *authRoleImpl) Auth(next http.Handler) http.Handler {
	return m.authenticate(next, true)
}

// Session is Auth without the rejection: requests lacking a valid token
// continue without a session and are judged by AdminGate.
func (m *authRoleImpl) Session(next http.Handler) http.Handler {
	return m.authenticate(next, false)
}

func (m *authRoleImpl) authenticate(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "auth.middleware")

		if _, ok := session.FromContext(ctx); ok {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		path := routePattern(request)

		if m.permission != nil && m.permission.FindPermissions(path, request.Method).Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttributes(map[string]any{
			"middleware.type": "auth",
			"http.path":       path,
			"http.method":     request.Method,
		})

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == constant.Empty {
			m.reject(writer, request, next, scope, required, failure.Unauthorized("Missing authorization header"))

			return
		}

		tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
		if err != nil {
			m.reject(writer, request, next, scope, required, failure.Unauthorized("Invalid authorization header format"))

			return
		}

		claims, err := m.jwtService.ValidateToken(ctx, tokenString, jwt.AccessToken)
		if err != nil {
			var message string

			switch {
			case errors.Is(err, jwt.ErrExpiredToken):
				message = "Token has expired"
			case errors.Is(err, jwt.ErrInvalidToken):
				message = "Invalid token"
			case errors.Is(err, jwt.ErrInvalidClaim):
				message = "Invalid token claims"
			default:
				message = "Token validation failed"
			}

			m.reject(writer, request, next, scope, required, failure.Unauthorized(message))

			return
		}

		if claims.UserID == constant.Empty || claims.Email == constant.Empty {
			log.Error().Str("user_id", claims.UserID).Msg("JWT claims: identity is empty")
			m.reject(writer, request, next, scope, required, failure.Unauthorized("Invalid token claims"))

			return
		}

		scope.End()

		next.ServeHTTP(writer, request.WithContext(session.WithSession(request.Context(), claims.Session())))
	})
}

// AdminGate resolves a fresh gate per request. Signed-out callers get 401,
// signed-in non-admins get 403; both carry a login redirect.
func (m *authRoleImpl) AdminGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "admin_gate.middleware")

		var caller *session.Session
		if sess, ok := session.FromContext(request.Context()); ok {
			caller = &sess
		}

		gate := session.NewGate(true)

		if gate.Resolve(caller) == session.StateDenied {
			code := http.StatusForbidden
			if caller == nil {
				code = http.StatusUnauthorized
			}

			scope.SetAttributes(map[string]any{
				"gate.state":  gate.State().String(),
				"gate.reason": gate.Reason(),
			})
			scope.End()

			response.WithDenied(writer, code, gate.Reason(), gate.LoginRedirect())

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// RBAC narrows routes listed in the permissions file to their roles.
// Requires prior authentication via Auth middleware
func (m *authRoleImpl) RBAC(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "rbac.middleware")

		if m.permission == nil {
			scope.End()
			response.WithError(writer, failure.ForbiddenError)

			return
		}

		if m.permission.Skip {
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		permission := m.permission.FindPermissions(routePattern(request), request.Method)
		sess, _ := session.FromContext(request.Context())

		if !permission.Allows(sess.Role) {
			err := failure.ForbiddenError
			scope.TraceError(err)
			scope.SetAttributes(map[string]any{
				"user_role":     sess.Role,
				"allowed_roles": permission.Permissions,
				"reason":        "role_not_allowed",
			})
			scope.End()
			response.WithError(writer, err)

			return
		}

		scope.End()
		next.ServeHTTP(writer, request)
	})
}

// APIKey lets internal services call admin routes. A valid key acts as an
// internal superadmin session; requests without a key fall through to Auth.
func (m *authRoleImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if apiKey == constant.Empty || m.cfg.App.APIKey == constant.Empty {
			scope.SetAttribute("http.source", "client")
			scope.End()
			next.ServeHTTP(writer, request)

			return
		}

		scope.SetAttribute("http.source", internalCaller)

		if apiKey != m.cfg.App.APIKey {
			m.deny(writer, scope, failure.ForbiddenError)

			return
		}

		ctx := session.WithSession(request.Context(), session.Session{UserID: internalCaller, Role: constant.RoleSuperAdmin})

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (m *authRoleImpl) reject(writer http.ResponseWriter, request *http.Request, next http.Handler, scope otel.Scope, required bool, err error) {
	if !required {
		scope.End()
		next.ServeHTTP(writer, request)

		return
	}

	m.deny(writer, scope, err)
}

func (m *authRoleImpl) deny(writer http.ResponseWriter, scope otel.Scope, err error) {
	scope.TraceError(err)
	scope.End()

	response.WithError(writer, err)
}

func routePattern(request *http.Request) string {
	rctx := chi.RouteContext(request.Context())
	if rctx == nil {
		return request.URL.Path
	}

	return rctx.Routes.Find(chi.NewRouteContext(), request.Method, request.URL.Path)
}

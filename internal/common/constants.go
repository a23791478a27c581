package common

// TokenCookieName is the cookie that carries the session JWT.
const TokenCookieName = "token"

// AuthorizationHeaderName carries a bearer token when no cookie is present.
// The cookie takes precedence if both are set.
const AuthorizationHeaderName = "Authorization"

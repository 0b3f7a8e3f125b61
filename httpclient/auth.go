package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone sends no credentials.
	AuthNone AuthType = iota
	// AuthBasic uses HTTP Basic authentication.
	AuthBasic
	// AuthBearer uses a Bearer token.
	AuthBearer
	// AuthCustom calls a user function to modify the request.
	AuthCustom
)

// String returns the auth type name.
func (t AuthType) String() string {
	switch t {
	case AuthBasic:
		return "basic"
	case AuthBearer:
		return "bearer"
	case AuthCustom:
		return "custom"
	default:
		return "none"
	}
}

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type AuthType
	// Username and Password are used by AuthBasic.
	Username string
	Password string
	// Token is used by AuthBearer.
	Token string
	// Apply is used by AuthCustom.
	Apply func(*http.Request)
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// CustomAuth creates an auth config that delegates to fn.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// apply sets credentials on req. A nil config is a no-op.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}

package httpclient

import (
	"net/http"
	"testing"
)

func TestBasicAuth(t *testing.T) {
	auth := BasicAuth("api-key", "x")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	u, p, ok := req.BasicAuth()
	if !ok || u != "api-key" || p != "x" {
		t.Errorf("basic auth not set correctly: user=%q pass=%q ok=%v", u, p, ok)
	}
}

func TestBearerAuth(t *testing.T) {
	auth := BearerAuth("oauth-token")
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer oauth-token" {
		t.Errorf("got %q, want %q", got, "Bearer oauth-token")
	}
}

func TestCustomAuth(t *testing.T) {
	auth := CustomAuth(func(req *http.Request) {
		req.Header.Set("X-Custom", "value")
	})
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("X-Custom"); got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}

func TestNilAuth(t *testing.T) {
	var auth *AuthConfig
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	auth.apply(req)
	if got := req.Header.Get("Authorization"); got != "" {
		t.Errorf("expected no Authorization header, got %q", got)
	}
}

func TestAuthType_String(t *testing.T) {
	tests := map[AuthType]string{
		AuthNone:   "none",
		AuthBasic:  "basic",
		AuthBearer: "bearer",
		AuthCustom: "custom",
	}
	for typ, want := range tests {
		if got := typ.String(); got != want {
			t.Errorf("AuthType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// apiError is the createsend error body.
type apiError struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

func respondError(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, apiError{Code: code, Message: message})
}

// requestID echoes the caller's X-Request-ID, generating one if absent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// recovery turns handler panics into the API's 500 error body.
func recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				respondError(c, http.StatusInternalServerError, 500, fmt.Sprintf("fake api panic: %v", err))
			}
		}()
		c.Next()
	}
}

// record stores a copy of the request, restoring the body for handlers.
func (f *FakeAPI) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Method: c.Request.Method,
			Path:   relativePath(c.Request.URL.Path),
			Query:  c.Request.URL.Query(),
			Header: c.Request.Header.Clone(),
			Body:   body,
		})
		f.mu.Unlock()
		c.Next()
	}
}

// stubbed serves a canned response when one is registered for the route.
func (f *FakeAPI) stubbed() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := stubKey(c.Request.Method, relativePath(c.Request.URL.Path))

		f.mu.Lock()
		resp, ok := f.stubs[key]
		var canned CannedResponse
		if ok {
			canned = *resp
			if resp.Times > 0 {
				resp.Times--
				if resp.Times == 0 {
					delete(f.stubs, key)
				}
			}
		}
		f.mu.Unlock()

		if !ok {
			c.Next()
			return
		}
		for k, v := range canned.Header {
			c.Header(k, v)
		}
		c.Data(canned.Status, "application/json; charset=utf-8", []byte(canned.Body))
		c.Abort()
	}
}

// authenticate accepts the API key as the Basic username or the OAuth
// token as a Bearer credential.
func (f *FakeAPI) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		f.mu.Lock()
		apiKey, token := f.apiKey, f.oauthToken
		f.mu.Unlock()

		if user, _, ok := c.Request.BasicAuth(); ok && user == apiKey {
			c.Next()
			return
		}
		if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && token != "" && bearer == token {
			c.Next()
			return
		}
		respondError(c, http.StatusUnauthorized, 50, "Must supply a valid HTTP Basic Authorization header")
	}
}

func relativePath(p string) string {
	return strings.TrimPrefix(p, APIBasePath)
}

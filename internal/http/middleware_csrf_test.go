package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler() http.Handler {
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(GetCSRFToken(r)))
	}))
}

func csrfCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == DefaultCSRFCookieName {
			return c
		}
	}
	t.Fatal("csrf cookie not set")
	return nil
}

func TestCSRFProtection_SafeMethodsMintCookie(t *testing.T) {
	h := csrfHandler()
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/signin", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			c := csrfCookie(t, rec)
			assert.NotEmpty(t, c.Value)
			assert.False(t, c.HttpOnly)
			assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		})
	}
}

func TestCSRFProtection_TokenExposedInContext(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/signin", nil))
	assert.Equal(t, csrfCookie(t, rec).Value, rec.Body.String())
}

func TestCSRFProtection_UnsafeMethods(t *testing.T) {
	const token = "known-token"
	h := csrfHandler()

	tests := []struct {
		name     string
		build    func() *http.Request
		wantCode int
	}{
		{
			name: "no token",
			build: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/logout", nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "freshly minted cookie is not enough",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/logout", nil)
				r.Header.Set(DefaultCSRFHeaderName, "guess")
				return r
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "header matches cookie",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{}`))
				r.Header.Set("Content-Type", contentJSON)
				r.Header.Set(DefaultCSRFHeaderName, token)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusOK,
		},
		{
			name: "form field matches cookie",
			build: func() *http.Request {
				form := url.Values{"csrf_token": {token}, "email": {"ada@example.com"}}
				r := httptest.NewRequest(http.MethodPost, "/signin", strings.NewReader(form.Encode()))
				r.Header.Set("Content-Type", contentForm)
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusOK,
		},
		{
			name: "mismatched header",
			build: func() *http.Request {
				r := httptest.NewRequest(http.MethodPost, "/candidate/actions/a1/toggle", nil)
				r.Header.Set(DefaultCSRFHeaderName, "other")
				r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: token})
				return r
			},
			wantCode: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, tt.build())
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCSRFProtection_SecureBehindTLSProxy(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "http://guided.example.com/signin", nil)
	r.Header.Set("X-Forwarded-Proto", "http, https")
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, r)
	require.True(t, csrfCookie(t, rec).Secure)
}

func TestCSRFProtection_ExistingCookieKept(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/signin", nil)
	r.AddCookie(&http.Cookie{Name: DefaultCSRFCookieName, Value: "already"})
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, r)
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, "already", rec.Body.String())
}

func TestGetCSRFToken_NoMiddleware(t *testing.T) {
	assert.Empty(t, GetCSRFToken(httptest.NewRequest(http.MethodGet, "/", nil)))
}

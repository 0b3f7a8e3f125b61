package createsend

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/createsend/apierror"
	"github.com/kbukum/createsend/httpclient"
)

func TestStripQuotes(t *testing.T) {
	tests := map[string]string{
		`"abc"`:   "abc",
		`"abc`:    "abc",
		`abc"`:    "abc",
		`""`:      "",
		`"`:       "",
		`abc`:     "abc",
		`""abc""`: `"abc"`,
	}
	for in, want := range tests {
		assert.Equal(t, want, stripQuotes(in), "stripQuotes(%s)", in)
	}
}

func TestResourcePath(t *testing.T) {
	assert.Equal(t, "lists/abc.json", resourcePath([]string{"lists", "abc.json"}))
	assert.Equal(t, "segments/a%2Fb/rules.json", resourcePath([]string{"segments", "a/b", "rules.json"}))
	assert.Equal(t, "subscribers/id%20with%20space.json", resourcePath([]string{"subscribers", "id with space.json"}))
	assert.Equal(t, "", resourcePath(nil))
}

func TestAddPagingParams(t *testing.T) {
	q := url.Values{}
	AddPagingParams(q, PageOptions{})
	assert.Empty(t, q)

	AddPagingParams(q, PageOptions{Page: 3, PageSize: 50, OrderField: "email", OrderDirection: OrderDesc})
	assert.Equal(t, "3", q.Get(ParamPage))
	assert.Equal(t, "50", q.Get(ParamPageSize))
	assert.Equal(t, "email", q.Get(ParamOrderField))
	assert.Equal(t, "desc", q.Get(ParamOrderDirection))

	AddPagingParams(q, PageOptions{Page: 4})
	assert.Equal(t, []string{"3", "4"}, q[ParamPage])
}

func TestDecode(t *testing.T) {
	s, err := decode[string]([]byte(`"list-1"`))
	require.NoError(t, err)
	assert.Equal(t, "list-1", s)

	n, err := decode[int](nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	details, err := decode[ListDetails]([]byte(`{"ListID":"l1","Title":"News","ConfirmedOptIn":true}`))
	require.NoError(t, err)
	assert.Equal(t, ListDetails{ListID: "l1", Title: "News", ConfirmedOptIn: true}, details)

	_, err = decode[[]string]([]byte(`{`))
	assert.Error(t, err)
}

func TestJSONBody(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "hello", json.RawMessage(`"hello"`)},
		{"bytes", []byte("hi"), json.RawMessage(`"aGk="`)},
		{"struct", ListCreate{Title: "x"}, ListCreate{Title: "x"}},
		{"reader", strings.NewReader(`{"Title":"x"}`), json.RawMessage(`{"Title":"x"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsonBody(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := jsonBody(strings.NewReader("not json"))
	assert.Error(t, err)
	_, err = jsonBody(iotest.ErrReader(assert.AnError))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClient_CloseUnused(t *testing.T) {
	c, err := New(Config{APIKey: "key"})
	require.NoError(t, err)

	c.Close()
	c.Close()
	assert.Nil(t, c.adapter)

	_, err = c.General.Clients(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestDefaultLogger_RequestLoggingIsDebug(t *testing.T) {
	assert.True(t, defaultLogger(true).Enabled(zerolog.DebugLevel))
}

func TestDateTime(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2010-10-15 09:27:00"`), &d))
	assert.True(t, d.Equal(time.Date(2010, 10, 15, 9, 27, 0, 0, time.UTC)))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2010-10-15 09:27:00"`, string(out))

	var empty DateTime
	require.NoError(t, json.Unmarshal([]byte(`""`), &empty))
	assert.True(t, empty.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Equal(t, `""`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`"15/10/2010"`), &d))
}

func TestTranslateError(t *testing.T) {
	herr := httpclient.ClassifyStatusCode(404, []byte(`{"Code":101,"Message":"Invalid ListID"}`))
	err := translateError("GET", "lists/x.json", herr)
	e, ok := apierror.As(err)
	require.True(t, ok)
	assert.Equal(t, apierror.KindNotFound, e.Kind)
	assert.Equal(t, 101, e.Code)
	assert.ErrorIs(t, err, herr)

	conn := httpclient.NewConnectionError(assert.AnError)
	err = translateError("POST", "lists/c.json", conn)
	_, ok = apierror.As(err)
	assert.False(t, ok)
	assert.EqualError(t, err, "createsend: POST lists/c.json: "+conn.Error())
}

func TestRetryConfig(t *testing.T) {
	assert.Nil(t, RetryConfig{}.retryConfig())

	cfg := RetryConfig{Enabled: true, MaxAttempts: 5, InitialBackoff: time.Second}.retryConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 5*time.Second, cfg.MaxBackoff)
	require.NotNil(t, cfg.RetryIf)
	assert.False(t, cfg.RetryIf(httpclient.ClassifyStatusCode(500, nil)))
	assert.True(t, cfg.RetryIf(httpclient.ClassifyStatusCode(503, nil)))
}

func TestClientAuth(t *testing.T) {
	c, err := New(Config{APIKey: "key"})
	require.NoError(t, err)
	auth := c.auth()
	assert.Equal(t, httpclient.AuthBasic, auth.Type)
	assert.Equal(t, "key", auth.Username)
	assert.Equal(t, "x", auth.Password)

	c, err = New(Config{APIKey: "key", OAuthToken: "tok"})
	require.NoError(t, err)
	auth = c.auth()
	assert.Equal(t, httpclient.AuthBearer, auth.Type)
	assert.Equal(t, "tok", auth.Token)
}

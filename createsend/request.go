package createsend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbukum/createsend/apierror"
	"github.com/kbukum/createsend/httpclient"
)

// Get performs a GET on the resource named by path and decodes the JSON
// response into T.
func Get[T any](ctx context.Context, c *Client, path ...string) (T, error) {
	return GetWithQuery[T](ctx, c, nil, path...)
}

// GetWithQuery is Get with query string parameters. A nil query sends none.
func GetWithQuery[T any](ctx context.Context, c *Client, query url.Values, path ...string) (T, error) {
	var zero T
	resp, err := c.send(ctx, http.MethodGet, nil, query, path)
	if err != nil {
		return zero, err
	}
	return decode[T](resp.Body)
}

// GetPaged performs a GET with the paging parameters merged into query and
// decodes the response into a PagedResult of T. The caller's query is not
// modified.
func GetPaged[T any](ctx context.Context, c *Client, paging PageOptions, query url.Values, path ...string) (*PagedResult[T], error) {
	q := make(url.Values, len(query)+4)
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	AddPagingParams(q, paging)

	resp, err := c.send(ctx, http.MethodGet, nil, q, path)
	if err != nil {
		return nil, err
	}
	result, err := decode[PagedResult[T]](resp.Body)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Post sends body as JSON and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, body any, path ...string) (T, error) {
	var zero T
	resp, err := c.send(ctx, http.MethodPost, body, nil, path)
	if err != nil {
		return zero, err
	}
	return decode[T](resp.Body)
}

// Put sends body as JSON. The response body is ignored. An io.Reader body
// is read in full before sending and must already hold JSON.
func Put(ctx context.Context, c *Client, body any, path ...string) error {
	_, err := c.send(ctx, http.MethodPut, body, nil, path)
	return err
}

// PutWithQuery is Put with query string parameters.
func PutWithQuery(ctx context.Context, c *Client, body any, query url.Values, path ...string) error {
	_, err := c.send(ctx, http.MethodPut, body, query, path)
	return err
}

// Delete deletes the resource named by path.
func Delete(ctx context.Context, c *Client, path ...string) error {
	return DeleteWithQuery(ctx, c, nil, path...)
}

// DeleteWithQuery is Delete with query string parameters.
func DeleteWithQuery(ctx context.Context, c *Client, query url.Values, path ...string) error {
	_, err := c.send(ctx, http.MethodDelete, nil, query, path)
	return err
}

// send performs the request and converts failures into *apierror.Error for
// HTTP statuses, or a wrapped transport error otherwise.
func (c *Client) send(ctx context.Context, method string, body any, query url.Values, path []string) (*httpclient.Response, error) {
	payload, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	hc, err := c.httpClient()
	if errors.Is(err, ErrClosed) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("createsend: build http client: %w", err)
	}

	resource := resourcePath(path)
	resp, err := hc.Do(ctx, httpclient.Request{
		Method: method,
		Path:   resource,
		Query:  query,
		Body:   payload,
	})
	if err != nil {
		return nil, translateError(method, resource, err)
	}
	return resp, nil
}

func translateError(method, resource string, err error) error {
	var herr *httpclient.Error
	if errors.As(err, &herr) && herr.StatusCode > 0 {
		return apierror.FromResponse(herr.StatusCode, herr.Body).WithCause(err)
	}
	return fmt.Errorf("createsend: %s %s: %w", method, resource, err)
}

// resourcePath escapes each element as a single path segment and joins them.
func resourcePath(elements []string) string {
	escaped := make([]string, len(elements))
	for i, e := range elements {
		escaped[i] = url.PathEscape(e)
	}
	return strings.Join(escaped, "/")
}

// jsonBody makes sure the adapter JSON-encodes body. Strings and byte
// slices would otherwise be sent raw. A reader is read up front and must
// hold JSON; the buffered copy is what lets retries resend it.
func jsonBody(body any) (any, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case string, []byte:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return json.RawMessage(data), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("createsend: read request body: %w", err)
		}
		if !json.Valid(data) {
			return nil, errors.New("createsend: request body is not valid JSON")
		}
		return json.RawMessage(data), nil
	}
	return body, nil
}

// decode unmarshals a JSON body into T. A string T receives the raw body
// with one enclosing quote stripped from each end; an empty body yields the
// zero value.
func decode[T any](body []byte) (T, error) {
	var out T
	if len(body) == 0 {
		return out, nil
	}
	if s, ok := any(&out).(*string); ok {
		*s = stripQuotes(string(body))
		return out, nil
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return out, fmt.Errorf("createsend: decode %T: %w", out, err)
	}
	return out, nil
}

// stripQuotes removes one leading and one trailing double quote, each
// independently of the other.
func stripQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}

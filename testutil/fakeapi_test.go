package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/kbukum/createsend/observability"
)

const testAPIKey = "test-api-key"

func startFake(t *testing.T) *FakeAPI {
	t.Helper()
	f := NewFakeAPI(testAPIKey)
	T(t).Setup(f)
	return f
}

func call(t *testing.T, f *FakeAPI, method, path, body string, auth func(*http.Request)) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, f.URL()+path, r)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if auth == nil {
		req.SetBasicAuth(testAPIKey, "x")
	} else {
		auth(req)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func decodeError(t *testing.T, data []byte) apiError {
	t.Helper()
	var e apiError
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode error body %q: %v", data, err)
	}
	return e
}

func TestFakeAPI_Lifecycle(t *testing.T) {
	ctx := context.Background()
	f := NewFakeAPI(testAPIKey)

	if h := f.Health(ctx); h.Status != observability.HealthStatusDown {
		t.Errorf("health before start = %s", h.Status)
	}
	if f.URL() != "" {
		t.Errorf("URL before start = %q", f.URL())
	}

	cleanup, err := Setup(f)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Start(ctx); err == nil {
		t.Error("expected error on second start")
	}
	h := f.Health(ctx)
	if h.Status != observability.HealthStatusUp {
		t.Errorf("health after start = %s", h.Status)
	}
	if !strings.HasSuffix(h.Details["url"], APIBasePath) {
		t.Errorf("health url = %q", h.Details["url"])
	}

	if err := cleanup(); err != nil {
		t.Fatal(err)
	}
	if h := f.Health(ctx); h.Status != observability.HealthStatusDown {
		t.Errorf("health after stop = %s", h.Status)
	}
}

func TestFakeAPI_Authentication(t *testing.T) {
	f := startFake(t)
	f.WithOAuthToken("oauth-token")

	tests := []struct {
		name string
		auth func(*http.Request)
		want int
	}{
		{"api key", func(r *http.Request) { r.SetBasicAuth(testAPIKey, "x") }, http.StatusOK},
		{"wrong key", func(r *http.Request) { r.SetBasicAuth("other", "x") }, http.StatusUnauthorized},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer oauth-token") }, http.StatusOK},
		{"wrong bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := call(t, f, http.MethodGet, "/systemdate.json", "", tt.auth)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
			if tt.want == http.StatusUnauthorized {
				if e := decodeError(t, data); e.Code != 50 {
					t.Errorf("code = %d, want 50", e.Code)
				}
			}
		})
	}
}

func TestFakeAPI_SystemDate(t *testing.T) {
	f := startFake(t)
	f.SetSystemDate("2030-01-02 03:04:05")

	resp, data := call(t, f, http.MethodGet, "/systemdate.json", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := string(data); got != `{"SystemDate":"2030-01-02 03:04:05"}` {
		t.Errorf("body = %s", got)
	}
}

func TestFakeAPI_RequestIDEcho(t *testing.T) {
	f := startFake(t)

	resp, _ := call(t, f, http.MethodGet, "/clients.json", "", func(r *http.Request) {
		r.SetBasicAuth(testAPIKey, "x")
		r.Header.Set("X-Request-ID", "req-123")
	})
	if got := resp.Header.Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q", got)
	}

	resp, _ = call(t, f, http.MethodGet, "/clients.json", "", nil)
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected generated X-Request-ID")
	}
}

func TestFakeAPI_ListLifecycle(t *testing.T) {
	f := startFake(t)
	clientID := f.AddClient("Acme")

	resp, data := call(t, f, http.MethodPost, "/lists/"+clientID+".json", `{"Title":"Newsletter"}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, data)
	}
	var listID string
	if err := json.Unmarshal(data, &listID); err != nil {
		t.Fatal(err)
	}
	list, ok := f.List(listID)
	if !ok || list.Title != "Newsletter" || list.UnsubscribeSetting != "AllClientLists" {
		t.Fatalf("stored list = %+v, %v", list, ok)
	}

	resp, data = call(t, f, http.MethodPost, "/lists/"+clientID+".json", `{"Title":"newsletter"}`, nil)
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, data).Code != codeDuplicateListTitle {
		t.Errorf("duplicate: %d %s", resp.StatusCode, data)
	}
	resp, data = call(t, f, http.MethodPost, "/lists/nope.json", `{"Title":"X"}`, nil)
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, data).Code != codeInvalidClientID {
		t.Errorf("bad client: %d %s", resp.StatusCode, data)
	}

	resp, _ = call(t, f, http.MethodPut, "/lists/"+listID+".json", `{"Title":"Weekly"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	if l, _ := f.List(listID); l.Title != "Weekly" {
		t.Errorf("title after update = %q", l.Title)
	}

	resp, _ = call(t, f, http.MethodDelete, "/lists/"+listID+".json", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	resp, data = call(t, f, http.MethodGet, "/lists/"+listID+".json", "", nil)
	if resp.StatusCode != http.StatusNotFound || decodeError(t, data).Code != codeInvalidListID {
		t.Errorf("get deleted: %d %s", resp.StatusCode, data)
	}
}

func TestFakeAPI_ListSubscribersPaging(t *testing.T) {
	f := startFake(t)
	listID := f.AddList(f.AddClient("Acme"), FakeList{Title: "News"})
	f.AddSubscriber(listID, FakeSubscriber{EmailAddress: "c@example.com", Date: "2024-01-03 00:00:00"})
	f.AddSubscriber(listID, FakeSubscriber{EmailAddress: "a@example.com", Date: "2024-01-01 00:00:00"})
	f.AddSubscriber(listID, FakeSubscriber{EmailAddress: "b@example.com", Date: "2024-01-02 00:00:00"})
	f.AddSubscriber(listID, FakeSubscriber{EmailAddress: "gone@example.com", State: StateBounced})

	resp, data := call(t, f, http.MethodGet,
		"/lists/"+listID+"/active.json?page=2&pagesize=10&orderfield=email&orderdirection=desc", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, data)
	}
	var page pagedSubscribers
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatal(err)
	}
	if page.PageNumber != 2 || page.PageSize != 10 || page.TotalNumberOfRecords != 3 ||
		page.NumberOfPages != 1 || page.RecordsOnThisPage != 0 || len(page.Results) != 0 {
		t.Errorf("page 2 = %+v", page)
	}

	_, data = call(t, f, http.MethodGet,
		"/lists/"+listID+"/active.json?orderfield=email&orderdirection=desc&date=2024-01-02", "", nil)
	page = pagedSubscribers{}
	if err := json.Unmarshal(data, &page); err != nil {
		t.Fatal(err)
	}
	if page.PageSize != 1000 || len(page.Results) != 2 ||
		page.Results[0].EmailAddress != "c@example.com" || page.Results[1].EmailAddress != "b@example.com" {
		t.Errorf("filtered page = %+v", page)
	}

	resp, _ = call(t, f, http.MethodGet, "/lists/"+listID+"/active.json?pagesize=5", "", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("pagesize 5 status = %d", resp.StatusCode)
	}
	resp, _ = call(t, f, http.MethodGet, "/lists/"+listID+"/sleeping.json", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown state status = %d", resp.StatusCode)
	}
}

func TestFakeAPI_Subscribers(t *testing.T) {
	f := startFake(t)
	listID := f.AddList(f.AddClient("Acme"), FakeList{Title: "News"})
	path := "/subscribers/" + listID + ".json"

	resp, data := call(t, f, http.MethodPost, path, `{"EmailAddress":"jo@example.com","Name":"Jo","ConsentToTrack":"Yes"}`, nil)
	if resp.StatusCode != http.StatusCreated || string(data) != `"jo@example.com"` {
		t.Fatalf("add: %d %s", resp.StatusCode, data)
	}
	resp, data = call(t, f, http.MethodPost, path, `{"EmailAddress":"not-an-email"}`, nil)
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, data).Code != codeInvalidEmail {
		t.Errorf("invalid email: %d %s", resp.StatusCode, data)
	}

	resp, _ = call(t, f, http.MethodPost, "/subscribers/"+listID+"/unsubscribe.json", `{"EmailAddress":"jo@example.com"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unsubscribe status = %d", resp.StatusCode)
	}
	if sub, _ := f.Subscriber(listID, "jo@example.com"); sub.State != StateUnsubscribed {
		t.Errorf("state after unsubscribe = %q", sub.State)
	}

	resp, _ = call(t, f, http.MethodPost, path, `{"EmailAddress":"jo@example.com","Resubscribe":true,"ConsentToTrack":"Unchanged"}`, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("resubscribe status = %d", resp.StatusCode)
	}
	sub, _ := f.Subscriber(listID, "jo@example.com")
	if sub.State != StateActive || sub.ConsentToTrack != "Yes" || sub.Name != "Jo" {
		t.Errorf("after resubscribe = %+v", sub)
	}

	resp, _ = call(t, f, http.MethodPut, path+"?email=jo@example.com", `{"EmailAddress":"joanna@example.com","Name":"Joanna"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d", resp.StatusCode)
	}
	resp, data = call(t, f, http.MethodGet, path+"?email=joanna@example.com", "", nil)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(data), `"Name":"Joanna"`) {
		t.Errorf("get: %d %s", resp.StatusCode, data)
	}

	resp, _ = call(t, f, http.MethodDelete, path+"?email=joanna@example.com", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}
	if sub, _ := f.Subscriber(listID, "joanna@example.com"); sub.State != StateDeleted {
		t.Errorf("state after delete = %q", sub.State)
	}

	resp, data = call(t, f, http.MethodGet, path+"?email=nobody@example.com", "", nil)
	if resp.StatusCode != http.StatusBadRequest || decodeError(t, data).Code != codeSubscriberNotFound {
		t.Errorf("missing subscriber: %d %s", resp.StatusCode, data)
	}
}

func TestFakeAPI_Stub(t *testing.T) {
	f := startFake(t)
	f.Stub(http.MethodGet, "/systemdate.json", CannedResponse{
		Status: http.StatusServiceUnavailable,
		Body:   `{"Code":503,"Message":"down"}`,
		Header: map[string]string{"Retry-After": "1"},
		Times:  2,
	})

	for i := 0; i < 2; i++ {
		resp, _ := call(t, f, http.MethodGet, "/systemdate.json", "", func(*http.Request) {})
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("call %d status = %d", i, resp.StatusCode)
		}
		if resp.Header.Get("Retry-After") != "1" {
			t.Errorf("call %d missing stub header", i)
		}
	}
	resp, _ := call(t, f, http.MethodGet, "/systemdate.json", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("after stub exhausted status = %d", resp.StatusCode)
	}
	if n := f.RequestCount(http.MethodGet, "/systemdate.json"); n != 3 {
		t.Errorf("request count = %d, want 3", n)
	}
}

func TestFakeAPI_RecordsRequests(t *testing.T) {
	f := startFake(t)
	listID := f.AddList(f.AddClient("Acme"), FakeList{Title: "News"})

	call(t, f, http.MethodPost, "/subscribers/"+listID+".json?x=1&x=2", `{"EmailAddress":"a@example.com"}`, nil)

	last, ok := f.LastRequest()
	if !ok {
		t.Fatal("no request recorded")
	}
	if last.Method != http.MethodPost || last.Path != "/subscribers/"+listID+".json" {
		t.Errorf("recorded %s %s", last.Method, last.Path)
	}
	if got := last.Query["x"]; len(got) != 2 {
		t.Errorf("query x = %v", got)
	}
	if string(last.Body) != `{"EmailAddress":"a@example.com"}` {
		t.Errorf("body = %s", last.Body)
	}
	if user, _, _ := (&http.Request{Header: last.Header}).BasicAuth(); user != testAPIKey {
		t.Errorf("basic user = %q", user)
	}
	if len(f.Requests()) != 1 {
		t.Errorf("requests = %d", len(f.Requests()))
	}
}

func TestFakeAPI_SnapshotRestoreReset(t *testing.T) {
	f := startFake(t)
	h := T(t)
	listID := f.AddList(f.AddClient("Acme"), FakeList{Title: "News"})
	f.AddSubscriber(listID, FakeSubscriber{EmailAddress: "a@example.com", CustomFields: []FakeCustomField{{Key: "k", Value: "v"}}})

	snap := h.Snapshot(f)

	call(t, f, http.MethodDelete, "/subscribers/"+listID+".json?email=a@example.com", "", nil)
	call(t, f, http.MethodDelete, "/lists/"+listID+".json", "", nil)
	if _, ok := f.List(listID); ok {
		t.Fatal("list should be deleted")
	}

	h.Restore(f, snap)
	if _, ok := f.List(listID); !ok {
		t.Fatal("list not restored")
	}
	sub, ok := f.Subscriber(listID, "a@example.com")
	if !ok || sub.State != StateActive || len(sub.CustomFields) != 1 {
		t.Errorf("restored subscriber = %+v, %v", sub, ok)
	}

	if err := f.Restore(context.Background(), "bogus"); err == nil {
		t.Error("expected error restoring a foreign snapshot")
	}

	h.Reset(f)
	if _, ok := f.List(listID); ok {
		t.Error("list survived reset")
	}
	if len(f.Requests()) != 0 {
		t.Error("requests survived reset")
	}
}

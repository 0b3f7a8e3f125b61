package testutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/createsend/observability"
)

// APIBasePath is the path prefix the fake serves the API under.
const APIBasePath = "/api/v3.1"

// DefaultSystemDate is returned by systemdate.json until changed.
const DefaultSystemDate = "2024-05-01 09:30:00"

// Subscriber states as the API reports them.
const (
	StateActive       = "Active"
	StateUnsubscribed = "Unsubscribed"
	StateBounced      = "Bounced"
	StateDeleted      = "Deleted"
	StateUnconfirmed  = "Unconfirmed"
)

// FakeClient is a client account held by the fake.
type FakeClient struct {
	ClientID string `json:"ClientID"`
	Name     string `json:"Name"`
}

// FakeList is a subscriber list held by the fake.
type FakeList struct {
	ListID                  string `json:"ListID"`
	ClientID                string `json:"-"`
	Title                   string `json:"Title"`
	UnsubscribePage         string `json:"UnsubscribePage"`
	UnsubscribeSetting      string `json:"UnsubscribeSetting"`
	ConfirmedOptIn          bool   `json:"ConfirmedOptIn"`
	ConfirmationSuccessPage string `json:"ConfirmationSuccessPage"`
}

// FakeCustomField is a subscriber custom field.
type FakeCustomField struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

// FakeSubscriber is a list member held by the fake.
type FakeSubscriber struct {
	EmailAddress   string            `json:"EmailAddress"`
	Name           string            `json:"Name"`
	Date           string            `json:"Date"`
	State          string            `json:"State"`
	CustomFields   []FakeCustomField `json:"CustomFields"`
	ReadsEmailWith string            `json:"ReadsEmailWith"`
	ConsentToTrack string            `json:"ConsentToTrack"`
}

// RecordedRequest is a request received by the fake.
type RecordedRequest struct {
	Method string
	// Path is relative to APIBasePath, e.g. "/lists/abc.json".
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// CannedResponse replaces the normal handling of a route.
type CannedResponse struct {
	Status int
	Body   string
	Header map[string]string
	// Times limits how many requests receive the response. Zero means
	// every request.
	Times int
}

type fakeState struct {
	clients     []FakeClient
	lists       map[string]*FakeList
	subscribers map[string][]*FakeSubscriber
	systemDate  string
	nextID      int
}

func newFakeState() fakeState {
	return fakeState{
		lists:       make(map[string]*FakeList),
		subscribers: make(map[string][]*FakeSubscriber),
		systemDate:  DefaultSystemDate,
	}
}

func (s fakeState) clone() fakeState {
	out := fakeState{
		clients:     append([]FakeClient(nil), s.clients...),
		lists:       make(map[string]*FakeList, len(s.lists)),
		subscribers: make(map[string][]*FakeSubscriber, len(s.subscribers)),
		systemDate:  s.systemDate,
		nextID:      s.nextID,
	}
	for id, l := range s.lists {
		cp := *l
		out.lists[id] = &cp
	}
	for id, subs := range s.subscribers {
		copied := make([]*FakeSubscriber, len(subs))
		for i, sub := range subs {
			cp := *sub
			cp.CustomFields = append([]FakeCustomField(nil), sub.CustomFields...)
			copied[i] = &cp
		}
		out.subscribers[id] = copied
	}
	return out
}

// FakeAPI is an in-process createsend API. It implements TestComponent.
type FakeAPI struct {
	apiKey     string
	oauthToken string
	engine     *gin.Engine

	mu       sync.Mutex
	server   *httptest.Server
	state    fakeState
	requests []RecordedRequest
	stubs    map[string]*CannedResponse
}

var _ TestComponent = (*FakeAPI)(nil)

// NewFakeAPI creates a fake that accepts apiKey as the Basic auth username.
func NewFakeAPI(apiKey string) *FakeAPI {
	gin.SetMode(gin.TestMode)
	f := &FakeAPI{
		apiKey: apiKey,
		state:  newFakeState(),
		stubs:  make(map[string]*CannedResponse),
	}
	f.engine = f.routes()
	return f
}

// WithOAuthToken makes the fake also accept token as a Bearer credential.
func (f *FakeAPI) WithOAuthToken(token string) *FakeAPI {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.oauthToken = token
	return f
}

// Name implements TestComponent.
func (f *FakeAPI) Name() string { return "createsend-fake-api" }

// Start begins serving on a random local port.
func (f *FakeAPI) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.server != nil {
		return errors.New("fake api already started")
	}
	f.server = httptest.NewServer(f.engine)
	return nil
}

// Stop shuts the server down.
func (f *FakeAPI) Stop(_ context.Context) error {
	f.mu.Lock()
	srv := f.server
	f.server = nil
	f.mu.Unlock()
	if srv != nil {
		srv.Close()
	}
	return nil
}

// Health reports whether the server is running.
func (f *FakeAPI) Health(_ context.Context) observability.Health {
	f.mu.Lock()
	defer f.mu.Unlock()
	h := observability.Health{Name: f.Name(), Status: observability.HealthStatusDown, Message: "not started"}
	if f.server != nil {
		h.Status = observability.HealthStatusUp
		h.Message = ""
		h.Details = map[string]string{"url": f.server.URL + APIBasePath}
	}
	return h
}

// Reset clears all data, recorded requests and stubs.
func (f *FakeAPI) Reset(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = newFakeState()
	f.requests = nil
	f.stubs = make(map[string]*CannedResponse)
	return nil
}

// Snapshot captures the stored clients, lists and subscribers.
func (f *FakeAPI) Snapshot(_ context.Context) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.clone(), nil
}

// Restore replaces the stored data with a snapshot.
func (f *FakeAPI) Restore(_ context.Context, snapshot any) error {
	s, ok := snapshot.(fakeState)
	if !ok {
		return fmt.Errorf("unexpected snapshot type %T", snapshot)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = s.clone()
	return nil
}

// URL returns the API endpoint to configure the client with.
func (f *FakeAPI) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.server == nil {
		return ""
	}
	return f.server.URL + APIBasePath
}

// SetSystemDate changes the value returned by systemdate.json.
func (f *FakeAPI) SetSystemDate(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.systemDate = date
}

// AddClient stores a client and returns its ID.
func (f *FakeAPI) AddClient(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newIDLocked("client")
	f.state.clients = append(f.state.clients, FakeClient{ClientID: id, Name: name})
	return id
}

// AddList stores a list for an existing client and returns its ID.
func (f *FakeAPI) AddList(clientID string, list FakeList) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	list.ListID = f.newIDLocked("list")
	list.ClientID = clientID
	f.state.lists[list.ListID] = &list
	return list.ListID
}

// AddSubscriber stores a subscriber on a list. State defaults to Active.
func (f *FakeAPI) AddSubscriber(listID string, sub FakeSubscriber) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub.State == "" {
		sub.State = StateActive
	}
	if sub.Date == "" {
		sub.Date = f.state.systemDate
	}
	f.state.subscribers[listID] = append(f.state.subscribers[listID], &sub)
}

// List returns a copy of a stored list.
func (f *FakeAPI) List(listID string) (FakeList, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.state.lists[listID]
	if !ok {
		return FakeList{}, false
	}
	return *l, true
}

// Subscriber returns a copy of a stored subscriber.
func (f *FakeAPI) Subscriber(listID, email string) (FakeSubscriber, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub := f.findSubscriberLocked(listID, email); sub != nil {
		return *sub, true
	}
	return FakeSubscriber{}, false
}

// Stub makes requests for method and path (relative to APIBasePath, e.g.
// "/systemdate.json") receive resp instead of the normal handling. Stubs
// apply before authentication.
func (f *FakeAPI) Stub(method, path string, resp CannedResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stubs[stubKey(method, path)] = &resp
}

// Requests returns every request received so far.
func (f *FakeAPI) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// LastRequest returns the most recent request.
func (f *FakeAPI) LastRequest() (RecordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return RecordedRequest{}, false
	}
	return f.requests[len(f.requests)-1], true
}

// RequestCount returns how many requests matched method and path.
func (f *FakeAPI) RequestCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeAPI) newIDLocked(prefix string) string {
	f.state.nextID++
	return fmt.Sprintf("%s-%04d", prefix, f.state.nextID)
}

func (f *FakeAPI) findSubscriberLocked(listID, email string) *FakeSubscriber {
	for _, sub := range f.state.subscribers[listID] {
		if strings.EqualFold(sub.EmailAddress, email) {
			return sub
		}
	}
	return nil
}

func stubKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

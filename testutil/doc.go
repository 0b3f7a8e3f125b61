// Package testutil provides test infrastructure for the createsend client:
// a component lifecycle for test fixtures and an in-process fake of the
// createsend API.
//
// # Fake API
//
//	func TestLists(t *testing.T) {
//	    api := testutil.NewFakeAPI("test-key")
//	    testutil.T(t).Setup(api)
//
//	    clientID := api.AddClient("Acme")
//	    client, _ := createsend.New(createsend.Config{APIEndpoint: api.URL(), APIKey: "test-key"})
//	    id, err := client.Lists.Create(ctx, clientID, createsend.ListCreate{Title: "News"})
//	}
//
// The fake checks credentials, keeps clients, lists and subscribers in
// memory, pages list subscribers the way the API does, and records every
// request it receives. Stub overrides any route with a canned response.
//
// Components are started with Setup or T(t).Setup and stopped automatically
// at the end of the test. Reset returns a component to its initial state
// between cases.
package testutil

package createsend

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// Subscriber states a list can be queried by.
const (
	StateActive       = "active"
	StateUnsubscribed = "unsubscribed"
	StateBounced      = "bounced"
	StateDeleted      = "deleted"
	StateUnconfirmed  = "unconfirmed"
)

// ListsService manages subscriber lists.
type ListsService struct {
	client *Client
}

// Create creates a list for clientID and returns the new list ID.
func (s *ListsService) Create(ctx context.Context, clientID string, list ListCreate) (string, error) {
	return Post[string](ctx, s.client, list, "lists", clientID+".json")
}

// Details returns a list's settings.
func (s *ListsService) Details(ctx context.Context, listID string) (*ListDetails, error) {
	details, err := Get[ListDetails](ctx, s.client, "lists", listID+".json")
	if err != nil {
		return nil, err
	}
	return &details, nil
}

// Update replaces a list's settings.
func (s *ListsService) Update(ctx context.Context, listID string, list ListUpdate) error {
	return Put(ctx, s.client, list, "lists", listID+".json")
}

// Delete deletes a list.
func (s *ListsService) Delete(ctx context.Context, listID string) error {
	return Delete(ctx, s.client, "lists", listID+".json")
}

// Active returns active subscribers added since date. A zero date returns
// all of them.
func (s *ListsService) Active(ctx context.Context, listID string, since time.Time, paging PageOptions) (*PagedResult[Subscriber], error) {
	return s.Subscribers(ctx, listID, StateActive, since, paging)
}

// Unsubscribed returns subscribers who unsubscribed since date.
func (s *ListsService) Unsubscribed(ctx context.Context, listID string, since time.Time, paging PageOptions) (*PagedResult[Subscriber], error) {
	return s.Subscribers(ctx, listID, StateUnsubscribed, since, paging)
}

// Bounced returns subscribers who bounced since date.
func (s *ListsService) Bounced(ctx context.Context, listID string, since time.Time, paging PageOptions) (*PagedResult[Subscriber], error) {
	return s.Subscribers(ctx, listID, StateBounced, since, paging)
}

// Subscribers returns one page of a list's subscribers in the given state.
func (s *ListsService) Subscribers(ctx context.Context, listID, state string, since time.Time, paging PageOptions) (*PagedResult[Subscriber], error) {
	switch state {
	case StateActive, StateUnsubscribed, StateBounced, StateDeleted, StateUnconfirmed:
	default:
		return nil, fmt.Errorf("createsend: unknown subscriber state %q", state)
	}

	var query url.Values
	if !since.IsZero() {
		query = url.Values{"date": {since.Format(dateLayout)}}
	}
	return GetPaged[Subscriber](ctx, s.client, paging, query, "lists", listID, state+".json")
}

package createsend

import (
	"context"
	"net/url"
)

// SubscribersService manages the members of a list.
type SubscribersService struct {
	client *Client
}

// Add adds or resubscribes a subscriber and returns their email address.
func (s *SubscribersService) Add(ctx context.Context, listID string, sub SubscriberToAdd) (string, error) {
	if sub.ConsentToTrack == "" {
		sub.ConsentToTrack = ConsentUnchanged
	}
	return Post[string](ctx, s.client, sub, "subscribers", listID+".json")
}

// Get returns a subscriber's details.
func (s *SubscribersService) Get(ctx context.Context, listID, email string) (*Subscriber, error) {
	sub, err := GetWithQuery[Subscriber](ctx, s.client, emailQuery(email), "subscribers", listID+".json")
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Update changes the subscriber currently identified by email. The new
// address goes in sub.EmailAddress.
func (s *SubscribersService) Update(ctx context.Context, listID, email string, sub SubscriberToAdd) error {
	if sub.ConsentToTrack == "" {
		sub.ConsentToTrack = ConsentUnchanged
	}
	return PutWithQuery(ctx, s.client, sub, emailQuery(email), "subscribers", listID+".json")
}

// Unsubscribe moves a subscriber to the unsubscribed state.
func (s *SubscribersService) Unsubscribe(ctx context.Context, listID, email string) error {
	_, err := Post[struct{}](ctx, s.client, unsubscribeRequest{EmailAddress: email},
		"subscribers", listID, "unsubscribe.json")
	return err
}

// Delete moves a subscriber to the deleted state.
func (s *SubscribersService) Delete(ctx context.Context, listID, email string) error {
	return DeleteWithQuery(ctx, s.client, emailQuery(email), "subscribers", listID+".json")
}

func emailQuery(email string) url.Values {
	return url.Values{"email": {email}}
}

package createsend

import (
	"context"
	"time"
)

// GeneralService covers account-wide endpoints.
type GeneralService struct {
	client *Client
}

// SystemDate returns the current date and time in the account's time zone.
func (s *GeneralService) SystemDate(ctx context.Context) (time.Time, error) {
	res, err := Get[systemDate](ctx, s.client, "systemdate.json")
	if err != nil {
		return time.Time{}, err
	}
	return res.SystemDate.Time, nil
}

// Clients lists the clients in the account.
func (s *GeneralService) Clients(ctx context.Context) ([]ClientSummary, error) {
	return Get[[]ClientSummary](ctx, s.client, "clients.json")
}

// Countries lists the country names the API accepts.
func (s *GeneralService) Countries(ctx context.Context) ([]string, error) {
	return Get[[]string](ctx, s.client, "countries.json")
}

// Timezones lists the time zone names the API accepts.
func (s *GeneralService) Timezones(ctx context.Context) ([]string, error) {
	return Get[[]string](ctx, s.client, "timezones.json")
}

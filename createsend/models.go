package createsend

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// dateTimeLayout is the timestamp format the API uses in responses.
const dateTimeLayout = "2006-01-02 15:04:05"

// dateLayout is the format of date query parameters.
const dateLayout = "2006-01-02"

// DateTime is an API timestamp ("2010-10-15 09:27:00", account time zone).
type DateTime struct {
	time.Time
}

// UnmarshalJSON parses the API timestamp format. Empty and null values
// leave the zero time.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("createsend: parse date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the API timestamp format.
func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateTimeLayout))
}

// ClientSummary is an entry of the account's client list.
type ClientSummary struct {
	ClientID string `json:"ClientID"`
	Name     string `json:"Name"`
}

// Unsubscribe settings for a list.
const (
	UnsubscribeAllClientLists = "AllClientLists"
	UnsubscribeOnlyThisList   = "OnlyThisList"
)

// ListCreate is the body for creating a list.
type ListCreate struct {
	Title                   string `json:"Title"`
	UnsubscribePage         string `json:"UnsubscribePage,omitempty"`
	UnsubscribeSetting      string `json:"UnsubscribeSetting,omitempty"`
	ConfirmedOptIn          bool   `json:"ConfirmedOptIn"`
	ConfirmationSuccessPage string `json:"ConfirmationSuccessPage,omitempty"`
}

// ListUpdate is the body for updating a list.
type ListUpdate struct {
	ListCreate
	AddUnsubscribesToSuppList bool `json:"AddUnsubscribesToSuppList"`
	ScrubActiveWithSuppList   bool `json:"ScrubActiveWithSuppList"`
}

// ListDetails describes a subscriber list.
type ListDetails struct {
	ListID                  string `json:"ListID"`
	Title                   string `json:"Title"`
	UnsubscribePage         string `json:"UnsubscribePage"`
	UnsubscribeSetting      string `json:"UnsubscribeSetting"`
	ConfirmedOptIn          bool   `json:"ConfirmedOptIn"`
	ConfirmationSuccessPage string `json:"ConfirmationSuccessPage"`
}

// CustomField is a subscriber custom field value.
type CustomField struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
	// Clear removes the value on update.
	Clear bool `json:"Clear,omitempty"`
}

// Subscriber is a list member as returned by the list state endpoints.
type Subscriber struct {
	EmailAddress   string        `json:"EmailAddress"`
	Name           string        `json:"Name"`
	Date           DateTime      `json:"Date"`
	State          string        `json:"State"`
	CustomFields   []CustomField `json:"CustomFields"`
	ReadsEmailWith string        `json:"ReadsEmailWith"`
	ConsentToTrack string        `json:"ConsentToTrack"`
}

// Consent values for tracking.
const (
	ConsentYes       = "Yes"
	ConsentNo        = "No"
	ConsentUnchanged = "Unchanged"
)

// SubscriberToAdd is the body for adding or updating a subscriber.
type SubscriberToAdd struct {
	EmailAddress   string        `json:"EmailAddress"`
	Name           string        `json:"Name,omitempty"`
	CustomFields   []CustomField `json:"CustomFields,omitempty"`
	Resubscribe    bool          `json:"Resubscribe"`
	ConsentToTrack string        `json:"ConsentToTrack"`
}

type systemDate struct {
	SystemDate DateTime `json:"SystemDate"`
}

type unsubscribeRequest struct {
	EmailAddress string `json:"EmailAddress"`
}

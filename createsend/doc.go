// Package createsend is a client for the Campaign Monitor createsend REST API.
//
// A Client holds the configuration and a lazily built HTTP adapter that is
// shared by every call. The generic helpers Get, GetWithQuery, GetPaged,
// Post, Put and Delete build a request from path elements, send it with the
// configured credentials and decode the JSON response:
//
//	client, err := createsend.New(createsend.Config{APIKey: key})
//	if err != nil {
//	    return err
//	}
//	date, err := createsend.Get[string](ctx, client, "systemdate.json")
//
// Non-2xx responses are returned as *apierror.Error values; see the apierror
// package for the status mapping.
//
// The Lists, Subscribers and General services wrap the helpers for common
// endpoints.
package createsend

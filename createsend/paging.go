package createsend

import (
	"net/url"
	"strconv"

	"github.com/kbukum/createsend/apierror"
)

// Query string keys understood by paged endpoints.
const (
	ParamPage           = "page"
	ParamPageSize       = "pagesize"
	ParamOrderField     = "orderfield"
	ParamOrderDirection = "orderdirection"
)

// Order directions accepted by paged endpoints.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// PageOptions selects a page of results. Zero values are not sent, which
// leaves the API default in place (page 1, 1000 records, date ascending).
type PageOptions struct {
	Page           int
	PageSize       int
	OrderField     string
	OrderDirection string
}

// AddPagingParams adds the set fields of paging to query.
func AddPagingParams(query url.Values, paging PageOptions) {
	if paging.Page > 0 {
		query.Add(ParamPage, strconv.Itoa(paging.Page))
	}
	if paging.PageSize > 0 {
		query.Add(ParamPageSize, strconv.Itoa(paging.PageSize))
	}
	if paging.OrderField != "" {
		query.Add(ParamOrderField, paging.OrderField)
	}
	if paging.OrderDirection != "" {
		query.Add(ParamOrderDirection, paging.OrderDirection)
	}
}

// PagedResult is one page of a paged endpoint.
type PagedResult[T any] struct {
	Results              []T    `json:"Results"`
	ResultsOrderedBy     string `json:"ResultsOrderedBy"`
	OrderDirection       string `json:"OrderDirection"`
	PageNumber           int    `json:"PageNumber"`
	PageSize             int    `json:"PageSize"`
	RecordsOnThisPage    int    `json:"RecordsOnThisPage"`
	TotalNumberOfRecords int    `json:"TotalNumberOfRecords"`
	NumberOfPages        int    `json:"NumberOfPages"`
}

// HasNextPage reports whether another page follows this one.
func (p *PagedResult[T]) HasNextPage() bool {
	return p.PageNumber < p.NumberOfPages
}

// APIErrorResponse is the error body the API sends with failed requests.
type APIErrorResponse = apierror.Response

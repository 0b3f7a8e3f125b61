package testutil

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Error codes the fake returns, taken from the createsend documentation.
const (
	codeInvalidEmail       = 1
	codeInvalidClientID    = 102
	codeInvalidListID      = 101
	codeEmptyListTitle     = 200
	codeSubscriberNotFound = 203
	codeDuplicateListTitle = 250
	codeNotFound           = 404
)

var countries = []string{"Australia", "Canada", "New Zealand", "United Kingdom", "United States of America"}

var timezones = []string{
	"(GMT) Dublin, Edinburgh, Lisbon, London",
	"(GMT+10:00) Canberra, Melbourne, Sydney",
	"(GMT-05:00) Eastern Time (US & Canada)",
}

func (f *FakeAPI) routes() *gin.Engine {
	r := gin.New()
	r.Use(recovery(), requestID(), f.record(), f.stubbed(), f.authenticate())
	r.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found")
	})

	api := r.Group(APIBasePath)
	api.GET("/systemdate.json", f.getSystemDate)
	api.GET("/clients.json", f.getClients)
	api.GET("/countries.json", func(c *gin.Context) { c.JSON(http.StatusOK, countries) })
	api.GET("/timezones.json", func(c *gin.Context) { c.JSON(http.StatusOK, timezones) })

	api.POST("/lists/:id", f.createList)
	api.GET("/lists/:id", f.getList)
	api.PUT("/lists/:id", f.updateList)
	api.DELETE("/lists/:id", f.deleteList)
	api.GET("/lists/:id/:state", f.listSubscribers)

	api.POST("/subscribers/:id", f.addSubscriber)
	api.GET("/subscribers/:id", f.getSubscriber)
	api.PUT("/subscribers/:id", f.updateSubscriber)
	api.DELETE("/subscribers/:id", f.deleteSubscriber)
	api.POST("/subscribers/:id/unsubscribe.json", f.unsubscribe)
	return r
}

// jsonID returns the :id parameter without its ".json" suffix.
func jsonID(c *gin.Context) string {
	return strings.TrimSuffix(c.Param("id"), ".json")
}

func (f *FakeAPI) getSystemDate(c *gin.Context) {
	f.mu.Lock()
	date := f.state.systemDate
	f.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"SystemDate": date})
}

func (f *FakeAPI) getClients(c *gin.Context) {
	f.mu.Lock()
	clients := append([]FakeClient{}, f.state.clients...)
	f.mu.Unlock()
	c.JSON(http.StatusOK, clients)
}

type listBody struct {
	Title                   string `json:"Title"`
	UnsubscribePage         string `json:"UnsubscribePage"`
	UnsubscribeSetting      string `json:"UnsubscribeSetting"`
	ConfirmedOptIn          bool   `json:"ConfirmedOptIn"`
	ConfirmationSuccessPage string `json:"ConfirmationSuccessPage"`
}

func (f *FakeAPI) createList(c *gin.Context) {
	var body listBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, 400, "Failed to deserialize your request.")
		return
	}
	clientID := jsonID(c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.hasClientLocked(clientID) {
		respondError(c, http.StatusBadRequest, codeInvalidClientID, "Invalid ClientID")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		respondError(c, http.StatusBadRequest, codeEmptyListTitle, "Empty List Title")
		return
	}
	for _, l := range f.state.lists {
		if l.ClientID == clientID && strings.EqualFold(l.Title, body.Title) {
			respondError(c, http.StatusBadRequest, codeDuplicateListTitle, "List title must be unique within a client")
			return
		}
	}

	list := &FakeList{ListID: f.newIDLocked("list"), ClientID: clientID}
	applyListBody(list, body)
	f.state.lists[list.ListID] = list
	c.JSON(http.StatusCreated, list.ListID)
}

func (f *FakeAPI) getList(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.state.lists[jsonID(c)]
	if !ok {
		respondError(c, http.StatusNotFound, codeInvalidListID, "Invalid ListID")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (f *FakeAPI) updateList(c *gin.Context) {
	var body listBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, 400, "Failed to deserialize your request.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.state.lists[jsonID(c)]
	if !ok {
		respondError(c, http.StatusNotFound, codeInvalidListID, "Invalid ListID")
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		respondError(c, http.StatusBadRequest, codeEmptyListTitle, "Empty List Title")
		return
	}
	applyListBody(list, body)
	c.Status(http.StatusOK)
}

func (f *FakeAPI) deleteList(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := jsonID(c)
	if _, ok := f.state.lists[id]; !ok {
		respondError(c, http.StatusNotFound, codeInvalidListID, "Invalid ListID")
		return
	}
	delete(f.state.lists, id)
	delete(f.state.subscribers, id)
	c.Status(http.StatusOK)
}

func applyListBody(list *FakeList, body listBody) {
	list.Title = body.Title
	list.UnsubscribePage = body.UnsubscribePage
	list.UnsubscribeSetting = body.UnsubscribeSetting
	if list.UnsubscribeSetting == "" {
		list.UnsubscribeSetting = "AllClientLists"
	}
	list.ConfirmedOptIn = body.ConfirmedOptIn
	list.ConfirmationSuccessPage = body.ConfirmationSuccessPage
}

type pagedSubscribers struct {
	Results              []FakeSubscriber `json:"Results"`
	ResultsOrderedBy     string           `json:"ResultsOrderedBy"`
	OrderDirection       string           `json:"OrderDirection"`
	PageNumber           int              `json:"PageNumber"`
	PageSize             int              `json:"PageSize"`
	RecordsOnThisPage    int              `json:"RecordsOnThisPage"`
	TotalNumberOfRecords int              `json:"TotalNumberOfRecords"`
	NumberOfPages        int              `json:"NumberOfPages"`
}

func (f *FakeAPI) listSubscribers(c *gin.Context) {
	stateName, ok := strings.CutSuffix(c.Param("state"), ".json")
	if !ok {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found")
		return
	}
	var state string
	for _, s := range []string{StateActive, StateUnsubscribed, StateBounced, StateDeleted, StateUnconfirmed} {
		if strings.EqualFold(s, stateName) {
			state = s
		}
	}
	if state == "" {
		respondError(c, http.StatusNotFound, codeNotFound, "Not found")
		return
	}

	page, pageSize, orderField, direction, ok := pagingParams(c)
	if !ok {
		return
	}
	since := c.Query("date")

	f.mu.Lock()
	if _, exists := f.state.lists[c.Param("id")]; !exists {
		f.mu.Unlock()
		respondError(c, http.StatusNotFound, codeInvalidListID, "Invalid ListID")
		return
	}
	var matched []FakeSubscriber
	for _, sub := range f.state.subscribers[c.Param("id")] {
		if sub.State == state && (since == "" || sub.Date >= since) {
			matched = append(matched, *sub)
		}
	}
	f.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].Date, matched[j].Date
		if orderField == "email" {
			a, b = matched[i].EmailAddress, matched[j].EmailAddress
		} else if orderField == "name" {
			a, b = matched[i].Name, matched[j].Name
		}
		if direction == "desc" {
			return a > b
		}
		return a < b
	})

	total := len(matched)
	pages := (total + pageSize - 1) / pageSize
	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)
	results := matched[start:end]
	if results == nil {
		results = []FakeSubscriber{}
	}

	c.JSON(http.StatusOK, pagedSubscribers{
		Results:              results,
		ResultsOrderedBy:     orderField,
		OrderDirection:       direction,
		PageNumber:           page,
		PageSize:             pageSize,
		RecordsOnThisPage:    len(results),
		TotalNumberOfRecords: total,
		NumberOfPages:        pages,
	})
}

// pagingParams reads the paging query with the API defaults. It writes a
// 400 and reports false on invalid input.
func pagingParams(c *gin.Context) (page, pageSize int, orderField, direction string, ok bool) {
	page, pageSize = 1, 1000
	orderField, direction = "date", "asc"

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(c, http.StatusBadRequest, 400, "Invalid page")
			return 0, 0, "", "", false
		}
		page = n
	}
	if v := c.Query("pagesize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 10 || n > 1000 {
			respondError(c, http.StatusBadRequest, 400, "Invalid pagesize")
			return 0, 0, "", "", false
		}
		pageSize = n
	}
	if v := strings.ToLower(c.Query("orderfield")); v != "" {
		orderField = v
	}
	if v := strings.ToLower(c.Query("orderdirection")); v != "" {
		if v != "asc" && v != "desc" {
			respondError(c, http.StatusBadRequest, 400, "Invalid orderdirection")
			return 0, 0, "", "", false
		}
		direction = v
	}
	return page, pageSize, orderField, direction, true
}

type subscriberBody struct {
	EmailAddress   string            `json:"EmailAddress"`
	Name           string            `json:"Name"`
	CustomFields   []FakeCustomField `json:"CustomFields"`
	Resubscribe    bool              `json:"Resubscribe"`
	ConsentToTrack string            `json:"ConsentToTrack"`
}

func (f *FakeAPI) addSubscriber(c *gin.Context) {
	var body subscriberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, 400, "Failed to deserialize your request.")
		return
	}
	if !strings.Contains(body.EmailAddress, "@") {
		respondError(c, http.StatusBadRequest, codeInvalidEmail, "Invalid Email Address")
		return
	}
	listID := jsonID(c)

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.lists[listID]; !ok {
		respondError(c, http.StatusNotFound, codeInvalidListID, "Invalid ListID")
		return
	}
	sub := f.findSubscriberLocked(listID, body.EmailAddress)
	if sub == nil {
		sub = &FakeSubscriber{EmailAddress: body.EmailAddress, State: StateActive, Date: f.state.systemDate}
		f.state.subscribers[listID] = append(f.state.subscribers[listID], sub)
	} else if body.Resubscribe {
		sub.State = StateActive
	}
	applySubscriberBody(sub, body)
	c.JSON(http.StatusCreated, sub.EmailAddress)
}

func (f *FakeAPI) getSubscriber(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := f.findSubscriberLocked(jsonID(c), c.Query("email"))
	if sub == nil {
		respondError(c, http.StatusBadRequest, codeSubscriberNotFound, "Subscriber not in list or has already been removed.")
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (f *FakeAPI) updateSubscriber(c *gin.Context) {
	var body subscriberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, 400, "Failed to deserialize your request.")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	sub := f.findSubscriberLocked(jsonID(c), c.Query("email"))
	if sub == nil {
		respondError(c, http.StatusBadRequest, codeSubscriberNotFound, "Subscriber not in list or has already been removed.")
		return
	}
	if body.EmailAddress != "" {
		if !strings.Contains(body.EmailAddress, "@") {
			respondError(c, http.StatusBadRequest, codeInvalidEmail, "Invalid Email Address")
			return
		}
		sub.EmailAddress = body.EmailAddress
	}
	if body.Resubscribe {
		sub.State = StateActive
	}
	applySubscriberBody(sub, body)
	c.Status(http.StatusOK)
}

func (f *FakeAPI) unsubscribe(c *gin.Context) {
	var body subscriberBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, 400, "Failed to deserialize your request.")
		return
	}
	f.setSubscriberState(c, c.Param("id"), body.EmailAddress, StateUnsubscribed)
}

func (f *FakeAPI) deleteSubscriber(c *gin.Context) {
	f.setSubscriberState(c, jsonID(c), c.Query("email"), StateDeleted)
}

func (f *FakeAPI) setSubscriberState(c *gin.Context, listID, email, state string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub := f.findSubscriberLocked(listID, email)
	if sub == nil {
		respondError(c, http.StatusBadRequest, codeSubscriberNotFound, "Subscriber not in list or has already been removed.")
		return
	}
	sub.State = state
	c.Status(http.StatusOK)
}

func applySubscriberBody(sub *FakeSubscriber, body subscriberBody) {
	if body.Name != "" {
		sub.Name = body.Name
	}
	if body.CustomFields != nil {
		sub.CustomFields = append([]FakeCustomField(nil), body.CustomFields...)
	}
	if body.ConsentToTrack != "" && body.ConsentToTrack != "Unchanged" {
		sub.ConsentToTrack = body.ConsentToTrack
	}
}

func (f *FakeAPI) hasClientLocked(id string) bool {
	for _, cl := range f.state.clients {
		if cl.ClientID == id {
			return true
		}
	}
	return false
}

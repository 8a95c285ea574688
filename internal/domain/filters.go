package domain

import (
	"net/url"
	"strconv"
	"time"

	"tracklet-backend/internal/utils"
)

// Query parameter names understood by the list endpoints.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamLimit    = "limit"
	ParamOffset   = "offset"
	ParamActive   = "active"
	ParamStatus   = "status"

	ParamEventType   = "event_type"
	ParamVenue       = "venue"
	ParamPlanner     = "planner"
	ParamStartAfter  = "start_after"
	ParamStartBefore = "start_before"
	ParamEndAfter    = "end_after"
	ParamEndBefore   = "end_before"

	ParamEvent = "event"
	ParamItem  = "item"
	ParamPart  = "part"
	ParamInUse = "in_use"

	ParamCustomer          = "customer"
	ParamResponsible       = "responsible"
	ParamOverdue           = "overdue"
	ParamRentalStartAfter  = "rental_start_after"
	ParamRentalStartBefore = "rental_start_before"
	ParamRentalEndAfter    = "rental_end_after"
	ParamRentalEndBefore   = "rental_end_before"

	ParamOrder = "order"
	ParamAsset = "asset"
)

// ListOptions are shared by every list endpoint. A nil Limit returns the
// full result without the pagination envelope.
type ListOptions struct {
	Search   string
	Ordering string
	Limit    *int
	Offset   int
}

func (o ListOptions) Paginated() bool { return o.Limit != nil }

func (o ListOptions) encode(w queryWriter) {
	w.str(ParamSearch, o.Search)
	w.str(ParamOrdering, o.Ordering)
	if o.Limit != nil {
		w.v.Set(ParamLimit, strconv.Itoa(*o.Limit))
	}
	if o.Offset > 0 {
		w.v.Set(ParamOffset, strconv.Itoa(o.Offset))
	}
}

type CatalogFilter struct {
	Active *bool
	ListOptions
}

func (f CatalogFilter) Values() url.Values {
	w := newQueryWriter()
	w.boolean(ParamActive, f.Active)
	f.encode(w)
	return w.v
}

func ParseCatalogFilter(q url.Values) (CatalogFilter, error) {
	r := newQueryReader(q, nil)
	f := CatalogFilter{Active: r.boolean(ParamActive), ListOptions: r.listOptions()}
	return f, r.err()
}

type EventFilter struct {
	Status      *EventStatus
	EventType   *int32
	Venue       *int32
	Planner     *int32
	StartAfter  *time.Time
	StartBefore *time.Time
	EndAfter    *time.Time
	EndBefore   *time.Time
	ListOptions
}

func (f EventFilter) Values() url.Values {
	w := newQueryWriter()
	if f.Status != nil {
		w.v.Set(ParamStatus, strconv.Itoa(int(*f.Status)))
	}
	w.id(ParamEventType, f.EventType)
	w.id(ParamVenue, f.Venue)
	w.id(ParamPlanner, f.Planner)
	w.datetime(ParamStartAfter, f.StartAfter)
	w.datetime(ParamStartBefore, f.StartBefore)
	w.datetime(ParamEndAfter, f.EndAfter)
	w.datetime(ParamEndBefore, f.EndBefore)
	f.encode(w)
	return w.v
}

func ParseEventFilter(q url.Values, loc *time.Location) (EventFilter, error) {
	r := newQueryReader(q, loc)
	f := EventFilter{
		EventType:   r.id(ParamEventType),
		Venue:       r.id(ParamVenue),
		Planner:     r.id(ParamPlanner),
		StartAfter:  r.datetime(ParamStartAfter),
		StartBefore: r.datetime(ParamStartBefore),
		EndAfter:    r.datetime(ParamEndAfter),
		EndBefore:   r.datetime(ParamEndBefore),
		ListOptions: r.listOptions(),
	}
	if code, ok := r.status(ParamStatus, func(c int) bool { return EventStatus(c).Valid() }); ok {
		s := EventStatus(code)
		f.Status = &s
	}
	return f, r.err()
}

type AssignmentFilter struct {
	Event  *int32
	Item   *int32
	Part   *int32
	Status *AssignmentStatus
	// Active and InUse both keep rows that are not checked in or are still
	// RESERVED/IN_USE. False applies no restriction.
	Active *bool
	InUse  *bool
	ListOptions
}

// OnlyActive reports whether either flag asks for active rows.
func (f AssignmentFilter) OnlyActive() bool {
	return (f.Active != nil && *f.Active) || (f.InUse != nil && *f.InUse)
}

func (f AssignmentFilter) Values() url.Values {
	w := newQueryWriter()
	w.id(ParamEvent, f.Event)
	w.id(ParamItem, f.Item)
	w.id(ParamPart, f.Part)
	if f.Status != nil {
		w.v.Set(ParamStatus, strconv.Itoa(int(*f.Status)))
	}
	w.boolean(ParamActive, f.Active)
	w.boolean(ParamInUse, f.InUse)
	f.encode(w)
	return w.v
}

func ParseAssignmentFilter(q url.Values) (AssignmentFilter, error) {
	r := newQueryReader(q, nil)
	f := AssignmentFilter{
		Event:       r.id(ParamEvent),
		Item:        r.id(ParamItem),
		Part:        r.id(ParamPart),
		Active:      r.boolean(ParamActive),
		InUse:       r.boolean(ParamInUse),
		ListOptions: r.listOptions(),
	}
	if code, ok := r.status(ParamStatus, func(c int) bool { return AssignmentStatus(c).Valid() }); ok {
		s := AssignmentStatus(code)
		f.Status = &s
	}
	return f, r.err()
}

type RentalOrderFilter struct {
	Status            *RentalOrderStatus
	Customer          *int32
	Responsible       *int32
	Overdue           *bool
	RentalStartAfter  *time.Time
	RentalStartBefore *time.Time
	RentalEndAfter    *time.Time
	RentalEndBefore   *time.Time
	ListOptions
}

func (f RentalOrderFilter) Values() url.Values {
	w := newQueryWriter()
	if f.Status != nil {
		w.v.Set(ParamStatus, strconv.Itoa(int(*f.Status)))
	}
	w.id(ParamCustomer, f.Customer)
	w.id(ParamResponsible, f.Responsible)
	w.boolean(ParamOverdue, f.Overdue)
	w.datetime(ParamRentalStartAfter, f.RentalStartAfter)
	w.datetime(ParamRentalStartBefore, f.RentalStartBefore)
	w.datetime(ParamRentalEndAfter, f.RentalEndAfter)
	w.datetime(ParamRentalEndBefore, f.RentalEndBefore)
	f.encode(w)
	return w.v
}

func ParseRentalOrderFilter(q url.Values, loc *time.Location) (RentalOrderFilter, error) {
	r := newQueryReader(q, loc)
	f := RentalOrderFilter{
		Customer:          r.id(ParamCustomer),
		Responsible:       r.id(ParamResponsible),
		Overdue:           r.boolean(ParamOverdue),
		RentalStartAfter:  r.datetime(ParamRentalStartAfter),
		RentalStartBefore: r.datetime(ParamRentalStartBefore),
		RentalEndAfter:    r.datetime(ParamRentalEndAfter),
		RentalEndBefore:   r.datetime(ParamRentalEndBefore),
		ListOptions:       r.listOptions(),
	}
	if code, ok := r.status(ParamStatus, func(c int) bool { return RentalOrderStatus(c).Valid() }); ok {
		s := RentalOrderStatus(code)
		f.Status = &s
	}
	return f, r.err()
}

type RentalLineFilter struct {
	Order *int32
	Asset *int32
	ListOptions
}

func (f RentalLineFilter) Values() url.Values {
	w := newQueryWriter()
	w.id(ParamOrder, f.Order)
	w.id(ParamAsset, f.Asset)
	f.encode(w)
	return w.v
}

func ParseRentalLineFilter(q url.Values) (RentalLineFilter, error) {
	r := newQueryReader(q, nil)
	f := RentalLineFilter{
		Order:       r.id(ParamOrder),
		Asset:       r.id(ParamAsset),
		ListOptions: r.listOptions(),
	}
	return f, r.err()
}

type queryWriter struct {
	v url.Values
}

func newQueryWriter() queryWriter { return queryWriter{v: url.Values{}} }

func (w queryWriter) str(name, value string) {
	if value != "" {
		w.v.Set(name, value)
	}
}

func (w queryWriter) id(name string, value *int32) {
	if value != nil {
		w.v.Set(name, strconv.Itoa(int(*value)))
	}
}

func (w queryWriter) boolean(name string, value *bool) {
	if value != nil {
		w.v.Set(name, strconv.FormatBool(*value))
	}
}

func (w queryWriter) datetime(name string, value *time.Time) {
	if value != nil {
		w.v.Set(name, utils.FormatDateTime(*value))
	}
}

// queryReader parses query parameters, collecting every bad value instead of
// stopping at the first.
type queryReader struct {
	q    url.Values
	loc  *time.Location
	verr ValidationError
}

func newQueryReader(q url.Values, loc *time.Location) *queryReader {
	if loc == nil {
		loc = time.UTC
	}
	return &queryReader{q: q, loc: loc}
}

func (r *queryReader) raw(name string) (string, bool) {
	v := r.q.Get(name)
	return v, v != ""
}

func (r *queryReader) id(name string) *int32 {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	id, err := utils.ParseID(v)
	if err != nil {
		r.verr.Add(name, "Select a valid choice. That choice is not one of the available choices.")
		return nil
	}
	return &id
}

func (r *queryReader) boolean(name string) *bool {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	b, err := utils.ParseBool(v)
	if err != nil {
		r.verr.Add(name, "Enter a valid boolean.")
		return nil
	}
	return &b
}

func (r *queryReader) datetime(name string) *time.Time {
	v, ok := r.raw(name)
	if !ok {
		return nil
	}
	t, err := utils.ParseDateTime(v, r.loc)
	if err != nil {
		r.verr.Add(name, "Enter a valid date/time.")
		return nil
	}
	return &t
}

func (r *queryReader) status(name string, valid func(int) bool) (int, bool) {
	v, ok := r.raw(name)
	if !ok {
		return 0, false
	}
	code, err := strconv.Atoi(v)
	if err != nil || !valid(code) {
		r.verr.Add(name, "Select a valid choice. "+v+" is not one of the available choices.")
		return 0, false
	}
	return code, true
}

func (r *queryReader) listOptions() ListOptions {
	opts := ListOptions{Search: r.q.Get(ParamSearch), Ordering: r.q.Get(ParamOrdering)}
	if v, ok := r.raw(ParamLimit); ok {
		n, err := utils.ParseNonNegative(v)
		if err != nil {
			r.verr.Add(ParamLimit, "A valid integer is required.")
		} else {
			opts.Limit = &n
		}
	}
	if v, ok := r.raw(ParamOffset); ok {
		n, err := utils.ParseNonNegative(v)
		if err != nil {
			r.verr.Add(ParamOffset, "A valid integer is required.")
		} else {
			opts.Offset = n
		}
	}
	return opts
}

func (r *queryReader) err() error {
	return r.verr.OrNil()
}

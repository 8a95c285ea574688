package domain

import (
	"fmt"
	"strings"
	"time"
)

type RentalAsset struct {
	ID       int32  `json:"pk"`
	Name     string `json:"name" validate:"required,max=120"`
	AssetTag string `json:"asset_tag" validate:"max=80"`
	Serial   string `json:"serial" validate:"max=80"`
	Active   bool   `json:"active"`
	Notes    string `json:"notes"`
}

// Customer is the company a rental order is billed to.
type Customer struct {
	ID          int32  `json:"pk"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
}

// Owner is a user or group responsible for an order.
type Owner struct {
	ID    int32  `json:"pk"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Email string `json:"email"`
}

type RentalOrder struct {
	ID            int32             `json:"pk"`
	Reference     string            `json:"reference"`
	ReferenceInt  int               `json:"reference_int"`
	CustomerID    int32             `json:"customer"`
	RentalStart   time.Time         `json:"rental_start"`
	RentalEnd     time.Time         `json:"rental_end"`
	ReturnedDate  *time.Time        `json:"returned_date"`
	Status        RentalOrderStatus `json:"status"`
	ResponsibleID *int32            `json:"responsible"`
	Notes         string            `json:"notes"`
	CreationDate  time.Time         `json:"creation_date"`
	LastUpdated   time.Time         `json:"last_updated"`

	StatusName        string    `json:"status_name"`
	NotesPreview      string    `json:"notes_preview"`
	LineItems         int       `json:"line_items"`
	ReturnedLines     int       `json:"returned_lines"`
	Overdue           bool      `json:"overdue"`
	CustomerDetail    *Customer `json:"customer_detail"`
	ResponsibleDetail *Owner    `json:"responsible_detail"`
}

// IsOverdue reports an unreturned ACTIVE or OVERDUE order past its end.
func (o *RentalOrder) IsOverdue(now time.Time) bool {
	if o.ReturnedDate != nil {
		return false
	}
	return o.RentalEnd.Before(now) &&
		(o.Status == RentalOrderStatusActive || o.Status == RentalOrderStatusOverdue)
}

// ApplySaveRules normalizes the order before it is written: a RETURNED order
// always has a returned date, and a lapsed ACTIVE order becomes OVERDUE.
func (o *RentalOrder) ApplySaveRules(now time.Time) {
	if o.Status == RentalOrderStatusReturned && o.ReturnedDate == nil {
		stamp := now
		o.ReturnedDate = &stamp
	}
	if o.Status == RentalOrderStatusActive || o.Status == RentalOrderStatusOverdue {
		if o.ReturnedDate == nil && o.RentalEnd.Before(now) {
			o.Status = RentalOrderStatusOverdue
		}
	}
}

// Decorate fills the derived read-only fields.
func (o *RentalOrder) Decorate(now time.Time) {
	o.StatusName = o.Status.Label()
	o.NotesPreview = NotesPreview(o.Notes)
	o.Overdue = o.IsOverdue(now)
	if o.Status == RentalOrderStatusReturned {
		o.ReturnedLines = o.LineItems
	} else {
		o.ReturnedLines = 0
	}
}

func (o *RentalOrder) Validate() error {
	verr := &ValidationError{}
	if o.CustomerID == 0 {
		verr.Add("customer", "This field is required.")
	}
	if o.RentalStart.IsZero() {
		verr.Add("rental_start", "This field is required.")
	}
	if o.RentalEnd.IsZero() {
		verr.Add("rental_end", "This field is required.")
	}
	if !o.RentalStart.IsZero() && !o.RentalEnd.IsZero() && !o.RentalEnd.After(o.RentalStart) {
		verr.Add("rental_end", "Rental end must be after rental start")
	}
	if o.ReturnedDate != nil {
		if o.Status != RentalOrderStatusReturned {
			verr.Add("returned_date", "Returned date can only be set on a returned order")
		} else if o.ReturnedDate.Before(o.RentalStart) {
			verr.Add("returned_date", "Returned date cannot be before rental start")
		}
	}
	if !o.Status.Valid() {
		verr.Add("status", fmt.Sprintf("%d is not a valid choice.", o.Status))
	}
	return verr.OrNil()
}

// ValidRange reports whether the rental window is usable for bookings.
func (o *RentalOrder) ValidRange() bool {
	return !o.RentalStart.IsZero() && !o.RentalEnd.IsZero() && o.RentalEnd.After(o.RentalStart)
}

// Progress is the returned-lines fraction shown on an order.
type Progress struct {
	Returned int     `json:"returned"`
	Total    int     `json:"total"`
	Fraction float64 `json:"fraction"`
}

func NewProgress(returned, total int) Progress {
	p := Progress{Returned: returned, Total: total}
	if total > 0 {
		p.Fraction = float64(returned) / float64(total)
	}
	return p
}

func (o *RentalOrder) Progress() Progress {
	return NewProgress(o.ReturnedLines, o.LineItems)
}

func (p Progress) String() string {
	return fmt.Sprintf("%d/%d", p.Returned, p.Total)
}

// RentalOrderInput is the create payload.
type RentalOrderInput struct {
	Reference    string             `json:"reference" validate:"max=32"`
	Customer     int32              `json:"customer" validate:"required"`
	RentalStart  time.Time          `json:"rental_start" validate:"required"`
	RentalEnd    time.Time          `json:"rental_end" validate:"required"`
	ReturnedDate *time.Time         `json:"returned_date"`
	Status       *RentalOrderStatus `json:"status"`
	Responsible  *int32             `json:"responsible"`
	Notes        string             `json:"notes"`
}

func (in RentalOrderInput) Order() (RentalOrder, error) {
	status := RentalOrderStatusDraft
	if in.Status != nil {
		status = *in.Status
	}
	if status == RentalOrderStatusOverdue {
		return RentalOrder{}, NewValidationError("status", "Overdue is derived from the rental end and cannot be set")
	}
	return RentalOrder{
		Reference:     strings.TrimSpace(in.Reference),
		CustomerID:    in.Customer,
		RentalStart:   in.RentalStart,
		RentalEnd:     in.RentalEnd,
		ReturnedDate:  in.ReturnedDate,
		Status:        status,
		ResponsibleID: in.Responsible,
		Notes:         in.Notes,
	}, nil
}

// RentalOrderPatch is a partial update; each operator action sends a subset.
type RentalOrderPatch struct {
	Customer     Field[int32]             `json:"customer,omitzero"`
	RentalStart  Field[time.Time]         `json:"rental_start,omitzero"`
	RentalEnd    Field[time.Time]         `json:"rental_end,omitzero"`
	ReturnedDate Field[time.Time]         `json:"returned_date,omitzero"`
	Status       Field[RentalOrderStatus] `json:"status,omitzero"`
	Responsible  Field[int32]             `json:"responsible,omitzero"`
	Notes        Field[string]            `json:"notes,omitzero"`
}

// Apply updates o in place. An OVERDUE order whose end moves past now is
// demoted to ACTIVE before the save rules run again.
func (p RentalOrderPatch) Apply(o *RentalOrder, now time.Time) error {
	if p.Customer.Set {
		o.CustomerID = p.Customer.Value
	}
	if p.RentalStart.Set {
		o.RentalStart = p.RentalStart.Value
	}
	if p.RentalEnd.Set {
		o.RentalEnd = p.RentalEnd.Value
	}
	if p.ReturnedDate.Set {
		o.ReturnedDate = p.ReturnedDate.Ptr()
	}
	if p.Responsible.Set {
		o.ResponsibleID = p.Responsible.Ptr()
	}
	if p.Notes.Set {
		o.Notes = p.Notes.Value
	}

	if p.Status.Present() && p.Status.Value != o.Status {
		to := p.Status.Value
		switch {
		case !to.Valid():
			return NewValidationError("status", fmt.Sprintf("%d is not a valid choice.", to))
		case to == RentalOrderStatusOverdue:
			return NewValidationError("status", "Overdue is derived from the rental end and cannot be set")
		case !RentalOrderStatuses.CanTransition(o.Status, to):
			return fmt.Errorf("%w: rental order %s to %s", ErrInvalidTransition, o.Status.Label(), to.Label())
		}
		o.Status = to
	}

	if o.Status == RentalOrderStatusOverdue && !o.RentalEnd.Before(now) {
		o.Status = RentalOrderStatusActive
	}
	o.ApplySaveRules(now)
	return o.Validate()
}

type RentalLineItem struct {
	ID       int32  `json:"pk"`
	OrderID  int32  `json:"order"`
	AssetID  int32  `json:"asset"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes"`

	OrderDetail *RentalOrder `json:"order_detail"`
	AssetDetail *RentalAsset `json:"asset_detail"`
}

func (l *RentalLineItem) Validate() error {
	verr := &ValidationError{}
	if l.OrderID == 0 {
		verr.Add("order", "This field is required.")
	}
	if l.AssetID == 0 {
		verr.Add("asset", "This field is required.")
	}
	if l.Quantity <= 0 {
		verr.Add("quantity", "Quantity must be greater than zero")
	}
	return verr.OrNil()
}

type RentalLineInput struct {
	Order    int32  `json:"order" validate:"required"`
	Asset    int32  `json:"asset" validate:"required"`
	Quantity *int   `json:"quantity"`
	Notes    string `json:"notes"`
}

func (in RentalLineInput) Line() RentalLineItem {
	l := RentalLineItem{OrderID: in.Order, AssetID: in.Asset, Quantity: 1, Notes: in.Notes}
	if in.Quantity != nil {
		l.Quantity = *in.Quantity
	}
	return l
}

type RentalLinePatch struct {
	Order    Field[int32]  `json:"order,omitzero"`
	Asset    Field[int32]  `json:"asset,omitzero"`
	Quantity Field[int]    `json:"quantity,omitzero"`
	Notes    Field[string] `json:"notes,omitzero"`
}

func (p RentalLinePatch) Apply(l *RentalLineItem) error {
	if p.Order.Set {
		l.OrderID = p.Order.Value
	}
	if p.Asset.Set {
		l.AssetID = p.Asset.Value
	}
	if p.Quantity.Set {
		l.Quantity = p.Quantity.Value
	}
	if p.Notes.Set {
		l.Notes = p.Notes.Value
	}
	return l.Validate()
}

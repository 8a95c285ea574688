package client

import (
	"context"
	"time"

	"tracklet-backend/internal/domain"
)

const (
	MessageAssignmentMerged  = "Updated existing assignment"
	MessageAssignmentCreated = "Assignment created"
)

// AssignmentResult is the outcome of submitting a new assignment.
type AssignmentResult struct {
	Assignment *domain.FurnitureAssignment
	Message    string
}

// CreateAssignment submits a new assignment. The server may merge it into an
// existing row for the same event and part; Message tells the two apart.
func (c *Client) CreateAssignment(ctx context.Context, in domain.AssignmentInput) (*AssignmentResult, error) {
	if in.Part == nil && in.Item == nil {
		return nil, domain.NewValidationError("part", "Either part or furniture item is required")
	}
	if in.Quantity != nil && *in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "Quantity must be greater than zero")
	}

	a, err := c.createAssignment(ctx, in)
	if err != nil {
		return nil, err
	}
	msg := MessageAssignmentCreated
	if a.UpdatedExisting {
		msg = MessageAssignmentMerged
	}
	return &AssignmentResult{Assignment: a, Message: msg}, nil
}

// NewAssignmentInput prefills an assignment for the event with the default
// check-out and check-in times.
func NewAssignmentInput(event domain.Event, loc *time.Location) domain.AssignmentInput {
	in := domain.AssignmentInput{Event: event.ID}
	dates := domain.DefaultAssignmentDates(event, loc)
	if dates.CheckedOutAt != nil {
		in.CheckedOutAt = domain.Some(*dates.CheckedOutAt)
	}
	if dates.CheckedInAt != nil {
		in.CheckedInAt = domain.Some(*dates.CheckedInAt)
	}
	return in
}

func (c *Client) MarkAssignmentInUse(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	return c.UpdateAssignment(ctx, id, domain.AssignmentPatch{Status: domain.Some(domain.AssignmentStatusInUse)})
}

// MarkAssignmentReturned sets RETURNED with the given check-in time, or now
// when checkedInAt is nil.
func (c *Client) MarkAssignmentReturned(ctx context.Context, id int32, checkedInAt *time.Time) (*domain.FurnitureAssignment, error) {
	at := c.now()
	if checkedInAt != nil {
		at = *checkedInAt
	}
	return c.UpdateAssignment(ctx, id, domain.AssignmentPatch{
		Status:      domain.Some(domain.AssignmentStatusReturned),
		CheckedInAt: domain.Some(at),
	})
}

func (c *Client) MarkOrderActive(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	return c.UpdateOrder(ctx, id, domain.RentalOrderPatch{Status: domain.Some(domain.RentalOrderStatusActive)})
}

// MarkOrderReturned requires the returned date; a zero value is rejected
// without contacting the server.
func (c *Client) MarkOrderReturned(ctx context.Context, id int32, returnedDate time.Time) (*domain.RentalOrder, error) {
	if returnedDate.IsZero() {
		return nil, domain.NewValidationError("returned_date", "This field is required.")
	}
	return c.UpdateOrder(ctx, id, domain.RentalOrderPatch{
		Status:       domain.Some(domain.RentalOrderStatusReturned),
		ReturnedDate: domain.Some(returnedDate),
	})
}

// ExtendOrder only moves the rental end.
func (c *Client) ExtendOrder(ctx context.Context, id int32, rentalEnd time.Time) (*domain.RentalOrder, error) {
	if rentalEnd.IsZero() {
		return nil, domain.NewValidationError("rental_end", "This field is required.")
	}
	return c.UpdateOrder(ctx, id, domain.RentalOrderPatch{RentalEnd: domain.Some(rentalEnd)})
}

func (c *Client) CancelOrder(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	return c.UpdateOrder(ctx, id, domain.RentalOrderPatch{Status: domain.Some(domain.RentalOrderStatusCancelled)})
}

// SetOrderNotes replaces the order notes.
func (c *Client) SetOrderNotes(ctx context.Context, id int32, notes string) (*domain.RentalOrder, error) {
	return c.UpdateOrder(ctx, id, domain.RentalOrderPatch{Notes: domain.Some(notes)})
}

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sendgrid/rest"

	"tracklet-backend/internal/domain"
)

const (
	eventsPath         = "events"
	eventFurniturePath = "event-furniture"
	rentalOrdersPath   = "rental-orders"
	rentalLinesPath    = "rental-lines"
)

type StatusVocabulary struct {
	Name   string              `json:"name"`
	Values []domain.StatusInfo `json:"values"`
}

func (c *Client) ListEvents(ctx context.Context, filter domain.EventFilter) (Page[domain.Event], error) {
	return list[domain.Event](ctx, c, collectionPath(eventsPath), filter.Values())
}

func (c *Client) GetEvent(ctx context.Context, id int32) (*domain.Event, error) {
	var event domain.Event
	if _, err := c.do(ctx, rest.Get, detailPath(eventsPath, id), nil, nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, in domain.EventInput) (*domain.Event, error) {
	var event domain.Event
	if _, err := c.do(ctx, rest.Post, collectionPath(eventsPath), nil, in, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id int32, patch domain.EventPatch) (*domain.Event, error) {
	var event domain.Event
	if _, err := c.do(ctx, rest.Patch, detailPath(eventsPath, id), nil, patch, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id int32) error {
	_, err := c.do(ctx, rest.Delete, detailPath(eventsPath, id), nil, nil, nil)
	return err
}

func (c *Client) ListAssignments(ctx context.Context, filter domain.AssignmentFilter) (Page[domain.FurnitureAssignment], error) {
	return list[domain.FurnitureAssignment](ctx, c, collectionPath(eventFurniturePath), filter.Values())
}

func (c *Client) GetAssignment(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	var a domain.FurnitureAssignment
	if _, err := c.do(ctx, rest.Get, detailPath(eventFurniturePath, id), nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// createAssignment posts the row. The server answers 200 when it merged the
// submission into an existing (event, part) row.
func (c *Client) createAssignment(ctx context.Context, in domain.AssignmentInput) (*domain.FurnitureAssignment, error) {
	var a domain.FurnitureAssignment
	status, err := c.do(ctx, rest.Post, collectionPath(eventFurniturePath), nil, in, &a)
	if err != nil {
		return nil, err
	}
	if status == http.StatusOK {
		a.UpdatedExisting = true
	}
	return &a, nil
}

func (c *Client) UpdateAssignment(ctx context.Context, id int32, patch domain.AssignmentPatch) (*domain.FurnitureAssignment, error) {
	var a domain.FurnitureAssignment
	if _, err := c.do(ctx, rest.Patch, detailPath(eventFurniturePath, id), nil, patch, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int32) error {
	_, err := c.do(ctx, rest.Delete, detailPath(eventFurniturePath, id), nil, nil, nil)
	return err
}

// PartUsage counts active assignments of a part across every event. Only
// the count of a one-row page is read.
func (c *Client) PartUsage(ctx context.Context, partID int32) (int, error) {
	active := true
	limit := 1
	page, err := c.ListAssignments(ctx, domain.AssignmentFilter{
		Part:        &partID,
		Active:      &active,
		ListOptions: domain.ListOptions{Limit: &limit},
	})
	if err != nil {
		return 0, err
	}
	return page.Count, nil
}

func (c *Client) ListOrders(ctx context.Context, filter domain.RentalOrderFilter) (Page[domain.RentalOrder], error) {
	return list[domain.RentalOrder](ctx, c, collectionPath(rentalOrdersPath), filter.Values())
}

func (c *Client) GetOrder(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	var o domain.RentalOrder
	if _, err := c.do(ctx, rest.Get, detailPath(rentalOrdersPath, id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CreateOrder(ctx context.Context, in domain.RentalOrderInput) (*domain.RentalOrder, error) {
	var o domain.RentalOrder
	if _, err := c.do(ctx, rest.Post, collectionPath(rentalOrdersPath), nil, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id int32, patch domain.RentalOrderPatch) (*domain.RentalOrder, error) {
	var o domain.RentalOrder
	if _, err := c.do(ctx, rest.Patch, detailPath(rentalOrdersPath, id), nil, patch, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int32) error {
	_, err := c.do(ctx, rest.Delete, detailPath(rentalOrdersPath, id), nil, nil, nil)
	return err
}

func (c *Client) ListLines(ctx context.Context, filter domain.RentalLineFilter) (Page[domain.RentalLineItem], error) {
	return list[domain.RentalLineItem](ctx, c, collectionPath(rentalLinesPath), filter.Values())
}

func (c *Client) CreateLine(ctx context.Context, in domain.RentalLineInput) (*domain.RentalLineItem, error) {
	var l domain.RentalLineItem
	if _, err := c.do(ctx, rest.Post, collectionPath(rentalLinesPath), nil, in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) UpdateLine(ctx context.Context, id int32, patch domain.RentalLinePatch) (*domain.RentalLineItem, error) {
	var l domain.RentalLineItem
	if _, err := c.do(ctx, rest.Patch, detailPath(rentalLinesPath, id), nil, patch, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteLine(ctx context.Context, id int32) error {
	_, err := c.do(ctx, rest.Delete, detailPath(rentalLinesPath, id), nil, nil, nil)
	return err
}

// Customers lists companies flagged as customers.
func (c *Client) Customers(ctx context.Context, filter domain.CatalogFilter) (Page[domain.Customer], error) {
	return list[domain.Customer](ctx, c, "/api/company/", filter.Values())
}

func (c *Client) Owners(ctx context.Context, filter domain.CatalogFilter) (Page[domain.Owner], error) {
	return list[domain.Owner](ctx, c, "/api/owner/", filter.Values())
}

func (c *Client) Venues(ctx context.Context, filter domain.CatalogFilter) (Page[domain.Venue], error) {
	return list[domain.Venue](ctx, c, collectionPath("venues"), filter.Values())
}

func (c *Client) StatusVocabularies(ctx context.Context) (map[string]StatusVocabulary, error) {
	var out map[string]StatusVocabulary
	if _, err := c.do(ctx, rest.Get, collectionPath("status"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Modules reads the server's module switches into the same value the
// server was configured with.
func (c *Client) Modules(ctx context.Context) (domain.Modules, error) {
	var raw map[domain.Module]bool
	if _, err := c.do(ctx, rest.Get, collectionPath("modules"), nil, nil, &raw); err != nil {
		return domain.Modules{}, err
	}
	return domain.NewModules(raw), nil
}

// AssignmentDefaults asks the server for the suggested window of a new
// assignment on the event.
func (c *Client) AssignmentDefaults(ctx context.Context, eventID int32) (domain.AssignmentDates, error) {
	var dates domain.AssignmentDates
	path := apiPrefix + "/" + eventsPath + "/" + strconv.Itoa(int(eventID)) + "/assignment-defaults/"
	_, err := c.do(ctx, rest.Get, path, nil, nil, &dates)
	return dates, err
}

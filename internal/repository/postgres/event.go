package postgres

import (
	"context"
	"database/sql"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

const eventSelect = `SELECT e.id, e.reference, e.reference_int, e.title, e.description, e.event_type_id, e.venue_id, e.planner_id,
	e.start_datetime, e.end_datetime, e.late_night_takedown, e.status, e.notes, e.created_by, e.creation_date, e.last_updated,
	t.id, t.name, t.description, t.active,
	v.id, v.name, v.address, v.contact_name, v.contact_email, v.active, v.notes,
	p.id, p.name, p.email, p.phone, p.active, p.notes
	FROM events e
	JOIN event_types t ON t.id = e.event_type_id
	JOIN venues v ON v.id = e.venue_id
	LEFT JOIN planners p ON p.id = e.planner_id`

var eventOrdering = map[string]string{
	"reference":      "e.reference_int",
	"title":          "e.title",
	"start_datetime": "e.start_datetime",
	"end_datetime":   "e.end_datetime",
	"status":         "e.status",
	"last_updated":   "e.last_updated",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*domain.Event, error) {
	var (
		e       domain.Event
		t       domain.EventType
		v       domain.Venue
		planner nullPlanner
	)
	err := row.Scan(&e.ID, &e.Reference, &e.ReferenceInt, &e.Title, &e.Description, &e.EventTypeID, &e.VenueID, &e.PlannerID,
		&e.StartDatetime, &e.EndDatetime, &e.LateNightTakedown, &e.Status, &e.Notes, &e.CreatedBy, &e.CreationDate, &e.LastUpdated,
		&t.ID, &t.Name, &t.Description, &t.Active,
		&v.ID, &v.Name, &v.Address, &v.ContactName, &v.ContactEmail, &v.Active, &v.Notes,
		&planner.ID, &planner.Name, &planner.Email, &planner.Phone, &planner.Active, &planner.Notes)
	if err != nil {
		return nil, err
	}
	e.EventTypeDetail = &t
	e.VenueDetail = &v
	e.PlannerDetail = planner.planner()
	return &e, nil
}

// nullPlanner receives the nullable side of the planner join.
type nullPlanner struct {
	ID     sql.NullInt32
	Name   sql.NullString
	Email  sql.NullString
	Phone  sql.NullString
	Active sql.NullBool
	Notes  sql.NullString
}

func (n nullPlanner) planner() *domain.Planner {
	if !n.ID.Valid {
		return nil
	}
	return &domain.Planner{
		ID:     n.ID.Int32,
		Name:   n.Name.String,
		Email:  n.Email.String,
		Phone:  n.Phone.String,
		Active: n.Active.Bool,
		Notes:  n.Notes.String,
	}
}

// nextReference returns the next free generated reference for prefix.
func nextReference(ctx context.Context, tx *sql.Tx, table, prefix string) (string, int, error) {
	var latest int
	query := `SELECT COALESCE(MAX(reference_int), 0) FROM ` + table + ` WHERE reference LIKE $1`
	if err := tx.QueryRowContext(ctx, query, prefix+"%").Scan(&latest); err != nil {
		return "", 0, err
	}
	next := latest + 1
	return domain.FormatReference(prefix, next), next, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if e.Reference == "" {
		if e.Reference, e.ReferenceInt, err = nextReference(ctx, tx, "events", domain.EventReferencePrefix); err != nil {
			return err
		}
	} else {
		e.ReferenceInt = domain.ReferenceInt(e.Reference)
	}

	query := `INSERT INTO events (reference, reference_int, title, description, event_type_id, venue_id, planner_id,
	          start_datetime, end_datetime, late_night_takedown, status, notes, created_by, creation_date, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	          RETURNING id, creation_date, last_updated`
	err = tx.QueryRowContext(ctx, query, e.Reference, e.ReferenceInt, e.Title, e.Description, e.EventTypeID, e.VenueID, e.PlannerID,
		e.StartDatetime, e.EndDatetime, e.LateNightTakedown, e.Status, e.Notes, e.CreatedBy).
		Scan(&e.ID, &e.CreationDate, &e.LastUpdated)
	if err != nil {
		return mapError(err)
	}
	return tx.Commit()
}

func (r *eventRepository) GetByID(ctx context.Context, id int32) (*domain.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, eventSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `UPDATE events SET title=$1, description=$2, event_type_id=$3, venue_id=$4, planner_id=$5, start_datetime=$6,
	          end_datetime=$7, late_night_takedown=$8, status=$9, notes=$10, last_updated=NOW()
	          WHERE id=$11 RETURNING last_updated`
	err := r.db.QueryRowContext(ctx, query, e.Title, e.Description, e.EventTypeID, e.VenueID, e.PlannerID, e.StartDatetime,
		e.EndDatetime, e.LateNightTakedown, e.Status, e.Notes, e.ID).Scan(&e.LastUpdated)
	return mapError(err)
}

func (r *eventRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	return checkAffected(res)
}

func (r *eventRepository) List(ctx context.Context, f domain.EventFilter) ([]domain.Event, int, error) {
	q := newListQuery(eventSelect)
	if f.Status != nil {
		q.and("e.status = " + q.arg(int(*f.Status)))
	}
	q.eq("e.event_type_id", f.EventType)
	q.eq("e.venue_id", f.Venue)
	q.eq("e.planner_id", f.Planner)
	if f.StartAfter != nil {
		q.and("e.start_datetime >= " + q.arg(*f.StartAfter))
	}
	if f.StartBefore != nil {
		q.and("e.start_datetime <= " + q.arg(*f.StartBefore))
	}
	if f.EndAfter != nil {
		q.and("e.end_datetime >= " + q.arg(*f.EndAfter))
	}
	if f.EndBefore != nil {
		q.and("e.end_datetime <= " + q.arg(*f.EndBefore))
	}
	q.search(f.Search, "e.reference", "e.title", "e.notes")
	q.orderBy(f.Ordering, eventOrdering, "e.last_updated DESC")

	var events []domain.Event
	count, err := q.run(ctx, r.db, f.ListOptions, func(rows *sql.Rows) error {
		e, err := scanEvent(rows)
		if err != nil {
			return err
		}
		events = append(events, *e)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return events, count, nil
}

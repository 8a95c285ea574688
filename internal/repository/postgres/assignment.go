package postgres

import (
	"context"
	"database/sql"
	"errors"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const assignmentColumns = `a.id, a.event_id, a.item_id, a.part_id, a.quantity, a.status, a.checked_out_at, a.checked_in_at, a.notes`

const assignmentSelect = `SELECT ` + assignmentColumns + `,
	e.id, e.reference, e.title, e.status, e.start_datetime, e.end_datetime, v.name, pl.name,
	i.id, i.name, i.description, i.category, i.asset_tag, i.active, i.notes,
	p.id, p.name, p.full_name, p.ipn, p.category_path
	FROM event_furniture_assignments a
	JOIN events e ON e.id = a.event_id
	JOIN venues v ON v.id = e.venue_id
	LEFT JOIN planners pl ON pl.id = e.planner_id
	LEFT JOIN furniture_items i ON i.id = a.item_id
	LEFT JOIN parts p ON p.id = a.part_id`

var assignmentOrdering = map[string]string{
	"checked_out_at": "a.checked_out_at",
	"checked_in_at":  "a.checked_in_at",
	"status":         "a.status",
	"quantity":       "a.quantity",
	"event":          "e.reference_int",
	"part":           "p.name",
	"item":           "i.name",
}

// activeAssignment keeps rows that are not checked in yet or are still
// RESERVED or IN_USE.
const activeAssignment = `(a.checked_in_at IS NULL OR a.status IN (10, 20))`

func assignmentTargets(a *domain.FurnitureAssignment) []any {
	return []any{&a.ID, &a.EventID, &a.ItemID, &a.PartID, &a.Quantity, &a.Status, &a.CheckedOutAt, &a.CheckedInAt, &a.Notes}
}

func scanAssignment(row scanner) (*domain.FurnitureAssignment, error) {
	var (
		a    domain.FurnitureAssignment
		ev   domain.EventBrief
		item struct {
			ID                                  sql.NullInt32
			Name, Description, Category, Tag, N sql.NullString
			Active                              sql.NullBool
		}
		part struct {
			ID                                sql.NullInt32
			Name, FullName, IPN, CategoryPath sql.NullString
		}
	)
	dest := append(assignmentTargets(&a),
		&ev.ID, &ev.Reference, &ev.Title, &ev.Status, &ev.StartDatetime, &ev.EndDatetime, &ev.VenueName, &ev.PlannerName,
		&item.ID, &item.Name, &item.Description, &item.Category, &item.Tag, &item.Active, &item.N,
		&part.ID, &part.Name, &part.FullName, &part.IPN, &part.CategoryPath)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	a.EventDetail = &ev
	if item.ID.Valid {
		a.ItemDetail = &domain.FurnitureItem{
			ID:          item.ID.Int32,
			Name:        item.Name.String,
			Description: item.Description.String,
			Category:    item.Category.String,
			AssetTag:    item.Tag.String,
			Active:      item.Active.Bool,
			Notes:       item.N.String,
		}
	}
	if part.ID.Valid {
		a.PartDetail = &domain.PartDetail{
			ID:           part.ID.Int32,
			Name:         part.Name.String,
			FullName:     part.FullName.String,
			IPN:          part.IPN.String,
			CategoryPath: part.CategoryPath.String,
		}
	}
	return &a, nil
}

const assignmentInsert = `INSERT INTO event_furniture_assignments (event_id, item_id, part_id, quantity, status, checked_out_at, checked_in_at, notes)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func assignmentArgs(a *domain.FurnitureAssignment) []any {
	return []any{a.EventID, a.ItemID, a.PartID, a.Quantity, a.Status, a.CheckedOutAt, a.CheckedInAt, a.Notes}
}

func (r *assignmentRepository) Create(ctx context.Context, a *domain.FurnitureAssignment) error {
	err := r.db.QueryRowContext(ctx, assignmentInsert+` RETURNING id`, assignmentArgs(a)...).Scan(&a.ID)
	return mapError(err)
}

func (r *assignmentRepository) CreateOrMerge(ctx context.Context, a *domain.FurnitureAssignment, merge func(existing *domain.FurnitureAssignment) error) (*domain.FurnitureAssignment, bool, error) {
	if a.PartID == nil {
		if err := r.Create(ctx, a); err != nil {
			return nil, false, err
		}
		return a, false, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	query := assignmentInsert + ` ON CONFLICT (event_id, part_id) WHERE part_id IS NOT NULL DO NOTHING RETURNING id`
	err = tx.QueryRowContext(ctx, query, assignmentArgs(a)...).Scan(&a.ID)
	switch {
	case err == nil:
		if err := tx.Commit(); err != nil {
			return nil, false, err
		}
		return a, false, nil
	case !errors.Is(err, sql.ErrNoRows):
		return nil, false, mapError(err)
	}

	existing := &domain.FurnitureAssignment{}
	lock := `SELECT ` + assignmentColumns + ` FROM event_furniture_assignments a
	         WHERE a.event_id = $1 AND a.part_id = $2 FOR UPDATE`
	if err := tx.QueryRowContext(ctx, lock, a.EventID, *a.PartID).Scan(assignmentTargets(existing)...); err != nil {
		return nil, false, mapError(err)
	}
	if err := merge(existing); err != nil {
		return nil, false, err
	}
	if err := updateAssignment(ctx, tx, existing); err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}
	return existing, true, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id int32) (*domain.FurnitureAssignment, error) {
	a, err := scanAssignment(r.db.QueryRowContext(ctx, assignmentSelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *assignmentRepository) Update(ctx context.Context, a *domain.FurnitureAssignment) error {
	return updateAssignment(ctx, r.db, a)
}

func updateAssignment(ctx context.Context, q querier, a *domain.FurnitureAssignment) error {
	query := `UPDATE event_furniture_assignments SET event_id=$1, item_id=$2, part_id=$3, quantity=$4, status=$5,
	          checked_out_at=$6, checked_in_at=$7, notes=$8 WHERE id=$9`
	res, err := q.ExecContext(ctx, query, append(assignmentArgs(a), a.ID)...)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res)
}

func (r *assignmentRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM event_furniture_assignments WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	return checkAffected(res)
}

func (r *assignmentRepository) List(ctx context.Context, f domain.AssignmentFilter) ([]domain.FurnitureAssignment, int, error) {
	q := newListQuery(assignmentSelect)
	q.eq("a.event_id", f.Event)
	q.eq("a.item_id", f.Item)
	q.eq("a.part_id", f.Part)
	if f.Status != nil {
		q.and("a.status = " + q.arg(int(*f.Status)))
	}
	if f.OnlyActive() {
		q.and(activeAssignment)
	}
	q.search(f.Search, "e.reference", "p.name", "p.ipn", "p.category_path", "i.name", "i.category", "a.notes")
	q.orderBy(f.Ordering, assignmentOrdering, "a.checked_out_at DESC", "a.id DESC")

	var out []domain.FurnitureAssignment
	count, err := q.run(ctx, r.db, f.ListOptions, func(rows *sql.Rows) error {
		a, err := scanAssignment(rows)
		if err != nil {
			return err
		}
		out = append(out, *a)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

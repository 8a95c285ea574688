package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

type rentalOrderRepository struct {
	db *sql.DB
}

func NewRentalOrderRepository(db *sql.DB) repository.RentalOrderRepository {
	return &rentalOrderRepository{db: db}
}

const orderColumns = `o.id, o.reference, o.reference_int, o.customer_id, o.rental_start, o.rental_end, o.returned_date,
	o.status, o.responsible_id, o.notes, o.creation_date, o.last_updated`

const orderSelect = `SELECT ` + orderColumns + `,
	(SELECT count(*) FROM rental_line_items li WHERE li.order_id = o.id) AS line_items,
	c.id, c.name, c.description, c.email, c.active,
	ow.id, ow.name, ow.label, ow.email
	FROM rental_orders o
	JOIN companies c ON c.id = o.customer_id
	LEFT JOIN owners ow ON ow.id = o.responsible_id`

var orderOrdering = map[string]string{
	"reference":     "o.reference_int",
	"customer":      "c.name",
	"rental_start":  "o.rental_start",
	"rental_end":    "o.rental_end",
	"returned_date": "o.returned_date",
	"status":        "o.status",
	"line_items":    "line_items",
	"creation_date": "o.creation_date",
	"last_updated":  "o.last_updated",
}

// overdueOrder matches unreturned ACTIVE or OVERDUE orders whose end is
// before the bound timestamp.
const overdueOrder = `(o.returned_date IS NULL AND o.rental_end < %s AND o.status IN (20, 30))`

func orderTargets(o *domain.RentalOrder) []any {
	return []any{&o.ID, &o.Reference, &o.ReferenceInt, &o.CustomerID, &o.RentalStart, &o.RentalEnd, &o.ReturnedDate,
		&o.Status, &o.ResponsibleID, &o.Notes, &o.CreationDate, &o.LastUpdated}
}

func scanOrder(row scanner) (*domain.RentalOrder, error) {
	var (
		o     domain.RentalOrder
		c     domain.Customer
		owner struct {
			ID                 sql.NullInt32
			Name, Label, Email sql.NullString
		}
	)
	dest := append(orderTargets(&o), &o.LineItems,
		&c.ID, &c.Name, &c.Description, &c.Email, &c.Active,
		&owner.ID, &owner.Name, &owner.Label, &owner.Email)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	o.CustomerDetail = &c
	if owner.ID.Valid {
		o.ResponsibleDetail = &domain.Owner{
			ID:    owner.ID.Int32,
			Name:  owner.Name.String,
			Label: owner.Label.String,
			Email: owner.Email.String,
		}
	}
	return &o, nil
}

func (r *rentalOrderRepository) Create(ctx context.Context, o *domain.RentalOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if o.Reference == "" {
		if o.Reference, o.ReferenceInt, err = nextReference(ctx, tx, "rental_orders", domain.RentalReferencePrefix); err != nil {
			return err
		}
	} else {
		o.ReferenceInt = domain.ReferenceInt(o.Reference)
	}

	query := `INSERT INTO rental_orders (reference, reference_int, customer_id, rental_start, rental_end, returned_date,
	          status, responsible_id, notes, creation_date, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	          RETURNING id, creation_date, last_updated`
	err = tx.QueryRowContext(ctx, query, o.Reference, o.ReferenceInt, o.CustomerID, o.RentalStart, o.RentalEnd, o.ReturnedDate,
		o.Status, o.ResponsibleID, o.Notes).Scan(&o.ID, &o.CreationDate, &o.LastUpdated)
	if err != nil {
		return mapError(err)
	}
	return tx.Commit()
}

func (r *rentalOrderRepository) GetByID(ctx context.Context, id int32) (*domain.RentalOrder, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return o, nil
}

func (r *rentalOrderRepository) Update(ctx context.Context, o *domain.RentalOrder) error {
	o.ReferenceInt = domain.ReferenceInt(o.Reference)
	query := `UPDATE rental_orders SET reference=$1, reference_int=$2, customer_id=$3, rental_start=$4, rental_end=$5,
	          returned_date=$6, status=$7, responsible_id=$8, notes=$9, last_updated=NOW()
	          WHERE id=$10 RETURNING last_updated`
	err := r.db.QueryRowContext(ctx, query, o.Reference, o.ReferenceInt, o.CustomerID, o.RentalStart, o.RentalEnd,
		o.ReturnedDate, o.Status, o.ResponsibleID, o.Notes, o.ID).Scan(&o.LastUpdated)
	return mapError(err)
}

func (r *rentalOrderRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_orders WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	return checkAffected(res)
}

func (r *rentalOrderRepository) List(ctx context.Context, f domain.RentalOrderFilter, now time.Time) ([]domain.RentalOrder, int, error) {
	q := newListQuery(orderSelect)
	if f.Status != nil {
		q.and("o.status = " + q.arg(int(*f.Status)))
	}
	q.eq("o.customer_id", f.Customer)
	q.eq("o.responsible_id", f.Responsible)
	if f.Overdue != nil {
		cond := fmt.Sprintf(overdueOrder, q.arg(now))
		if !*f.Overdue {
			cond = "NOT " + cond
		}
		q.and(cond)
	}
	if f.RentalStartAfter != nil {
		q.and("o.rental_start >= " + q.arg(*f.RentalStartAfter))
	}
	if f.RentalStartBefore != nil {
		q.and("o.rental_start <= " + q.arg(*f.RentalStartBefore))
	}
	if f.RentalEndAfter != nil {
		q.and("o.rental_end >= " + q.arg(*f.RentalEndAfter))
	}
	if f.RentalEndBefore != nil {
		q.and("o.rental_end <= " + q.arg(*f.RentalEndBefore))
	}
	q.search(f.Search, "o.reference", "o.notes", "c.name")
	q.orderBy(f.Ordering, orderOrdering, "o.last_updated DESC")

	var orders []domain.RentalOrder
	count, err := q.run(ctx, r.db, f.ListOptions, func(rows *sql.Rows) error {
		o, err := scanOrder(rows)
		if err != nil {
			return err
		}
		orders = append(orders, *o)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return orders, count, nil
}

func (r *rentalOrderRepository) MarkOverdue(ctx context.Context, now time.Time) ([]int32, error) {
	query := `UPDATE rental_orders SET status = $1, last_updated = NOW()
	          WHERE status = $2 AND returned_date IS NULL AND rental_end < $3
	          RETURNING id`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalOrderStatusOverdue, domain.RentalOrderStatusActive, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

type rentalLineRepository struct {
	db *sql.DB
}

func NewRentalLineRepository(db *sql.DB) repository.RentalLineRepository {
	return &rentalLineRepository{db: db}
}

const lineSelect = `SELECT l.id, l.order_id, l.asset_id, l.quantity, l.notes, ` + orderColumns + `,
	a.id, a.name, a.asset_tag, a.serial, a.active, a.notes
	FROM rental_line_items l
	JOIN rental_orders o ON o.id = l.order_id
	JOIN rental_assets a ON a.id = l.asset_id`

var lineOrdering = map[string]string{
	"order":    "o.reference_int",
	"asset":    "a.name",
	"quantity": "l.quantity",
}

func scanLine(row scanner) (*domain.RentalLineItem, error) {
	var (
		l domain.RentalLineItem
		o domain.RentalOrder
		a domain.RentalAsset
	)
	dest := []any{&l.ID, &l.OrderID, &l.AssetID, &l.Quantity, &l.Notes}
	dest = append(dest, orderTargets(&o)...)
	dest = append(dest, &a.ID, &a.Name, &a.AssetTag, &a.Serial, &a.Active, &a.Notes)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	l.OrderDetail = &o
	l.AssetDetail = &a
	return &l, nil
}

func (r *rentalLineRepository) Create(ctx context.Context, l *domain.RentalLineItem) error {
	query := `INSERT INTO rental_line_items (order_id, asset_id, quantity, notes) VALUES ($1, $2, $3, $4) RETURNING id`
	return mapError(r.db.QueryRowContext(ctx, query, l.OrderID, l.AssetID, l.Quantity, l.Notes).Scan(&l.ID))
}

func (r *rentalLineRepository) GetByID(ctx context.Context, id int32) (*domain.RentalLineItem, error) {
	l, err := scanLine(r.db.QueryRowContext(ctx, lineSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return l, nil
}

func (r *rentalLineRepository) Update(ctx context.Context, l *domain.RentalLineItem) error {
	query := `UPDATE rental_line_items SET order_id=$1, asset_id=$2, quantity=$3, notes=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, l.OrderID, l.AssetID, l.Quantity, l.Notes, l.ID)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res)
}

func (r *rentalLineRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM rental_line_items WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err)
	}
	return checkAffected(res)
}

func (r *rentalLineRepository) List(ctx context.Context, f domain.RentalLineFilter) ([]domain.RentalLineItem, int, error) {
	q := newListQuery(lineSelect)
	q.eq("l.order_id", f.Order)
	q.eq("l.asset_id", f.Asset)
	q.search(f.Search, "o.reference", "a.name", "a.asset_tag", "l.notes")
	q.orderBy(f.Ordering, lineOrdering, "l.order_id", "l.id")

	var lines []domain.RentalLineItem
	count, err := q.run(ctx, r.db, f.ListOptions, func(rows *sql.Rows) error {
		l, err := scanLine(rows)
		if err != nil {
			return err
		}
		lines = append(lines, *l)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, count, nil
}

func (r *rentalLineRepository) FindOverlap(ctx context.Context, assetID int32, start, end time.Time, excludeID int32) (string, bool, error) {
	query := `SELECT o.reference FROM rental_line_items l
	          JOIN rental_orders o ON o.id = l.order_id
	          WHERE l.asset_id = $1 AND o.status IN ($2, $3, $4)
	            AND o.rental_start < $5 AND o.rental_end > $6 AND l.id <> $7
	          ORDER BY o.id LIMIT 1`
	var reference string
	err := r.db.QueryRowContext(ctx, query, assetID,
		domain.RentalOrderStatusDraft, domain.RentalOrderStatusActive, domain.RentalOrderStatusOverdue,
		end, start, excludeID).Scan(&reference)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return reference, true, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository"
)

// catalogTable describes one reference table. columns excludes id; fields
// and dest return values and scan targets in the same order.
type catalogTable[T any] struct {
	table        string
	columns      []string
	search       []string
	ordering     map[string]string
	defaultOrder []string
	activeColumn string
	scope        string
	id           func(*T) *int32
	fields       func(*T) []any
	dest         func(*T) []any
}

type catalogRepository[T any] struct {
	db *sql.DB
	t  catalogTable[T]
}

func (r *catalogRepository[T]) scanTargets(item *T) []any {
	return append([]any{r.t.id(item)}, r.t.dest(item)...)
}

func (r *catalogRepository[T]) Create(ctx context.Context, item *T) error {
	placeholders := make([]string, len(r.t.columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		r.t.table, strings.Join(r.t.columns, ", "), strings.Join(placeholders, ", "))
	return mapError(r.db.QueryRowContext(ctx, query, r.t.fields(item)...).Scan(r.t.id(item)))
}

func (r *catalogRepository[T]) GetByID(ctx context.Context, id int32) (*T, error) {
	item := new(T)
	query := fmt.Sprintf("SELECT id, %s FROM %s WHERE id = $1", strings.Join(r.t.columns, ", "), r.t.table)
	if r.t.scope != "" {
		query += " AND " + r.t.scope
	}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(r.scanTargets(item)...); err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

func (r *catalogRepository[T]) Update(ctx context.Context, item *T) error {
	sets := make([]string, len(r.t.columns))
	for i, c := range r.t.columns {
		sets[i] = fmt.Sprintf("%s=$%d", c, i+1)
	}
	args := append(r.t.fields(item), *r.t.id(item))
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id=$%d", r.t.table, strings.Join(sets, ", "), len(args))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(err)
	}
	return checkAffected(res)
}

func (r *catalogRepository[T]) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", r.t.table), id)
	if err != nil {
		return mapDeleteError(err)
	}
	return checkAffected(res)
}

func (r *catalogRepository[T]) List(ctx context.Context, filter domain.CatalogFilter) ([]T, int, error) {
	q := newListQuery(fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(r.t.columns, ", "), r.t.table))
	if r.t.scope != "" {
		q.and(r.t.scope)
	}
	if filter.Active != nil && r.t.activeColumn != "" {
		q.and(r.t.activeColumn + " = " + q.arg(*filter.Active))
	}
	q.search(filter.Search, r.t.search...)
	q.orderBy(filter.Ordering, r.t.ordering, r.t.defaultOrder...)

	var items []T
	count, err := q.run(ctx, r.db, filter.ListOptions, func(rows *sql.Rows) error {
		item := new(T)
		if err := rows.Scan(r.scanTargets(item)...); err != nil {
			return err
		}
		items = append(items, *item)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func NewEventTypeRepository(db *sql.DB) repository.EventTypeRepository {
	return &catalogRepository[domain.EventType]{db: db, t: catalogTable[domain.EventType]{
		table:        "event_types",
		columns:      []string{"name", "description", "active"},
		search:       []string{"name", "description"},
		ordering:     map[string]string{"name": "name", "active": "active"},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		id:           func(e *domain.EventType) *int32 { return &e.ID },
		fields:       func(e *domain.EventType) []any { return []any{e.Name, e.Description, e.Active} },
		dest:         func(e *domain.EventType) []any { return []any{&e.Name, &e.Description, &e.Active} },
	}}
}

func NewVenueRepository(db *sql.DB) repository.VenueRepository {
	return &catalogRepository[domain.Venue]{db: db, t: catalogTable[domain.Venue]{
		table:        "venues",
		columns:      []string{"name", "address", "contact_name", "contact_email", "active", "notes"},
		search:       []string{"name", "address", "contact_name", "contact_email", "notes"},
		ordering:     map[string]string{"name": "name", "active": "active"},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		id:           func(v *domain.Venue) *int32 { return &v.ID },
		fields: func(v *domain.Venue) []any {
			return []any{v.Name, v.Address, v.ContactName, v.ContactEmail, v.Active, v.Notes}
		},
		dest: func(v *domain.Venue) []any {
			return []any{&v.Name, &v.Address, &v.ContactName, &v.ContactEmail, &v.Active, &v.Notes}
		},
	}}
}

func NewPlannerRepository(db *sql.DB) repository.PlannerRepository {
	return &catalogRepository[domain.Planner]{db: db, t: catalogTable[domain.Planner]{
		table:        "planners",
		columns:      []string{"name", "email", "phone", "active", "notes"},
		search:       []string{"name", "email", "phone", "notes"},
		ordering:     map[string]string{"name": "name", "active": "active"},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		id:           func(p *domain.Planner) *int32 { return &p.ID },
		fields:       func(p *domain.Planner) []any { return []any{p.Name, p.Email, p.Phone, p.Active, p.Notes} },
		dest:         func(p *domain.Planner) []any { return []any{&p.Name, &p.Email, &p.Phone, &p.Active, &p.Notes} },
	}}
}

func NewFurnitureItemRepository(db *sql.DB) repository.FurnitureItemRepository {
	return &catalogRepository[domain.FurnitureItem]{db: db, t: catalogTable[domain.FurnitureItem]{
		table:   "furniture_items",
		columns: []string{"name", "description", "category", "asset_tag", "active", "notes"},
		search:  []string{"name", "category", "description", "asset_tag", "notes"},
		ordering: map[string]string{
			"name": "name", "category": "category", "asset_tag": "asset_tag", "active": "active",
		},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		id:           func(f *domain.FurnitureItem) *int32 { return &f.ID },
		fields: func(f *domain.FurnitureItem) []any {
			return []any{f.Name, f.Description, f.Category, f.AssetTag, f.Active, f.Notes}
		},
		dest: func(f *domain.FurnitureItem) []any {
			return []any{&f.Name, &f.Description, &f.Category, &f.AssetTag, &f.Active, &f.Notes}
		},
	}}
}

func NewRentalAssetRepository(db *sql.DB) repository.RentalAssetRepository {
	return &catalogRepository[domain.RentalAsset]{db: db, t: catalogTable[domain.RentalAsset]{
		table:   "rental_assets",
		columns: []string{"name", "asset_tag", "serial", "active", "notes"},
		search:  []string{"name", "asset_tag", "serial", "notes"},
		ordering: map[string]string{
			"name": "name", "asset_tag": "asset_tag", "serial": "serial", "active": "active",
		},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		id:           func(a *domain.RentalAsset) *int32 { return &a.ID },
		fields:       func(a *domain.RentalAsset) []any { return []any{a.Name, a.AssetTag, a.Serial, a.Active, a.Notes} },
		dest: func(a *domain.RentalAsset) []any {
			return []any{&a.Name, &a.AssetTag, &a.Serial, &a.Active, &a.Notes}
		},
	}}
}

// NewCustomerRepository reads companies flagged as customers.
func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &catalogRepository[domain.Customer]{db: db, t: catalogTable[domain.Customer]{
		table:        "companies",
		columns:      []string{"name", "description", "email", "active"},
		search:       []string{"name", "description"},
		ordering:     map[string]string{"name": "name"},
		defaultOrder: []string{"name"},
		activeColumn: "active",
		scope:        "is_customer = TRUE",
		id:           func(c *domain.Customer) *int32 { return &c.ID },
		fields:       func(c *domain.Customer) []any { return []any{c.Name, c.Description, c.Email, c.Active} },
		dest:         func(c *domain.Customer) []any { return []any{&c.Name, &c.Description, &c.Email, &c.Active} },
	}}
}

func NewOwnerRepository(db *sql.DB) repository.OwnerRepository {
	return &catalogRepository[domain.Owner]{db: db, t: catalogTable[domain.Owner]{
		table:        "owners",
		columns:      []string{"name", "label", "email"},
		search:       []string{"name", "label", "email"},
		ordering:     map[string]string{"name": "name", "label": "label"},
		defaultOrder: []string{"name"},
		id:           func(o *domain.Owner) *int32 { return &o.ID },
		fields:       func(o *domain.Owner) []any { return []any{o.Name, o.Label, o.Email} },
		dest:         func(o *domain.Owner) []any { return []any{&o.Name, &o.Label, &o.Email} },
	}}
}

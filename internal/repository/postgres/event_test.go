package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracklet-backend/internal/domain"
	"tracklet-backend/internal/repository/postgres"
)

var eventColumns = []string{
	"id", "reference", "reference_int", "title", "description", "event_type_id", "venue_id", "planner_id",
	"start_datetime", "end_datetime", "late_night_takedown", "status", "notes", "created_by", "creation_date", "last_updated",
	"t_id", "t_name", "t_description", "t_active",
	"v_id", "v_name", "v_address", "v_contact_name", "v_contact_email", "v_active", "v_notes",
	"p_id", "p_name", "p_email", "p_phone", "p_active", "p_notes",
}

func TestEventRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("GeneratesReference", func(t *testing.T) {
		event := &domain.Event{
			Title:         "Summer Gala",
			EventTypeID:   1,
			VenueID:       2,
			StartDatetime: start,
			EndDatetime:   end,
			Status:        domain.EventStatusDraft,
		}

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT COALESCE\(MAX\(reference_int\), 0\) FROM events WHERE reference LIKE \$1`).
			WithArgs("EV%").
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(41))
		mock.ExpectQuery("INSERT INTO events").
			WithArgs("EV0042", 42, "Summer Gala", "", int32(1), int32(2), nil, start, end, false, domain.EventStatusDraft, "", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "creation_date", "last_updated"}).AddRow(7, now, now))
		mock.ExpectCommit()

		err := repo.Create(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, int32(7), event.ID)
		assert.Equal(t, "EV0042", event.Reference)
		assert.Equal(t, 42, event.ReferenceInt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("KeepsExplicitReference", func(t *testing.T) {
		event := &domain.Event{
			Reference:     "EV0100",
			Title:         "Launch",
			EventTypeID:   1,
			VenueID:       2,
			StartDatetime: start,
			EndDatetime:   end,
		}

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO events").
			WithArgs("EV0100", 100, "Launch", "", int32(1), int32(2), nil, start, end, false, sqlmock.AnyArg(), "", nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "creation_date", "last_updated"}).AddRow(8, now, now))
		mock.ExpectCommit()

		require.NoError(t, repo.Create(ctx, event))
		assert.Equal(t, 100, event.ReferenceInt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(6 * time.Hour)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows(eventColumns).
			AddRow(1, "EV0001", 1, "Summer Gala", "", 1, 2, nil, start, end, true, 20, "Load via dock", nil, start, start,
				1, "Wedding", "", true,
				2, "Grand Hall", "1 Main St", "", "", true, "",
				nil, nil, nil, nil, nil, nil)

		mock.ExpectQuery(`SELECT (.+) FROM events e (.+) WHERE e.id = \$1`).
			WithArgs(int32(1)).
			WillReturnRows(rows)

		event, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "EV0001", event.Reference)
		assert.Equal(t, domain.EventStatusScheduled, event.Status)
		assert.True(t, event.LateNightTakedown)
		assert.Nil(t, event.PlannerID)
		assert.Nil(t, event.PlannerDetail)
		require.NotNil(t, event.VenueDetail)
		assert.Equal(t, "Grand Hall", event.VenueDetail.Name)
		assert.Equal(t, "Wedding", event.EventTypeDetail.Name)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT (.+) FROM events e (.+) WHERE e.id = \$1`).
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows(eventColumns))

		_, err := repo.GetByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	venue := int32(2)
	status := domain.EventStatusScheduled
	limit := 10

	filter := domain.EventFilter{
		Status: &status,
		Venue:  &venue,
		ListOptions: domain.ListOptions{
			Search:   "gala",
			Ordering: "-start_datetime",
			Limit:    &limit,
			Offset:   20,
		},
	}

	mock.ExpectQuery(`SELECT count\(\*\) FROM \(SELECT (.+) WHERE e.status = \$1 AND e.venue_id = \$2 AND (.+)\) AS sub`).
		WithArgs(20, int32(2), "%gala%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(`ORDER BY e.start_datetime DESC LIMIT \$4 OFFSET \$5`).
		WithArgs(20, int32(2), "%gala%", 10, 20).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(3, "EV0003", 3, "Summer Gala", "", 1, 2, 5, start, start.Add(time.Hour), false, 20, "", nil, start, start,
				1, "Wedding", "", true,
				2, "Grand Hall", "", "", "", true, "",
				5, "Pat", "pat@example.com", "", true, ""))

	events, count, err := repo.List(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 21, count)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].PlannerDetail)
	assert.Equal(t, "Pat", events[0].PlannerDetail.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs(int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(ctx, 1))
	})

	t.Run("Missing", func(t *testing.T) {
		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs(int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(ctx, 2), domain.ErrNotFound)
	})
}

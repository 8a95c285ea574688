package domain

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventFilterRoundTrip(t *testing.T) {
	status := EventStatusScheduled
	after := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	limit := 25

	f := EventFilter{
		Status:      &status,
		Venue:       int32p(3),
		StartAfter:  &after,
		ListOptions: ListOptions{Search: "gala", Ordering: "-start_datetime", Limit: &limit, Offset: 50},
	}
	v := f.Values()

	assert.Equal(t, "20", v.Get("status"))
	assert.Equal(t, "3", v.Get("venue"))
	assert.Equal(t, "2024-06-01T00:00:00Z", v.Get("start_after"))
	assert.Equal(t, "gala", v.Get("search"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.Equal(t, "50", v.Get("offset"))
	assert.False(t, v.Has("planner"))

	parsed, err := ParseEventFilter(v, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, status, *parsed.Status)
	assert.Equal(t, int32(3), *parsed.Venue)
	assert.True(t, parsed.StartAfter.Equal(after))
	assert.True(t, parsed.Paginated())
}

func TestParseEventFilterErrors(t *testing.T) {
	q := url.Values{"status": {"35"}, "venue": {"x"}, "start_before": {"soon"}, "limit": {"-2"}}
	_, err := ParseEventFilter(q, nil)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, f := range []string{"status", "venue", "start_before", "limit"} {
		assert.Contains(t, verr.Fields, f)
	}
}

func TestAssignmentFilter(t *testing.T) {
	t.Run("Usage lookup encoding", func(t *testing.T) {
		active := true
		one := 1
		v := AssignmentFilter{Part: int32p(12), Active: &active, ListOptions: ListOptions{Limit: &one}}.Values()
		assert.Equal(t, url.Values{"part": {"12"}, "active": {"true"}, "limit": {"1"}}, v)
	})

	t.Run("Only active", func(t *testing.T) {
		f, err := ParseAssignmentFilter(url.Values{"in_use": {"1"}})
		require.NoError(t, err)
		assert.True(t, f.OnlyActive())

		f, err = ParseAssignmentFilter(url.Values{"active": {"false"}})
		require.NoError(t, err)
		assert.False(t, f.OnlyActive())
		assert.False(t, f.Paginated())
	})

	t.Run("Bad boolean", func(t *testing.T) {
		_, err := ParseAssignmentFilter(url.Values{"active": {"perhaps"}})
		assert.True(t, IsValidationError(err))
	})
}

func TestRentalOrderFilter(t *testing.T) {
	f, err := ParseRentalOrderFilter(url.Values{
		"overdue":            {"false"},
		"customer":           {"4"},
		"rental_end_before":  {"2024-07-01"},
		"rental_start_after": {"2024-06-01T08:00:00+02:00"},
	}, time.UTC)
	require.NoError(t, err)
	require.NotNil(t, f.Overdue)
	assert.False(t, *f.Overdue)
	assert.Equal(t, int32(4), *f.Customer)
	assert.True(t, f.RentalEndBefore.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, f.RentalStartAfter.Equal(time.Date(2024, 6, 1, 6, 0, 0, 0, time.UTC)))
}

func TestCatalogAndLineFilters(t *testing.T) {
	active := false
	assert.Equal(t, "false", CatalogFilter{Active: &active}.Values().Get("active"))

	f, err := ParseRentalLineFilter(url.Values{"order": {"7"}, "asset": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, int32(7), *f.Order)
	assert.Equal(t, int32(2), *f.Asset)
}

package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32p(v int32) *int32 { return &v }
func intp(v int) *int       { return &v }

func TestDefaultAssignmentDates(t *testing.T) {
	start := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)

	t.Run("Late night takedown moves check-in to 02:00 next day", func(t *testing.T) {
		dates := DefaultAssignmentDates(Event{StartDatetime: start, EndDatetime: end, LateNightTakedown: true}, time.UTC)
		require.NotNil(t, dates.CheckedOutAt)
		require.NotNil(t, dates.CheckedInAt)
		assert.True(t, dates.CheckedOutAt.Equal(start))
		assert.True(t, dates.CheckedInAt.Equal(time.Date(2024, 6, 2, 2, 0, 0, 0, time.UTC)))
	})

	t.Run("Local day is used", func(t *testing.T) {
		loc := time.FixedZone("EDT", -4*3600)
		dates := DefaultAssignmentDates(Event{StartDatetime: start, EndDatetime: end, LateNightTakedown: true}, loc)
		require.NotNil(t, dates.CheckedInAt)
		assert.Equal(t, time.Date(2024, 6, 2, 2, 0, 0, 0, loc), *dates.CheckedInAt)
	})

	t.Run("Minutes and seconds are zeroed", func(t *testing.T) {
		odd := time.Date(2024, 6, 1, 23, 47, 12, 99, time.UTC)
		dates := DefaultAssignmentDates(Event{StartDatetime: start, EndDatetime: odd, LateNightTakedown: true}, time.UTC)
		assert.Equal(t, 0, dates.CheckedInAt.Minute())
		assert.Equal(t, 0, dates.CheckedInAt.Second())
		assert.Equal(t, 0, dates.CheckedInAt.Nanosecond())
	})

	t.Run("Without takedown check-in is the end", func(t *testing.T) {
		dates := DefaultAssignmentDates(Event{StartDatetime: start, EndDatetime: end}, time.UTC)
		assert.True(t, dates.CheckedInAt.Equal(end))
	})

	t.Run("No end means no check-in", func(t *testing.T) {
		dates := DefaultAssignmentDates(Event{StartDatetime: start, LateNightTakedown: true}, time.UTC)
		assert.NotNil(t, dates.CheckedOutAt)
		assert.Nil(t, dates.CheckedInAt)
	})

	t.Run("No start means no check-out", func(t *testing.T) {
		dates := DefaultAssignmentDates(Event{EndDatetime: end}, time.UTC)
		assert.Nil(t, dates.CheckedOutAt)
	})
}

func TestFurnitureAssignmentValidate(t *testing.T) {
	out := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	in := out.Add(-time.Hour)

	a := FurnitureAssignment{EventID: 1, Quantity: 0, Status: AssignmentStatusReserved, CheckedOutAt: &out, CheckedInAt: &in}
	err := a.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "quantity")
	assert.Contains(t, verr.Fields, "part")
	assert.Contains(t, verr.Fields, "checked_in_at")

	a = FurnitureAssignment{EventID: 1, PartID: int32p(3), Quantity: 2, Status: AssignmentStatusReserved}
	assert.NoError(t, a.Validate())
}

func TestAssignmentInputMerge(t *testing.T) {
	t.Run("Defaults on create", func(t *testing.T) {
		a := AssignmentInput{Event: 1, Part: int32p(5)}.Assignment()
		assert.Equal(t, 1, a.Quantity)
		assert.Equal(t, AssignmentStatusReserved, a.Status)
	})

	t.Run("Merge adds quantity and appends notes", func(t *testing.T) {
		existing := FurnitureAssignment{EventID: 1, PartID: int32p(5), ItemID: int32p(9), Quantity: 2, Status: AssignmentStatusReserved, Notes: "first"}

		var in AssignmentInput
		require.NoError(t, json.Unmarshal([]byte(`{"event":1,"part":5,"quantity":3,"status":20,"notes":" second "}`), &in))
		in.MergeInto(&existing)

		assert.Equal(t, 5, existing.Quantity)
		assert.Equal(t, AssignmentStatusInUse, existing.Status)
		assert.Equal(t, "first\nsecond", existing.Notes)
		assert.Nil(t, existing.ItemID)
		assert.True(t, existing.UpdatedExisting)
	})

	t.Run("Merge leaves omitted fields alone and clears explicit nulls", func(t *testing.T) {
		out := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
		existing := FurnitureAssignment{Quantity: 2, Status: AssignmentStatusInUse, CheckedOutAt: &out, CheckedInAt: &out}

		var in AssignmentInput
		require.NoError(t, json.Unmarshal([]byte(`{"event":1,"part":5,"checked_in_at":null}`), &in))
		in.MergeInto(&existing)

		assert.Equal(t, 2, existing.Quantity)
		assert.Equal(t, AssignmentStatusInUse, existing.Status)
		assert.NotNil(t, existing.CheckedOutAt)
		assert.Nil(t, existing.CheckedInAt)
	})
}

func TestAssignmentPatchApply(t *testing.T) {
	now := time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC)

	t.Run("Mark returned stamps check-in", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusInUse}
		err := AssignmentPatch{Status: Some(AssignmentStatusReturned)}.Apply(&a, now)
		require.NoError(t, err)
		assert.Equal(t, AssignmentStatusReturned, a.Status)
		require.NotNil(t, a.CheckedInAt)
		assert.True(t, a.CheckedInAt.Equal(now))
	})

	t.Run("Supplied check-in is kept", func(t *testing.T) {
		in := now.Add(-time.Hour)
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusReserved}
		err := AssignmentPatch{Status: Some(AssignmentStatusReturned), CheckedInAt: Some(in)}.Apply(&a, now)
		require.NoError(t, err)
		assert.True(t, a.CheckedInAt.Equal(in))
	})

	t.Run("Returned row can be put back in use", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusReturned}
		require.NoError(t, AssignmentPatch{Status: Some(AssignmentStatusInUse)}.Apply(&a, now))
		assert.Equal(t, AssignmentStatusInUse, a.Status)
	})

	t.Run("In use row can go back to reserved", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusInUse}
		require.NoError(t, AssignmentPatch{Status: Some(AssignmentStatusReserved)}.Apply(&a, now))
		assert.Equal(t, AssignmentStatusReserved, a.Status)
	})

	t.Run("Part without item drops the item link", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, ItemID: int32p(4), Quantity: 1, Status: AssignmentStatusReserved}
		require.NoError(t, AssignmentPatch{Part: Some(int32(9))}.Apply(&a, now))
		assert.Equal(t, int32p(9), a.PartID)
		assert.Nil(t, a.ItemID)
	})

	t.Run("Part with item keeps both", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, ItemID: int32p(4), Quantity: 1, Status: AssignmentStatusReserved}
		require.NoError(t, AssignmentPatch{Part: Some(int32(9)), Item: Some(int32(5))}.Apply(&a, now))
		assert.Equal(t, int32p(5), a.ItemID)
	})

	t.Run("Unknown status", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusReserved}
		err := AssignmentPatch{Status: Some(AssignmentStatus(99))}.Apply(&a, now)
		assert.True(t, IsValidationError(err))
	})

	t.Run("Quantity must stay positive", func(t *testing.T) {
		a := FurnitureAssignment{EventID: 1, PartID: int32p(1), Quantity: 1, Status: AssignmentStatusReserved}
		err := AssignmentPatch{Quantity: Some(0)}.Apply(&a, now)
		assert.True(t, IsValidationError(err))
	})
}

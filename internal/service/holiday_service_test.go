package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHolidayService_AddListRemove(t *testing.T) {
	h := newHarness(t, domain.DefaultSchedulingConfig())
	ctx := context.Background()

	added, err := h.holidays.Add(ctx, time.Date(2026, 7, 1, 15, 30, 0, 0, time.UTC), "  Office move ")
	require.NoError(t, err)
	assert.Equal(t, testutil.Day("2026-07-01"), added.Date, "time of day is dropped")
	assert.Equal(t, "Office move", added.Label)

	list, err := h.holidays.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, added.ID, list[0].ID)

	require.NoError(t, h.holidays.Remove(ctx, added.ID))
	list, err = h.holidays.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHolidayService_AddRejectsDuplicateAndZeroDate(t *testing.T) {
	h := newHarness(t, domain.DefaultSchedulingConfig())
	ctx := context.Background()

	_, err := h.holidays.Add(ctx, testutil.Day("2026-07-01"), "First")
	require.NoError(t, err)
	_, err = h.holidays.Add(ctx, testutil.Day("2026-07-01"), "Second")
	assert.Error(t, err)

	_, err = h.holidays.Add(ctx, time.Time{}, "Nothing")
	var pe *contract.PlanError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, contract.PlanErrInvalidInput, pe.Code)
}

func TestHolidayService_SeedIsIdempotent(t *testing.T) {
	h := newHarness(t, domain.DefaultSchedulingConfig())
	ctx := context.Background()
	_, err := h.holidays.Add(ctx, testutil.Day("2026-12-25"), "Already here")
	require.NoError(t, err)

	n, err := h.holidays.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	n, err = h.holidays.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := h.holidays.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 8)
	for _, hol := range list {
		if hol.Date.Equal(testutil.Day("2026-12-25")) {
			assert.Equal(t, "Already here", hol.Label, "seeding keeps existing labels")
		}
	}
}

func TestHolidayService_SeededDaysBlockScheduling(t *testing.T) {
	h := newHarness(t, domain.DefaultSchedulingConfig())
	_, err := h.holidays.Seed(context.Background())
	require.NoError(t, err)
	site := h.createSite(t, testutil.NewTestSite("Depot", testutil.WithBooked(testutil.Day("2026-04-02"))))

	resp := h.planAt(t, testNow)
	pre := scheduledStep(t, resp, site.ID, domain.TaskPreWork)
	assert.Equal(t, testutil.Day("2026-04-02"), pre.Start)
	assert.Equal(t, testutil.Day("2026-04-07"), pre.Finish, "Good Friday and Easter Monday are skipped")
}

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel_mess_backend/internal/models"
	"hostel_mess_backend/internal/repositories"
	"hostel_mess_backend/internal/services"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// stubOrderRepo records which dates the snapshot job asks about and serves
// canned counts. The unused repository methods exist only to satisfy the
// interface.
type stubOrderRepo struct {
	counts   map[string]models.DailyMealCounts
	askedFor []string
	countErr error
}

func (r *stubOrderRepo) CountMealsForDate(mealDate time.Time) (models.DailyMealCounts, error) {
	date := mealDate.Format("2006-01-02")
	r.askedFor = append(r.askedFor, date)
	if r.countErr != nil {
		return models.DailyMealCounts{}, r.countErr
	}
	counts := r.counts[date]
	counts.Date = date
	return counts, nil
}

func (r *stubOrderRepo) CreateMealOrder(repositories.SQLExecutor, *models.MealOrder) (*models.MealOrder, error) {
	return nil, repositories.ErrDatabaseError
}

func (r *stubOrderRepo) GetMealOrderByID(int64) (*models.MealOrder, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubOrderRepo) GetMealOrderForSlot(int64, time.Time, models.MealType) (*models.MealOrder, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubOrderRepo) GetMealOrders(int64, models.MealOrderFilters) ([]models.MealOrder, error) {
	return nil, nil
}

func (r *stubOrderRepo) UpdateQuantity(repositories.SQLExecutor, int64, int, int, float64) (*models.MealOrder, error) {
	return nil, repositories.ErrNotFound
}

func (r *stubOrderRepo) SetPaused(repositories.SQLExecutor, int64, bool) error {
	return repositories.ErrNotFound
}

func (r *stubOrderRepo) DeleteMealOrder(repositories.SQLExecutor, int64) error {
	return repositories.ErrNotFound
}

func (r *stubOrderRepo) GetMonthlySummary(int64, int, int) (*models.MonthlySummary, error) {
	return nil, repositories.ErrDatabaseError
}

type capturingKitchen struct {
	sent    []models.DailyMealCounts
	sendErr error
}

func (c *capturingKitchen) SendDailySnapshot(_ context.Context, counts models.DailyMealCounts) error {
	c.sent = append(c.sent, counts)
	return c.sendErr
}

func TestSendCutoffSnapshotTargetsTomorrow(t *testing.T) {
	// At the 22:00 run, ordering for the next day has just closed, so the
	// snapshot covers tomorrow in the clock's own location.
	east := time.FixedZone("UTC+5", 5*60*60)
	clock := fixedClock{now: time.Date(2026, time.January, 17, 22, 0, 0, 0, east)}
	repo := &stubOrderRepo{counts: map[string]models.DailyMealCounts{
		"2026-01-18": {Breakfast: 12, Lunch: 30, Dinner: 25},
	}}
	kitchenClient := &capturingKitchen{}

	s := NewScheduler(repo, services.NewCutoffPolicy(clock), kitchenClient)
	s.sendCutoffSnapshot()

	require.Equal(t, []string{"2026-01-18"}, repo.askedFor)
	require.Len(t, kitchenClient.sent, 1)
	sent := kitchenClient.sent[0]
	assert.Equal(t, "2026-01-18", sent.Date)
	assert.Equal(t, 12, sent.Breakfast)
	assert.Equal(t, 30, sent.Lunch)
	assert.Equal(t, 25, sent.Dinner)
	assert.Equal(t, 67, sent.Total())
}

func TestSendCutoffSnapshotWithoutKitchenClient(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, time.January, 17, 22, 0, 0, 0, time.Local)}
	repo := &stubOrderRepo{counts: map[string]models.DailyMealCounts{}}

	s := NewScheduler(repo, services.NewCutoffPolicy(clock), nil)
	s.sendCutoffSnapshot()

	// The counts are still collected and logged; there is just no push.
	assert.Equal(t, []string{"2026-01-18"}, repo.askedFor)
}

func TestSendCutoffSnapshotCountFailure(t *testing.T) {
	clock := fixedClock{now: time.Date(2026, time.January, 17, 22, 0, 0, 0, time.Local)}
	repo := &stubOrderRepo{countErr: errors.New("connection refused")}
	kitchenClient := &capturingKitchen{}

	s := NewScheduler(repo, services.NewCutoffPolicy(clock), kitchenClient)
	s.sendCutoffSnapshot()

	assert.Empty(t, kitchenClient.sent, "a failed count must not push a snapshot")
}

package repository

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Conversly/analytics-dashboard/internal/loaders"
	"github.com/Conversly/analytics-dashboard/internal/types"
	"github.com/Conversly/analytics-dashboard/internal/utils"
	"go.uber.org/zap"
)

// DefaultChartMetrics seeds a user's charts on first access.
var DefaultChartMetrics = []struct {
	Name  string
	Value float64
}{
	{Name: "Total Calls", Value: 1247},
	{Name: "Successful Calls", Value: 1089},
	{Name: "Failed Calls", Value: 158},
	{Name: "Avg Duration (sec)", Value: 245},
	{Name: "Customer Satisfaction", Value: 87},
}

const callAnalyticsDays = 7

// AnalyticsRepository owns chart metrics and the daily call analytics series.
type AnalyticsRepository struct {
	store loaders.Store
	mu    sync.Mutex
	rnd   *rand.Rand
	now   func() time.Time
}

type AnalyticsOption func(*AnalyticsRepository)

// WithRand fixes the random source used to generate call analytics.
func WithRand(rnd *rand.Rand) AnalyticsOption {
	return func(r *AnalyticsRepository) { r.rnd = rnd }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) AnalyticsOption {
	return func(r *AnalyticsRepository) { r.now = now }
}

func NewAnalyticsRepository(store loaders.Store, opts ...AnalyticsOption) *AnalyticsRepository {
	r := &AnalyticsRepository{
		store: store,
		rnd:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ChartDataForUser returns the user's metrics, creating the defaults on first access.
func (r *AnalyticsRepository) ChartDataForUser(ctx context.Context, userID string) ([]types.ChartData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loaders.LoadJSON(ctx, r.store, loaders.KeyChartData, []types.ChartData{})
	if err != nil {
		return nil, err
	}
	userData := []types.ChartData{}
	for _, d := range all {
		if d.UserID == userID {
			userData = append(userData, d)
		}
	}
	if len(userData) > 0 {
		return userData, nil
	}

	now := r.now().UTC()
	for _, metric := range DefaultChartMetrics {
		userData = append(userData, types.ChartData{
			ID:        utils.NewID(""),
			UserID:    userID,
			Name:      metric.Name,
			Value:     metric.Value,
			UpdatedAt: now,
		})
	}

	if err := loaders.SetJSON(ctx, r.store, loaders.KeyChartData, append(all, userData...)); err != nil {
		return nil, err
	}
	utils.Zlog.Info("Seeded default chart data", zap.String("userId", userID))
	return userData, nil
}

// UpdateChartValue shifts the current value into PreviousValue and applies
// newValue. It returns nil when the chart does not belong to the user.
func (r *AnalyticsRepository) UpdateChartValue(ctx context.Context, userID, chartID string, newValue float64) (*types.ChartData, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loaders.LoadJSON(ctx, r.store, loaders.KeyChartData, []types.ChartData{})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID != chartID || all[i].UserID != userID {
			continue
		}

		previous := all[i].Value
		all[i].PreviousValue = &previous
		all[i].Value = newValue
		all[i].UpdatedAt = r.now().UTC()

		if err := loaders.SetJSON(ctx, r.store, loaders.KeyChartData, all); err != nil {
			return nil, err
		}
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

// CallAnalyticsForUser returns seven daily rows ending today, generating them on first access.
func (r *AnalyticsRepository) CallAnalyticsForUser(ctx context.Context, userID string) ([]types.CallAnalytics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := loaders.LoadJSON(ctx, r.store, loaders.KeyCallAnalytics, []types.CallAnalytics{})
	if err != nil {
		return nil, err
	}
	userRows := []types.CallAnalytics{}
	for _, a := range all {
		if a.UserID == userID {
			userRows = append(userRows, a)
		}
	}
	if len(userRows) > 0 {
		return userRows, nil
	}

	today := r.now().UTC()
	for i := 0; i < callAnalyticsDays; i++ {
		date := today.AddDate(0, 0, -(callAnalyticsDays - 1 - i))
		total := r.rnd.IntN(200) + 100
		successRate := 0.8 + r.rnd.Float64()*0.15

		userRows = append(userRows, types.CallAnalytics{
			ID:              utils.NewID(""),
			UserID:          userID,
			Date:            date.Format(time.DateOnly),
			TotalCalls:      total,
			SuccessfulCalls: int(float64(total) * successRate),
			FailedCalls:     int(float64(total) * (1 - successRate)),
			AvgDuration:     r.rnd.IntN(180) + 120,
			Satisfaction:    r.rnd.IntN(20) + 80,
		})
	}

	if err := loaders.SetJSON(ctx, r.store, loaders.KeyCallAnalytics, append(all, userRows...)); err != nil {
		return nil, err
	}
	return userRows, nil
}

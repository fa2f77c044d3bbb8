package dashboard

import (
	"context"

	"github.com/Conversly/analytics-dashboard/internal/client"
	"github.com/Conversly/analytics-dashboard/internal/repository"
	"github.com/Conversly/analytics-dashboard/internal/types"
)

type AnalyticsService struct {
	api  *client.Client
	repo *repository.AnalyticsRepository
}

func NewAnalyticsService(api *client.Client, repo *repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{api: api, repo: repo}
}

func (s *AnalyticsService) ChartData(ctx context.Context, userID string) ([]types.ChartData, error) {
	return client.WithFallback(ctx, "analytics.chart",
		func(ctx context.Context) ([]types.ChartData, error) {
			var resp types.ChartDataListResponse
			if err := s.api.Get(ctx, "/api/analytics/chart", &resp, client.WithQuery("userId", userID)); err != nil {
				return nil, err
			}
			return resp.ChartData, nil
		},
		func(ctx context.Context) ([]types.ChartData, error) {
			return s.repo.ChartDataForUser(ctx, userID)
		})
}

// UpdateChartValue returns nil when the user has no such chart.
func (s *AnalyticsService) UpdateChartValue(ctx context.Context, userID, chartID string, value float64) (*types.ChartData, error) {
	return client.WithFallback(ctx, "analytics.update",
		func(ctx context.Context) (*types.ChartData, error) {
			req := types.ChartUpdateRequest{UserID: userID, ChartID: chartID, NewValue: &value}
			var resp types.ChartDataResponse
			if err := s.api.Put(ctx, "/api/analytics/chart", req, &resp); err != nil {
				return nil, err
			}
			return &resp.ChartData, nil
		},
		func(ctx context.Context) (*types.ChartData, error) {
			return s.repo.UpdateChartValue(ctx, userID, chartID, value)
		})
}

func (s *AnalyticsService) CallAnalytics(ctx context.Context, userID string) ([]types.CallAnalytics, error) {
	return client.WithFallback(ctx, "analytics.calls",
		func(ctx context.Context) ([]types.CallAnalytics, error) {
			var resp types.CallAnalyticsResponse
			if err := s.api.Get(ctx, "/api/analytics/calls", &resp, client.WithQuery("userId", userID)); err != nil {
				return nil, err
			}
			return resp.CallAnalytics, nil
		},
		func(ctx context.Context) ([]types.CallAnalytics, error) {
			return s.repo.CallAnalyticsForUser(ctx, userID)
		})
}

package dashboard

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/Conversly/analytics-dashboard/internal/types"
)

// ChartUpdater applies a new metric value.
type ChartUpdater interface {
	UpdateChartValue(ctx context.Context, userID, chartID string, value float64) (*types.ChartData, error)
}

// ChartEdit is a parsed, not yet applied edit of one metric.
type ChartEdit struct {
	Chart    types.ChartData
	NewValue float64
}

// ParseChartValue accepts a non-negative finite number.
func ParseChartValue(input string) (float64, error) {
	input = strings.TrimSpace(input)
	value, err := strconv.ParseFloat(input, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &types.ValidationError{Field: "value", Message: "please enter a valid number"}
	}
	if value < 0 {
		return 0, &types.ValidationError{Field: "value", Message: "value cannot be negative"}
	}
	return value, nil
}

// BeginEdit validates input against chart. Nothing is written.
func BeginEdit(chart types.ChartData, input string) (*ChartEdit, error) {
	value, err := ParseChartValue(input)
	if err != nil {
		return nil, err
	}
	return &ChartEdit{Chart: chart, NewValue: value}, nil
}

// NeedsConfirmation reports whether the edit would overwrite a value that was
// itself the result of an earlier edit.
func (e *ChartEdit) NeedsConfirmation() bool {
	return e.Chart.HasPrevious()
}

// Commit applies the edit. An unconfirmed overwrite returns
// types.ErrConfirmationRequired and leaves the chart untouched.
func (e *ChartEdit) Commit(ctx context.Context, updater ChartUpdater, confirmed bool) (*types.ChartData, error) {
	if e.NeedsConfirmation() && !confirmed {
		return nil, types.ErrConfirmationRequired
	}
	updated, err := updater.UpdateChartValue(ctx, e.Chart.UserID, e.Chart.ID, e.NewValue)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, types.ErrNotFound
	}
	return updated, nil
}

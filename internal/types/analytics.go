package types

import "time"

type ChartData struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Name          string    `json:"name"`
	Value         float64   `json:"value"`
	PreviousValue *float64  `json:"previousValue,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// HasPrevious reports whether the metric was edited before.
func (c ChartData) HasPrevious() bool {
	return c.PreviousValue != nil
}

type CallAnalytics struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	Date            string `json:"date"`
	TotalCalls      int    `json:"totalCalls"`
	SuccessfulCalls int    `json:"successfulCalls"`
	FailedCalls     int    `json:"failedCalls"`
	AvgDuration     int    `json:"avgDuration"`
	Satisfaction    int    `json:"satisfaction"`
}

type ChartUpdateRequest struct {
	UserID   string   `json:"userId" binding:"required"`
	ChartID  string   `json:"chartId" binding:"required"`
	NewValue *float64 `json:"newValue" binding:"required"`
}

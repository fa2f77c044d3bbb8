package dashboard

import (
	"fmt"

	"github.com/Conversly/analytics-dashboard/internal/types"
)

// Metrics where a decrease is good news.
var lowerIsBetter = map[string]bool{
	"Failed Calls": true,
}

type StatCard struct {
	Name      string
	Value     float64
	HasChange bool
	Change    float64
	// ChangePercent is formatted with one decimal, "0" without a positive base.
	ChangePercent string
	// Improved is true when the change moved in the metric's good direction.
	Improved bool
}

func Summarize(charts []types.ChartData) []StatCard {
	cards := make([]StatCard, 0, len(charts))
	for _, chart := range charts {
		card := StatCard{Name: chart.Name, Value: chart.Value, ChangePercent: "0"}
		if chart.HasPrevious() {
			prev := *chart.PreviousValue
			card.HasChange = true
			card.Change = chart.Value - prev
			if prev > 0 {
				card.ChangePercent = fmt.Sprintf("%.1f", card.Change/prev*100)
			}
		}
		rising := card.Change >= 0
		if lowerIsBetter[chart.Name] {
			card.Improved = !rising
		} else {
			card.Improved = rising
		}
		cards = append(cards, card)
	}
	return cards
}

// Label renders the change the way the dashboard shows it, e.g. "+12.5%".
func (c StatCard) Label() string {
	if !c.HasChange {
		return ""
	}
	sign := ""
	if c.Change >= 0 {
		sign = "+"
	}
	return sign + c.ChangePercent + "% from previous"
}

package report

import (
	"seomonitor-backend/internal/model"
)

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Trend compares two rankings, lower is better so a ranking going from 15 to 8 is up
// by 7. Missing rankings on either side are flat with no change.
func Trend(previous, current *int) (Direction, int) {
	if previous == nil || current == nil {
		return DirectionFlat, 0
	}
	change := *previous - *current
	switch {
	case change > 0:
		return DirectionUp, change
	case change < 0:
		return DirectionDown, change
	}
	return DirectionFlat, 0
}

// WindowTrend is the trend between the first and the last ranked point of a history
// window, unranked points are skipped.
func WindowTrend(points []model.HistoryPoint) (Direction, int) {
	var first, last *int
	for _, p := range points {
		if p.Ranking == nil {
			continue
		}
		if first == nil {
			first = p.Ranking
		}
		last = p.Ranking
	}
	return Trend(first, last)
}

func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	}
	return "→"
}

func (d Direction) Color() string {
	switch d {
	case DirectionUp:
		return "green"
	case DirectionDown:
		return "red"
	}
	return "gray"
}

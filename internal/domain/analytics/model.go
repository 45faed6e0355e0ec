package analytics

import (
	"errors"
	"strings"
)

const UncategorizedLabel = "Uncategorized"

var ErrInvalidTimeFrame = errors.New("invalid timeframe")

// TimeFrame limits spending to items updated within a recent window.
type TimeFrame string

const (
	TimeFrameAll     TimeFrame = ""
	TimeFrameWeek    TimeFrame = "week"
	TimeFrameMonth   TimeFrame = "month"
	TimeFrameQuarter TimeFrame = "quarter"
	TimeFrameYear    TimeFrame = "year"
)

func ParseTimeFrame(value string) (TimeFrame, error) {
	switch frame := TimeFrame(strings.ToLower(strings.TrimSpace(value))); frame {
	case TimeFrameAll, TimeFrameWeek, TimeFrameMonth, TimeFrameQuarter, TimeFrameYear:
		return frame, nil
	case "all":
		return TimeFrameAll, nil
	default:
		return "", ErrInvalidTimeFrame
	}
}

type Summary struct {
	TotalLists             int     `json:"total_lists"`
	ActiveLists            int     `json:"active_lists"`
	CompletedLists         int     `json:"completed_lists"`
	PurchasedItems         int     `json:"purchased_items"`
	TotalSpent             float64 `json:"total_spent"`
	CompletionRate         float64 `json:"completion_rate"`
	AverageItemsPerList    float64 `json:"average_items_per_list"`
	AverageListCost        float64 `json:"average_list_cost"`
	AverageMonthlySpending float64 `json:"average_monthly_spending"`
}

type CategorySpending struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
}

type MonthlySpending struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

package analytics

import (
	"sort"
	"time"

	"smartshopping-go/internal/domain/shopping"
)

// Service derives spending figures from a list snapshot. Only purchased items
// count as spent.
type Service struct {
	now      func() time.Time
	location *time.Location
}

func NewService(location *time.Location) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{now: time.Now, location: location}
}

func (s *Service) Summary(lists []shopping.List, frame TimeFrame) Summary {
	summary := Summary{TotalLists: len(lists)}

	totalItems := 0
	totalCost := 0.0
	for _, list := range lists {
		if list.IsCompleted {
			summary.CompletedLists++
		} else {
			summary.ActiveLists++
		}
		totalItems += len(list.Items)
		totalCost += list.TotalSpent
	}

	for _, item := range s.purchased(lists, frame) {
		summary.PurchasedItems++
		summary.TotalSpent += item.TotalPrice()
	}

	if len(lists) > 0 {
		count := float64(len(lists))
		summary.CompletionRate = float64(summary.CompletedLists) / count * 100
		summary.AverageItemsPerList = float64(totalItems) / count
		summary.AverageListCost = totalCost / count
	}

	monthly := s.MonthlySpending(lists, frame)
	if len(monthly) > 0 {
		total := 0.0
		for _, month := range monthly {
			total += month.Amount
		}
		summary.AverageMonthlySpending = total / float64(len(monthly))
	}

	return summary
}

// SpendingByCategory groups purchased items by category, largest first.
func (s *Service) SpendingByCategory(lists []shopping.List, frame TimeFrame) []CategorySpending {
	byCategory := make(map[string]*CategorySpending)
	for _, item := range s.purchased(lists, frame) {
		category := UncategorizedLabel
		if item.Category != nil {
			category = *item.Category
		}
		row, ok := byCategory[category]
		if !ok {
			row = &CategorySpending{Category: category}
			byCategory[category] = row
		}
		row.Amount += item.TotalPrice()
		row.Count++
	}

	rows := make([]CategorySpending, 0, len(byCategory))
	for _, row := range byCategory {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// MonthlySpending groups purchased items by the month of their last update,
// in calendar order. The same month of different years is merged.
func (s *Service) MonthlySpending(lists []shopping.List, frame TimeFrame) []MonthlySpending {
	var byMonth [12]MonthlySpending
	for _, item := range s.purchased(lists, frame) {
		month := item.UpdatedAt.In(s.location).Month()
		row := &byMonth[month-1]
		row.Amount += item.TotalPrice()
		row.Count++
	}

	rows := make([]MonthlySpending, 0, 12)
	for idx, row := range byMonth {
		if row.Count == 0 {
			continue
		}
		row.Month = time.Month(idx + 1).String()[:3]
		rows = append(rows, row)
	}
	return rows
}

func (s *Service) purchased(lists []shopping.List, frame TimeFrame) []shopping.Item {
	since, limited := s.since(frame)

	var items []shopping.Item
	for _, list := range lists {
		for _, item := range list.Items {
			if !item.IsPurchased {
				continue
			}
			if limited && item.UpdatedAt.Before(since) {
				continue
			}
			items = append(items, item)
		}
	}
	return items
}

func (s *Service) since(frame TimeFrame) (time.Time, bool) {
	now := s.now().In(s.location)
	switch frame {
	case TimeFrameWeek:
		return now.AddDate(0, 0, -7), true
	case TimeFrameMonth:
		return now.AddDate(0, -1, 0), true
	case TimeFrameQuarter:
		return now.AddDate(0, -3, 0), true
	case TimeFrameYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

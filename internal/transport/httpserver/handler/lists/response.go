package lists

import (
	listsdomain "smartshopping-go/internal/domain/lists"
	"smartshopping-go/internal/domain/shopping"
)

type itemResponse struct {
	shopping.Item
	TotalPrice float64 `json:"total_price"`
}

type listResponse struct {
	shopping.List
	Items          []itemResponse        `json:"items"`
	ItemCount      int                   `json:"item_count"`
	PurchasedCount int                   `json:"purchased_count"`
	Progress       float64               `json:"progress"`
	BudgetStatus   shopping.BudgetStatus `json:"budget_status"`
}

type listListResponse struct {
	Items   []listResponse `json:"items"`
	Total   int            `json:"total"`
	Fetched bool           `json:"fetched"`
	Error   *string        `json:"error"`
}

func toItemResponse(item shopping.Item) itemResponse {
	return itemResponse{Item: item, TotalPrice: item.TotalPrice()}
}

func toListResponse(list shopping.List) listResponse {
	items := make([]itemResponse, 0, len(list.Items))
	for _, item := range list.Items {
		items = append(items, toItemResponse(item))
	}
	return listResponse{
		List:           list,
		Items:          items,
		ItemCount:      len(list.Items),
		PurchasedCount: list.PurchasedCount(),
		Progress:       list.Progress(),
		BudgetStatus:   list.BudgetStatus(),
	}
}

func toListListResponse(snapshot listsdomain.Snapshot) listListResponse {
	items := make([]listResponse, 0, len(snapshot.Lists))
	for _, list := range snapshot.Lists {
		items = append(items, toListResponse(list))
	}
	response := listListResponse{
		Items:   items,
		Total:   len(items),
		Fetched: snapshot.Fetched,
	}
	if snapshot.Err != "" {
		message := snapshot.Err
		response.Error = &message
	}
	return response
}

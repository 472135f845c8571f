package http

import (
	"encoding/json"
	"fmt"

	"github.com/tair/food-waste/internal/inventory/usecase/command"
)

// flexibleValue accepts a JSON string or number and keeps its text.
// null and absent both leave it empty.
type flexibleValue string

func (v *flexibleValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = flexibleValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = flexibleValue(n.String())
		return nil
	}

	return fmt.Errorf("expected string or number, got %s", data)
}

type createItemRequest struct {
	ProductName flexibleValue `json:"productName"`
	Category    flexibleValue `json:"category"`
	Quantity    flexibleValue `json:"quantity"`
	ExpiryDate  flexibleValue `json:"expiryDate"`
	Price       flexibleValue `json:"price"`
	Location    flexibleValue `json:"location"`
	Status      flexibleValue `json:"status"`
}

func (r createItemRequest) toCommand() command.CreateItemCommand {
	return command.CreateItemCommand{
		ProductName: string(r.ProductName),
		Category:    string(r.Category),
		Quantity:    string(r.Quantity),
		ExpiryDate:  string(r.ExpiryDate),
		Price:       string(r.Price),
		Location:    string(r.Location),
		Status:      string(r.Status),
	}
}

package dto

import (
	"github.com/shopspring/decimal"

	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateItemRequest defines the payload for creating an inventory item.
type CreateItemRequest struct {
	Name             string          `json:"name" binding:"required"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	ExpenseAccountID *string         `json:"expenseAccountID,omitempty" binding:"omitempty,uuid"`
	RevenueAccountID *string         `json:"revenueAccountID,omitempty" binding:"omitempty,uuid"`
}

// UpdateItemRequest defines the payload for updating an inventory item.
type UpdateItemRequest struct {
	Name             *string          `json:"name,omitempty"`
	UnitPrice        *decimal.Decimal `json:"unitPrice,omitempty"`
	ExpenseAccountID *string          `json:"expenseAccountID,omitempty" binding:"omitempty,uuid"`
	RevenueAccountID *string          `json:"revenueAccountID,omitempty" binding:"omitempty,uuid"`
	IsActive         *bool            `json:"isActive,omitempty"`
}

// ItemResponse defines the data returned for an inventory item.
type ItemResponse struct {
	ItemID           string          `json:"itemID"`
	Name             string          `json:"name"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	ExpenseAccountID *string         `json:"expenseAccountID,omitempty"`
	RevenueAccountID *string         `json:"revenueAccountID,omitempty"`
	IsActive         bool            `json:"isActive"`
}

// ToItemResponse converts a domain.Item to ItemResponse.
func ToItemResponse(it *domain.Item) ItemResponse {
	return ItemResponse{
		ItemID:           it.ItemID,
		Name:             it.Name,
		UnitPrice:        it.UnitPrice,
		ExpenseAccountID: it.ExpenseAccountID,
		RevenueAccountID: it.RevenueAccountID,
		IsActive:         it.IsActive,
	}
}

// ToItemResponses converts a slice of domain.Item to []ItemResponse.
func ToItemResponses(items []domain.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i := range items {
		responses[i] = ToItemResponse(&items[i])
	}
	return responses
}

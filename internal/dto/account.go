package dto

import (
	"github.com/smallbooks/bookkeeping_app/internal/core/domain"
)

// CreateAccountRequest defines the payload for creating a chart-of-accounts entry.
type CreateAccountRequest struct {
	Code         string `json:"code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	AccountType  string `json:"accountType" binding:"required,accounttype"`
	IsBank       bool   `json:"isBank"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Description  string `json:"description"`
}

// UpdateAccountRequest defines the payload for updating an account.
// Code and type are intentionally absent: changing them would not retroactively
// alter posted history, so they stay fixed once created.
type UpdateAccountRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// SetAccountMappingRequest binds a posting role to an account.
type SetAccountMappingRequest struct {
	Role      string `json:"role" binding:"required"`
	AccountID string `json:"accountID" binding:"required,uuid"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID    string `json:"accountID"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	AccountType  string `json:"accountType"`
	NormalSide   string `json:"normalSide"`
	IsBank       bool   `json:"isBank"`
	CurrencyCode string `json:"currencyCode"`
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:    a.AccountID,
		Code:         a.Code,
		Name:         a.Name,
		AccountType:  string(a.AccountType),
		NormalSide:   string(a.AccountType.NormalBalanceSide()),
		IsBank:       a.IsBank,
		CurrencyCode: a.CurrencyCode,
		Description:  a.Description,
		IsActive:     a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}

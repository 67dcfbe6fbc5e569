package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	moneyScale         = 2
	moneyIntegerDigits = 10
)

var moneyLimit = decimal.New(1, moneyIntegerDigits)

// money enforces numeric(12,2): two fractional and ten integer digits
func (v *validator) money(field string, value *decimal.Decimal) {
	if value == nil {
		return
	}
	if value.Exponent() < -moneyScale && !value.Equal(value.Round(moneyScale)) {
		v.add(field, fmt.Sprintf("must have at most %d decimal places", moneyScale))
	}
	if value.Abs().GreaterThanOrEqual(moneyLimit) {
		v.add(field, fmt.Sprintf("must have at most %d integer digits", moneyIntegerDigits))
	}
}

func (v *validator) requiredMoney(field string, value *decimal.Decimal) {
	if value == nil {
		v.add(field, "is required")
		return
	}
	v.money(field, value)
}

// LineItem is one priced line of an estimate or invoice
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
}

func (v *validator) lineItems(field string, items []LineItem) {
	for i, item := range items {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		v.required(prefix+".description", item.Description)
		if item.Quantity.IsNegative() {
			v.add(prefix+".quantity", "must not be negative")
		}
		v.money(prefix+".unitPrice", &item.UnitPrice)
		v.money(prefix+".total", &item.Total)
	}
}

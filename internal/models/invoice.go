package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return true
	}
	return false
}

type InvoiceInput struct {
	Tenanted
	ProjectID     *int64           `json:"projectId" db:"project_id"`
	AccountID     *int64           `json:"accountId" db:"account_id"`
	InvoiceNumber string           `json:"invoiceNumber" db:"invoice_number"`
	LineItems     []LineItem       `json:"lineItems" db:"line_items"`
	Subtotal      *decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax           *decimal.Decimal `json:"tax" db:"tax"`
	Total         *decimal.Decimal `json:"total" db:"total"`
	Status        InvoiceStatus    `json:"status" db:"status"`
	DueDate       *time.Time       `json:"dueDate" db:"due_date"`
	PaidDate      *time.Time       `json:"paidDate" db:"paid_date"`
}

type Invoice struct {
	ID int64 `json:"id" db:"id"`
	InvoiceInput
	Timestamps
}

type InvoicePatch struct {
	ProjectID     *int64           `json:"projectId"`
	AccountID     *int64           `json:"accountId"`
	InvoiceNumber *string          `json:"invoiceNumber"`
	LineItems     *[]LineItem      `json:"lineItems"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	Tax           *decimal.Decimal `json:"tax"`
	Total         *decimal.Decimal `json:"total"`
	Status        *InvoiceStatus   `json:"status"`
	DueDate       *time.Time       `json:"dueDate"`
	PaidDate      *time.Time       `json:"paidDate"`
}

func (in *InvoiceInput) Defaults() {
	if in.Status == "" {
		in.Status = InvoiceStatusDraft
	}
}

func (in *InvoiceInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *InvoiceInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("projectId", in.ProjectID)
	if in.AccountID == nil {
		v.add("accountId", "is required")
	} else {
		v.positiveID("accountId", in.AccountID)
	}
	v.required("invoiceNumber", in.InvoiceNumber)
	v.lineItems("lineItems", in.LineItems)
	v.requiredMoney("subtotal", in.Subtotal)
	v.money("tax", in.Tax)
	v.requiredMoney("total", in.Total)
	oneOf(v, "status", &in.Status)
}

func (in *InvoiceInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "project_id", Value: in.ProjectID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "invoice_number", Value: in.InvoiceNumber},
		{Column: "line_items", Value: in.LineItems},
		{Column: "subtotal", Value: in.Subtotal},
		{Column: "tax", Value: in.Tax},
		{Column: "total", Value: in.Total},
		{Column: "status", Value: in.Status},
		{Column: "due_date", Value: in.DueDate},
		{Column: "paid_date", Value: in.PaidDate},
	}
}

func (i *Invoice) Validate() error {
	v := &validator{}
	validateRecordID(v, i.ID)
	i.InvoiceInput.validate(v)
	return v.err()
}

func (p *InvoicePatch) Validate() error {
	v := &validator{}
	v.positiveID("projectId", p.ProjectID)
	v.positiveID("accountId", p.AccountID)
	v.requiredPtr("invoiceNumber", p.InvoiceNumber)
	if p.LineItems != nil {
		v.lineItems("lineItems", *p.LineItems)
	}
	v.money("subtotal", p.Subtotal)
	v.money("tax", p.Tax)
	v.money("total", p.Total)
	oneOf(v, "status", p.Status)
	return v.err()
}

func (p *InvoicePatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "project_id", p.ProjectID)
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "invoice_number", p.InvoiceNumber)
	patchField(&a, "line_items", p.LineItems)
	patchField(&a, "subtotal", p.Subtotal)
	patchField(&a, "tax", p.Tax)
	patchField(&a, "total", p.Total)
	patchField(&a, "status", p.Status)
	patchField(&a, "due_date", p.DueDate)
	patchField(&a, "paid_date", p.PaidDate)
	return a
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusRejected EstimateStatus = "rejected"
)

func (s EstimateStatus) Valid() bool {
	switch s {
	case EstimateStatusDraft, EstimateStatusSent, EstimateStatusAccepted, EstimateStatusRejected:
		return true
	}
	return false
}

type EstimateInput struct {
	Tenanted
	OpportunityID  *int64           `json:"opportunityId" db:"opportunity_id"`
	AccountID      *int64           `json:"accountId" db:"account_id"`
	EstimateNumber string           `json:"estimateNumber" db:"estimate_number"`
	Description    *string          `json:"description" db:"description"`
	LineItems      []LineItem       `json:"lineItems" db:"line_items"`
	Subtotal       *decimal.Decimal `json:"subtotal" db:"subtotal"`
	Tax            *decimal.Decimal `json:"tax" db:"tax"`
	Total          *decimal.Decimal `json:"total" db:"total"`
	Status         EstimateStatus   `json:"status" db:"status"`
	ValidUntil     *time.Time       `json:"validUntil" db:"valid_until"`
	CreatedBy      *int64           `json:"createdBy" db:"created_by"`
}

type Estimate struct {
	ID int64 `json:"id" db:"id"`
	EstimateInput
	Timestamps
}

type EstimatePatch struct {
	OpportunityID  *int64           `json:"opportunityId"`
	AccountID      *int64           `json:"accountId"`
	EstimateNumber *string          `json:"estimateNumber"`
	Description    *string          `json:"description"`
	LineItems      *[]LineItem      `json:"lineItems"`
	Subtotal       *decimal.Decimal `json:"subtotal"`
	Tax            *decimal.Decimal `json:"tax"`
	Total          *decimal.Decimal `json:"total"`
	Status         *EstimateStatus  `json:"status"`
	ValidUntil     *time.Time       `json:"validUntil"`
	CreatedBy      *int64           `json:"createdBy"`
}

func (in *EstimateInput) Defaults() {
	if in.Status == "" {
		in.Status = EstimateStatusDraft
	}
}

func (in *EstimateInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *EstimateInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("opportunityId", in.OpportunityID)
	if in.AccountID == nil {
		v.add("accountId", "is required")
	} else {
		v.positiveID("accountId", in.AccountID)
	}
	v.required("estimateNumber", in.EstimateNumber)
	v.lineItems("lineItems", in.LineItems)
	v.requiredMoney("subtotal", in.Subtotal)
	v.money("tax", in.Tax)
	v.requiredMoney("total", in.Total)
	oneOf(v, "status", &in.Status)
	v.positiveID("createdBy", in.CreatedBy)
}

func (in *EstimateInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "opportunity_id", Value: in.OpportunityID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "estimate_number", Value: in.EstimateNumber},
		{Column: "description", Value: in.Description},
		{Column: "line_items", Value: in.LineItems},
		{Column: "subtotal", Value: in.Subtotal},
		{Column: "tax", Value: in.Tax},
		{Column: "total", Value: in.Total},
		{Column: "status", Value: in.Status},
		{Column: "valid_until", Value: in.ValidUntil},
		{Column: "created_by", Value: in.CreatedBy},
	}
}

func (e *Estimate) Validate() error {
	v := &validator{}
	validateRecordID(v, e.ID)
	e.EstimateInput.validate(v)
	return v.err()
}

func (p *EstimatePatch) Validate() error {
	v := &validator{}
	v.positiveID("opportunityId", p.OpportunityID)
	v.positiveID("accountId", p.AccountID)
	v.requiredPtr("estimateNumber", p.EstimateNumber)
	if p.LineItems != nil {
		v.lineItems("lineItems", *p.LineItems)
	}
	v.money("subtotal", p.Subtotal)
	v.money("tax", p.Tax)
	v.money("total", p.Total)
	oneOf(v, "status", p.Status)
	v.positiveID("createdBy", p.CreatedBy)
	return v.err()
}

func (p *EstimatePatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "opportunity_id", p.OpportunityID)
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "estimate_number", p.EstimateNumber)
	patchField(&a, "description", p.Description)
	patchField(&a, "line_items", p.LineItems)
	patchField(&a, "subtotal", p.Subtotal)
	patchField(&a, "tax", p.Tax)
	patchField(&a, "total", p.Total)
	patchField(&a, "status", p.Status)
	patchField(&a, "valid_until", p.ValidUntil)
	patchField(&a, "created_by", p.CreatedBy)
	return a
}

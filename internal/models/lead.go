package models

import "github.com/shopspring/decimal"

type LeadStatus string

const (
	LeadStatusNew         LeadStatus = "new"
	LeadStatusContacted   LeadStatus = "contacted"
	LeadStatusQualified   LeadStatus = "qualified"
	LeadStatusUnqualified LeadStatus = "unqualified"
	LeadStatusConverted   LeadStatus = "converted"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusUnqualified, LeadStatusConverted:
		return true
	}
	return false
}

type LeadInput struct {
	Tenanted
	AccountID  *int64           `json:"accountId" db:"account_id"`
	ContactID  *int64           `json:"contactId" db:"contact_id"`
	Title      string           `json:"title" db:"title"`
	Source     *string          `json:"source" db:"source"`
	Status     LeadStatus       `json:"status" db:"status"`
	Value      *decimal.Decimal `json:"value" db:"value"`
	AssignedTo *int64           `json:"assignedTo" db:"assigned_to"`
}

type Lead struct {
	ID int64 `json:"id" db:"id"`
	LeadInput
	Timestamps
}

type LeadPatch struct {
	AccountID  *int64           `json:"accountId"`
	ContactID  *int64           `json:"contactId"`
	Title      *string          `json:"title"`
	Source     *string          `json:"source"`
	Status     *LeadStatus      `json:"status"`
	Value      *decimal.Decimal `json:"value"`
	AssignedTo *int64           `json:"assignedTo"`
}

func (in *LeadInput) Defaults() {
	if in.Status == "" {
		in.Status = LeadStatusNew
	}
}

func (in *LeadInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *LeadInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("accountId", in.AccountID)
	v.positiveID("contactId", in.ContactID)
	v.required("title", in.Title)
	oneOf(v, "status", &in.Status)
	v.money("value", in.Value)
	v.positiveID("assignedTo", in.AssignedTo)
}

func (in *LeadInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "contact_id", Value: in.ContactID},
		{Column: "title", Value: in.Title},
		{Column: "source", Value: in.Source},
		{Column: "status", Value: in.Status},
		{Column: "value", Value: in.Value},
		{Column: "assigned_to", Value: in.AssignedTo},
	}
}

func (l *Lead) Validate() error {
	v := &validator{}
	validateRecordID(v, l.ID)
	l.LeadInput.validate(v)
	return v.err()
}

func (p *LeadPatch) Validate() error {
	v := &validator{}
	v.positiveID("accountId", p.AccountID)
	v.positiveID("contactId", p.ContactID)
	v.requiredPtr("title", p.Title)
	oneOf(v, "status", p.Status)
	v.money("value", p.Value)
	v.positiveID("assignedTo", p.AssignedTo)
	return v.err()
}

func (p *LeadPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "contact_id", p.ContactID)
	patchField(&a, "title", p.Title)
	patchField(&a, "source", p.Source)
	patchField(&a, "status", p.Status)
	patchField(&a, "value", p.Value)
	patchField(&a, "assigned_to", p.AssignedTo)
	return a
}

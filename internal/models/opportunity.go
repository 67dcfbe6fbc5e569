package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OpportunityStage string

const (
	StageQualification OpportunityStage = "qualification"
	StageProposal      OpportunityStage = "proposal"
	StageNegotiation   OpportunityStage = "negotiation"
	StageClosedWon     OpportunityStage = "closed_won"
	StageClosedLost    OpportunityStage = "closed_lost"
)

func (s OpportunityStage) Valid() bool {
	switch s {
	case StageQualification, StageProposal, StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

type OpportunityInput struct {
	Tenanted
	LeadID            *int64           `json:"leadId" db:"lead_id"`
	AccountID         *int64           `json:"accountId" db:"account_id"`
	ContactID         *int64           `json:"contactId" db:"contact_id"`
	Title             string           `json:"title" db:"title"`
	Description       *string          `json:"description" db:"description"`
	Stage             OpportunityStage `json:"stage" db:"stage"`
	Value             *decimal.Decimal `json:"value" db:"value"`
	Probability       *int32           `json:"probability" db:"probability"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate" db:"expected_close_date"`
	AssignedTo        *int64           `json:"assignedTo" db:"assigned_to"`
	ClosedAt          *time.Time       `json:"closedAt" db:"closed_at"`
}

type Opportunity struct {
	ID int64 `json:"id" db:"id"`
	OpportunityInput
	Timestamps
}

type OpportunityPatch struct {
	LeadID            *int64            `json:"leadId"`
	AccountID         *int64            `json:"accountId"`
	ContactID         *int64            `json:"contactId"`
	Title             *string           `json:"title"`
	Description       *string           `json:"description"`
	Stage             *OpportunityStage `json:"stage"`
	Value             *decimal.Decimal  `json:"value"`
	Probability       *int32            `json:"probability"`
	ExpectedCloseDate *time.Time        `json:"expectedCloseDate"`
	AssignedTo        *int64            `json:"assignedTo"`
	ClosedAt          *time.Time        `json:"closedAt"`
}

func (in *OpportunityInput) Defaults() {
	if in.Stage == "" {
		in.Stage = StageQualification
	}
}

func (in *OpportunityInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *OpportunityInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("leadId", in.LeadID)
	v.positiveID("accountId", in.AccountID)
	v.positiveID("contactId", in.ContactID)
	v.required("title", in.Title)
	oneOf(v, "stage", &in.Stage)
	v.money("value", in.Value)
	v.intRange("probability", in.Probability, 0, 100)
	v.positiveID("assignedTo", in.AssignedTo)
}

func (in *OpportunityInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "lead_id", Value: in.LeadID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "contact_id", Value: in.ContactID},
		{Column: "title", Value: in.Title},
		{Column: "description", Value: in.Description},
		{Column: "stage", Value: in.Stage},
		{Column: "value", Value: in.Value},
		{Column: "probability", Value: in.Probability},
		{Column: "expected_close_date", Value: in.ExpectedCloseDate},
		{Column: "assigned_to", Value: in.AssignedTo},
		{Column: "closed_at", Value: in.ClosedAt},
	}
}

func (o *Opportunity) Validate() error {
	v := &validator{}
	validateRecordID(v, o.ID)
	o.OpportunityInput.validate(v)
	return v.err()
}

func (p *OpportunityPatch) Validate() error {
	v := &validator{}
	v.positiveID("leadId", p.LeadID)
	v.positiveID("accountId", p.AccountID)
	v.positiveID("contactId", p.ContactID)
	v.requiredPtr("title", p.Title)
	oneOf(v, "stage", p.Stage)
	v.money("value", p.Value)
	v.intRange("probability", p.Probability, 0, 100)
	v.positiveID("assignedTo", p.AssignedTo)
	return v.err()
}

func (p *OpportunityPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "lead_id", p.LeadID)
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "contact_id", p.ContactID)
	patchField(&a, "title", p.Title)
	patchField(&a, "description", p.Description)
	patchField(&a, "stage", p.Stage)
	patchField(&a, "value", p.Value)
	patchField(&a, "probability", p.Probability)
	patchField(&a, "expected_close_date", p.ExpectedCloseDate)
	patchField(&a, "assigned_to", p.AssignedTo)
	patchField(&a, "closed_at", p.ClosedAt)
	return a
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted, ProjectStatusCancelled:
		return true
	}
	return false
}

type ProjectInput struct {
	Tenanted
	OpportunityID    *int64           `json:"opportunityId" db:"opportunity_id"`
	AccountID        *int64           `json:"accountId" db:"account_id"`
	Name             string           `json:"name" db:"name"`
	Description      *string          `json:"description" db:"description"`
	Status           ProjectStatus    `json:"status" db:"status"`
	StartDate        *time.Time       `json:"startDate" db:"start_date"`
	EndDate          *time.Time       `json:"endDate" db:"end_date"`
	Budget           *decimal.Decimal `json:"budget" db:"budget"`
	ActualCost       *decimal.Decimal `json:"actualCost" db:"actual_cost"`
	ProjectManagerID *int64           `json:"projectManagerId" db:"project_manager_id"`
}

type Project struct {
	ID int64 `json:"id" db:"id"`
	ProjectInput
	Timestamps
}

type ProjectPatch struct {
	OpportunityID    *int64           `json:"opportunityId"`
	AccountID        *int64           `json:"accountId"`
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	Status           *ProjectStatus   `json:"status"`
	StartDate        *time.Time       `json:"startDate"`
	EndDate          *time.Time       `json:"endDate"`
	Budget           *decimal.Decimal `json:"budget"`
	ActualCost       *decimal.Decimal `json:"actualCost"`
	ProjectManagerID *int64           `json:"projectManagerId"`
}

func (in *ProjectInput) Defaults() {
	if in.Status == "" {
		in.Status = ProjectStatusPlanning
	}
}

func (in *ProjectInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *ProjectInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("opportunityId", in.OpportunityID)
	if in.AccountID == nil {
		v.add("accountId", "is required")
	} else {
		v.positiveID("accountId", in.AccountID)
	}
	v.required("name", in.Name)
	oneOf(v, "status", &in.Status)
	v.money("budget", in.Budget)
	v.money("actualCost", in.ActualCost)
	v.positiveID("projectManagerId", in.ProjectManagerID)
}

func (in *ProjectInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "opportunity_id", Value: in.OpportunityID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "name", Value: in.Name},
		{Column: "description", Value: in.Description},
		{Column: "status", Value: in.Status},
		{Column: "start_date", Value: in.StartDate},
		{Column: "end_date", Value: in.EndDate},
		{Column: "budget", Value: in.Budget},
		{Column: "actual_cost", Value: in.ActualCost},
		{Column: "project_manager_id", Value: in.ProjectManagerID},
	}
}

func (p *Project) Validate() error {
	v := &validator{}
	validateRecordID(v, p.ID)
	p.ProjectInput.validate(v)
	return v.err()
}

func (p *ProjectPatch) Validate() error {
	v := &validator{}
	v.positiveID("opportunityId", p.OpportunityID)
	v.positiveID("accountId", p.AccountID)
	v.requiredPtr("name", p.Name)
	oneOf(v, "status", p.Status)
	v.money("budget", p.Budget)
	v.money("actualCost", p.ActualCost)
	v.positiveID("projectManagerId", p.ProjectManagerID)
	return v.err()
}

func (p *ProjectPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "opportunity_id", p.OpportunityID)
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "name", p.Name)
	patchField(&a, "description", p.Description)
	patchField(&a, "status", p.Status)
	patchField(&a, "start_date", p.StartDate)
	patchField(&a, "end_date", p.EndDate)
	patchField(&a, "budget", p.Budget)
	patchField(&a, "actual_cost", p.ActualCost)
	patchField(&a, "project_manager_id", p.ProjectManagerID)
	return a
}

package entities

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"crmneon/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrEntityNotFound = errors.New("entity not found")

// Kind is one of the fixed set of CRM entities
type Kind int

const (
	Tenants Kind = iota + 1
	Users
	Accounts
	Contacts
	Leads
	Opportunities
	Projects
	Estimates
	Jobs
	Invoices
	Tasks
	Activities
)

var all = []Kind{Tenants, Users, Accounts, Contacts, Leads, Opportunities, Projects, Estimates, Jobs, Invoices, Tasks, Activities}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(all))
	for _, k := range all {
		d := Describe(k)
		m[d.Name] = d
	}
	return m
}()

func (k Kind) String() string {
	if k < Tenants || k > Activities {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return Describe(k).Name
}

// Descriptor is everything the repository needs to know about an entity
type Descriptor struct {
	Kind         Kind
	Name         string
	Table        string
	DisplayName  string
	PluralName   string
	AdminOnly    bool
	TenantColumn string
	HasUpdatedAt bool
	Columns      []string

	newInput func() models.Input
	newPatch func() models.Patch
	collect  func(pgx.Rows) ([]models.Record, error)
}

// Describe is the single dispatch point over every Kind
func Describe(k Kind) Descriptor {
	switch k {
	case Tenants:
		d := Descriptor{Kind: k, Name: "tenants", DisplayName: "tenant", PluralName: "tenants", AdminOnly: true, TenantColumn: "id"}
		return define[models.Tenant](d, func() models.Input { return &models.TenantInput{} }, func() models.Patch { return &models.TenantPatch{} })
	case Users:
		d := Descriptor{Kind: k, Name: "users", DisplayName: "user", PluralName: "users", AdminOnly: true}
		return define[models.User](d, func() models.Input { return &models.UserInput{} }, func() models.Patch { return &models.UserPatch{} })
	case Accounts:
		d := Descriptor{Kind: k, Name: "accounts", DisplayName: "account", PluralName: "accounts"}
		return define[models.Account](d, func() models.Input { return &models.AccountInput{} }, func() models.Patch { return &models.AccountPatch{} })
	case Contacts:
		d := Descriptor{Kind: k, Name: "contacts", DisplayName: "contact", PluralName: "contacts"}
		return define[models.Contact](d, func() models.Input { return &models.ContactInput{} }, func() models.Patch { return &models.ContactPatch{} })
	case Leads:
		d := Descriptor{Kind: k, Name: "leads", DisplayName: "lead", PluralName: "leads"}
		return define[models.Lead](d, func() models.Input { return &models.LeadInput{} }, func() models.Patch { return &models.LeadPatch{} })
	case Opportunities:
		d := Descriptor{Kind: k, Name: "opportunities", DisplayName: "opportunity", PluralName: "opportunities"}
		return define[models.Opportunity](d, func() models.Input { return &models.OpportunityInput{} }, func() models.Patch { return &models.OpportunityPatch{} })
	case Projects:
		d := Descriptor{Kind: k, Name: "projects", DisplayName: "project", PluralName: "projects"}
		return define[models.Project](d, func() models.Input { return &models.ProjectInput{} }, func() models.Patch { return &models.ProjectPatch{} })
	case Estimates:
		d := Descriptor{Kind: k, Name: "estimates", DisplayName: "estimate", PluralName: "estimates"}
		return define[models.Estimate](d, func() models.Input { return &models.EstimateInput{} }, func() models.Patch { return &models.EstimatePatch{} })
	case Jobs:
		d := Descriptor{Kind: k, Name: "jobs", DisplayName: "job", PluralName: "jobs"}
		return define[models.Job](d, func() models.Input { return &models.JobInput{} }, func() models.Patch { return &models.JobPatch{} })
	case Invoices:
		d := Descriptor{Kind: k, Name: "invoices", DisplayName: "invoice", PluralName: "invoices"}
		return define[models.Invoice](d, func() models.Input { return &models.InvoiceInput{} }, func() models.Patch { return &models.InvoicePatch{} })
	case Tasks:
		d := Descriptor{Kind: k, Name: "tasks", DisplayName: "task", PluralName: "tasks"}
		return define[models.Task](d, func() models.Input { return &models.TaskInput{} }, func() models.Patch { return &models.TaskPatch{} })
	case Activities:
		d := Descriptor{Kind: k, Name: "activities", DisplayName: "activity", PluralName: "activities"}
		return define[models.Activity](d, func() models.Input { return &models.ActivityInput{} }, func() models.Patch { return &models.ActivityPatch{} })
	}
	panic(fmt.Sprintf("entities: unknown kind %d", int(k)))
}

// Lookup resolves a URL entity name
func Lookup(name string) (Descriptor, error) {
	if d, ok := byName[name]; ok {
		return d, nil
	}
	return Descriptor{}, fmt.Errorf("%w: %q", ErrEntityNotFound, name)
}

package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueFields(t *testing.T, err error) []string {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	fields := make([]string, 0, len(vErr.Issues))
	for _, issue := range vErr.Issues {
		fields = append(fields, issue.Field)
	}
	return fields
}

func TestAccountInput_DefaultsAndValidate(t *testing.T) {
	in := &AccountInput{Tenanted: Tenanted{TenantID: 7}, Name: "Acme"}
	in.Defaults()

	assert.Equal(t, AccountTypeProspect, in.Type)
	assert.Equal(t, AccountStatusActive, in.Status)
	assert.NoError(t, in.Validate())
}

func TestAccountInput_Invalid(t *testing.T) {
	website := "not a url"
	in := &AccountInput{Type: "reseller", Status: AccountStatusActive, Website: &website}

	fields := issueFields(t, in.Validate())
	assert.ElementsMatch(t, []string{"tenantId", "name", "type", "website"}, fields)
}

func TestAccountInput_EmptyWebsiteAllowed(t *testing.T) {
	website := ""
	in := &AccountInput{Tenanted: Tenanted{TenantID: 1}, Name: "Acme", Website: &website}
	in.Defaults()
	assert.NoError(t, in.Validate())
}

func TestTenantInput_Slug(t *testing.T) {
	assert.NoError(t, (&TenantInput{Name: "Acme", Slug: "acme-co"}).Validate())

	fields := issueFields(t, (&TenantInput{Name: "Acme", Slug: "Acme Co"}).Validate())
	assert.Equal(t, []string{"slug"}, fields)

	fields = issueFields(t, (&TenantInput{}).Validate())
	assert.ElementsMatch(t, []string{"name", "slug"}, fields)
}

func TestUserInput_EmailAndAge(t *testing.T) {
	age := int32(0)
	in := &UserInput{Tenanted: Tenanted{TenantID: 1}, Name: "Ann", Email: "ann-at-example", Age: &age}
	in.Defaults()

	assert.Equal(t, UserRoleUser, in.Role)
	fields := issueFields(t, in.Validate())
	assert.ElementsMatch(t, []string{"email", "age"}, fields)
}

func TestContactInput_EmptyEmailAllowed(t *testing.T) {
	email := ""
	in := &ContactInput{Tenanted: Tenanted{TenantID: 1}, FirstName: "Ann", LastName: "Lee", Email: &email}
	in.Defaults()

	require.NotNil(t, in.IsPrimary)
	assert.False(t, *in.IsPrimary)
	assert.NoError(t, in.Validate())
}

func TestMoney_Limits(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"two decimals", "1234.56", true},
		{"trailing zero", "10.500", true},
		{"three decimals", "1.234", false},
		{"ten integer digits", "9999999999.99", true},
		{"eleven integer digits", "10000000000", false},
		{"negative", "-5.25", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decimal.RequireFromString(tt.value)
			v := &validator{}
			v.money("value", &d)
			if tt.ok {
				assert.NoError(t, v.err())
			} else {
				assert.Error(t, v.err())
			}
		})
	}
}

func TestEstimateInput_RequiredMoney(t *testing.T) {
	accountID := int64(3)
	in := &EstimateInput{Tenanted: Tenanted{TenantID: 1}, AccountID: &accountID, EstimateNumber: "EST-1"}
	in.Defaults()

	fields := issueFields(t, in.Validate())
	assert.ElementsMatch(t, []string{"subtotal", "total"}, fields)
}

func TestInvoiceInput_DecodesMoneyFromNumberOrString(t *testing.T) {
	payload := `{"accountId":3,"invoiceNumber":"INV-1","subtotal":100.5,"tax":"8.04","total":"108.54",
		"lineItems":[{"description":"Design","quantity":2,"unitPrice":"50.25","total":100.5}]}`

	var in InvoiceInput
	require.NoError(t, json.Unmarshal([]byte(payload), &in))
	in.BindTenant(9)
	in.Defaults()

	require.NoError(t, in.Validate())
	assert.Equal(t, int64(9), in.TenantID)
	assert.Equal(t, InvoiceStatusDraft, in.Status)
	assert.True(t, in.Subtotal.Equal(decimal.RequireFromString("100.50")))
	require.Len(t, in.LineItems, 1)
	assert.True(t, in.LineItems[0].UnitPrice.Equal(decimal.RequireFromString("50.25")))
}

func TestInvoiceInput_LineItemIssues(t *testing.T) {
	accountID := int64(3)
	amount := decimal.RequireFromString("1.00")
	in := &InvoiceInput{
		Tenanted:      Tenanted{TenantID: 1},
		AccountID:     &accountID,
		InvoiceNumber: "INV-2",
		Subtotal:      &amount,
		Total:         &amount,
		LineItems:     []LineItem{{Quantity: decimal.NewFromInt(-1), UnitPrice: amount, Total: amount}},
	}
	in.Defaults()

	fields := issueFields(t, in.Validate())
	assert.ElementsMatch(t, []string{"lineItems[0].description", "lineItems[0].quantity"}, fields)
}

func TestOpportunityInput_Probability(t *testing.T) {
	probability := int32(101)
	in := &OpportunityInput{Tenanted: Tenanted{TenantID: 1}, Title: "Renewal", Probability: &probability}
	in.Defaults()

	assert.Equal(t, StageQualification, in.Stage)
	assert.Equal(t, []string{"probability"}, issueFields(t, in.Validate()))
}

func TestRelatedTo_MustBePaired(t *testing.T) {
	kind := RelatedLead
	in := &TaskInput{Tenanted: Tenanted{TenantID: 1}, Title: "Call back"}
	in.RelatedToType = &kind
	in.Defaults()

	assert.Equal(t, []string{"relatedTo"}, issueFields(t, in.Validate()))

	id := int64(12)
	in.RelatedToID = &id
	require.NoError(t, in.Validate())

	ref, ok := in.Related()
	require.True(t, ok)
	assert.Equal(t, RelatedRef{Kind: RelatedLead, ID: 12}, ref)
}

func TestRelatedTo_UnknownKind(t *testing.T) {
	ref := NewRelatedTo(RelatedRef{Kind: "invoice", ID: 4})
	p := &TaskPatch{RelatedTo: ref}
	assert.Equal(t, []string{"relatedToType"}, issueFields(t, p.Validate()))
}

func TestActivityInput_Required(t *testing.T) {
	in := &ActivityInput{Tenanted: Tenanted{TenantID: 1}}
	fields := issueFields(t, in.Validate())
	assert.ElementsMatch(t, []string{"type", "subject", "activityDate"}, fields)

	now := time.Now()
	in = &ActivityInput{Tenanted: Tenanted{TenantID: 1}, Type: ActivityCall, Subject: "Intro", ActivityDate: &now}
	assert.NoError(t, in.Validate())
}

func TestPatch_AssignmentsOnlyPresentFields(t *testing.T) {
	var p AccountPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"New name","status":"inactive","city":null}`), &p))
	require.NoError(t, p.Validate())

	assert.Equal(t, []Assignment{
		{Column: "name", Value: "New name"},
		{Column: "status", Value: AccountStatusInactive},
	}, p.Assignments())
}

func TestPatch_BlankRequiredRejected(t *testing.T) {
	blank := " "
	p := &ContactPatch{FirstName: &blank}
	assert.Equal(t, []string{"firstName"}, issueFields(t, p.Validate()))
}

func TestRecord_JSONIsFlat(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	account := Account{
		ID:           5,
		AccountInput: AccountInput{Tenanted: Tenanted{TenantID: 7}, Name: "Acme", Type: AccountTypeCustomer, Status: AccountStatusActive},
		Timestamps:   Timestamps{CreatedAt: created, UpdatedAt: created},
	}

	raw, err := json.Marshal(account)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(5), decoded["id"])
	assert.Equal(t, float64(7), decoded["tenantId"])
	assert.Equal(t, "customer", decoded["type"])
	assert.Equal(t, "2024-05-01T10:00:00Z", decoded["createdAt"])
	assert.NoError(t, account.Validate())
}

func TestValidationError_Message(t *testing.T) {
	err := NewValidationError("name", "is required")
	assert.Equal(t, "validation failed: name: is required", err.Error())
	assert.True(t, IsValidationError(err))
}

package models

type ContactRole string

const (
	ContactRoleDecisionMaker ContactRole = "decision_maker"
	ContactRoleInfluencer    ContactRole = "influencer"
	ContactRoleUser          ContactRole = "user"
)

func (r ContactRole) Valid() bool {
	switch r {
	case ContactRoleDecisionMaker, ContactRoleInfluencer, ContactRoleUser:
		return true
	}
	return false
}

type ContactInput struct {
	Tenanted
	AccountID *int64       `json:"accountId" db:"account_id"`
	FirstName string       `json:"firstName" db:"first_name"`
	LastName  string       `json:"lastName" db:"last_name"`
	Email     *string      `json:"email" db:"email"`
	Phone     *string      `json:"phone" db:"phone"`
	Title     *string      `json:"title" db:"title"`
	Role      *ContactRole `json:"role" db:"role"`
	IsPrimary *bool        `json:"isPrimary" db:"is_primary"`
}

type Contact struct {
	ID int64 `json:"id" db:"id"`
	ContactInput
	Timestamps
}

type ContactPatch struct {
	AccountID *int64       `json:"accountId"`
	FirstName *string      `json:"firstName"`
	LastName  *string      `json:"lastName"`
	Email     *string      `json:"email"`
	Phone     *string      `json:"phone"`
	Title     *string      `json:"title"`
	Role      *ContactRole `json:"role"`
	IsPrimary *bool        `json:"isPrimary"`
}

func (in *ContactInput) Defaults() {
	if in.IsPrimary == nil {
		primary := false
		in.IsPrimary = &primary
	}
}

func (in *ContactInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *ContactInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.positiveID("accountId", in.AccountID)
	v.required("firstName", in.FirstName)
	v.required("lastName", in.LastName)
	v.email("email", in.Email, true)
	oneOf(v, "role", in.Role)
}

func (in *ContactInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "account_id", Value: in.AccountID},
		{Column: "first_name", Value: in.FirstName},
		{Column: "last_name", Value: in.LastName},
		{Column: "email", Value: in.Email},
		{Column: "phone", Value: in.Phone},
		{Column: "title", Value: in.Title},
		{Column: "role", Value: in.Role},
		{Column: "is_primary", Value: in.IsPrimary},
	}
}

func (c *Contact) Validate() error {
	v := &validator{}
	validateRecordID(v, c.ID)
	c.ContactInput.validate(v)
	return v.err()
}

func (p *ContactPatch) Validate() error {
	v := &validator{}
	v.positiveID("accountId", p.AccountID)
	v.requiredPtr("firstName", p.FirstName)
	v.requiredPtr("lastName", p.LastName)
	v.email("email", p.Email, true)
	oneOf(v, "role", p.Role)
	return v.err()
}

func (p *ContactPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "account_id", p.AccountID)
	patchField(&a, "first_name", p.FirstName)
	patchField(&a, "last_name", p.LastName)
	patchField(&a, "email", p.Email)
	patchField(&a, "phone", p.Phone)
	patchField(&a, "title", p.Title)
	patchField(&a, "role", p.Role)
	patchField(&a, "is_primary", p.IsPrimary)
	return a
}

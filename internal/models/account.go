package models

type AccountType string

const (
	AccountTypeProspect AccountType = "prospect"
	AccountTypeCustomer AccountType = "customer"
	AccountTypeVendor   AccountType = "vendor"
	AccountTypePartner  AccountType = "partner"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeProspect, AccountTypeCustomer, AccountTypeVendor, AccountTypePartner:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

func (s AccountStatus) Valid() bool {
	return s == AccountStatusActive || s == AccountStatusInactive
}

type AccountInput struct {
	Tenanted
	Name         string        `json:"name" db:"name"`
	Type         AccountType   `json:"type" db:"type"`
	Industry     *string       `json:"industry" db:"industry"`
	Website      *string       `json:"website" db:"website"`
	Phone        *string       `json:"phone" db:"phone"`
	AddressLine1 *string       `json:"addressLine1" db:"address_line1"`
	AddressLine2 *string       `json:"addressLine2" db:"address_line2"`
	City         *string       `json:"city" db:"city"`
	State        *string       `json:"state" db:"state"`
	ZipCode      *string       `json:"zipCode" db:"zip_code"`
	Country      *string       `json:"country" db:"country"`
	Status       AccountStatus `json:"status" db:"status"`
}

type Account struct {
	ID int64 `json:"id" db:"id"`
	AccountInput
	Timestamps
}

type AccountPatch struct {
	Name         *string        `json:"name"`
	Type         *AccountType   `json:"type"`
	Industry     *string        `json:"industry"`
	Website      *string        `json:"website"`
	Phone        *string        `json:"phone"`
	AddressLine1 *string        `json:"addressLine1"`
	AddressLine2 *string        `json:"addressLine2"`
	City         *string        `json:"city"`
	State        *string        `json:"state"`
	ZipCode      *string        `json:"zipCode"`
	Country      *string        `json:"country"`
	Status       *AccountStatus `json:"status"`
}

func (in *AccountInput) Defaults() {
	if in.Type == "" {
		in.Type = AccountTypeProspect
	}
	if in.Status == "" {
		in.Status = AccountStatusActive
	}
}

func (in *AccountInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *AccountInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.required("name", in.Name)
	oneOf(v, "type", &in.Type)
	v.url("website", in.Website)
	oneOf(v, "status", &in.Status)
}

func (in *AccountInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "name", Value: in.Name},
		{Column: "type", Value: in.Type},
		{Column: "industry", Value: in.Industry},
		{Column: "website", Value: in.Website},
		{Column: "phone", Value: in.Phone},
		{Column: "address_line1", Value: in.AddressLine1},
		{Column: "address_line2", Value: in.AddressLine2},
		{Column: "city", Value: in.City},
		{Column: "state", Value: in.State},
		{Column: "zip_code", Value: in.ZipCode},
		{Column: "country", Value: in.Country},
		{Column: "status", Value: in.Status},
	}
}

func (a *Account) Validate() error {
	v := &validator{}
	validateRecordID(v, a.ID)
	a.AccountInput.validate(v)
	return v.err()
}

func (p *AccountPatch) Validate() error {
	v := &validator{}
	v.requiredPtr("name", p.Name)
	oneOf(v, "type", p.Type)
	v.url("website", p.Website)
	oneOf(v, "status", p.Status)
	return v.err()
}

func (p *AccountPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "name", p.Name)
	patchField(&a, "type", p.Type)
	patchField(&a, "industry", p.Industry)
	patchField(&a, "website", p.Website)
	patchField(&a, "phone", p.Phone)
	patchField(&a, "address_line1", p.AddressLine1)
	patchField(&a, "address_line2", p.AddressLine2)
	patchField(&a, "city", p.City)
	patchField(&a, "state", p.State)
	patchField(&a, "zip_code", p.ZipCode)
	patchField(&a, "country", p.Country)
	patchField(&a, "status", p.Status)
	return a
}

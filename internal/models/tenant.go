package models

type TenantInput struct {
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Tenant struct {
	ID int64 `json:"id" db:"id"`
	TenantInput
	Timestamps
}

type TenantPatch struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

func (in *TenantInput) Defaults() {}

func (in *TenantInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *TenantInput) validate(v *validator) {
	v.required("name", in.Name)
	if in.Slug == "" {
		v.add("slug", "is required")
	} else {
		v.slug("slug", &in.Slug)
	}
}

func (in *TenantInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "name", Value: in.Name},
		{Column: "slug", Value: in.Slug},
	}
}

func (t *Tenant) Validate() error {
	v := &validator{}
	validateRecordID(v, t.ID)
	t.TenantInput.validate(v)
	return v.err()
}

func (p *TenantPatch) Validate() error {
	v := &validator{}
	v.requiredPtr("name", p.Name)
	v.slug("slug", p.Slug)
	return v.err()
}

func (p *TenantPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "name", p.Name)
	patchField(&a, "slug", p.Slug)
	return a
}

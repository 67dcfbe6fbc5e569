package models

type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleUser   UserRole = "user"
	UserRoleViewer UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleUser, UserRoleViewer:
		return true
	}
	return false
}

type UserInput struct {
	Tenanted
	Name  string   `json:"name" db:"name"`
	Email string   `json:"email" db:"email"`
	Role  UserRole `json:"role" db:"role"`
	Age   *int32   `json:"age" db:"age"`
}

type User struct {
	ID int64 `json:"id" db:"id"`
	UserInput
	Timestamps
}

type UserPatch struct {
	Name  *string   `json:"name"`
	Email *string   `json:"email"`
	Role  *UserRole `json:"role"`
	Age   *int32    `json:"age"`
}

func (in *UserInput) Defaults() {
	if in.Role == "" {
		in.Role = UserRoleUser
	}
}

func (in *UserInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *UserInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.required("name", in.Name)
	if in.Email == "" {
		v.add("email", "is required")
	} else {
		v.email("email", &in.Email, false)
	}
	oneOf(v, "role", &in.Role)
	v.positiveInt("age", in.Age)
}

func (in *UserInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "name", Value: in.Name},
		{Column: "email", Value: in.Email},
		{Column: "role", Value: in.Role},
		{Column: "age", Value: in.Age},
	}
}

func (u *User) Validate() error {
	v := &validator{}
	validateRecordID(v, u.ID)
	u.UserInput.validate(v)
	return v.err()
}

func (p *UserPatch) Validate() error {
	v := &validator{}
	v.requiredPtr("name", p.Name)
	v.email("email", p.Email, false)
	oneOf(v, "role", p.Role)
	v.positiveInt("age", p.Age)
	return v.err()
}

func (p *UserPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "name", p.Name)
	patchField(&a, "email", p.Email)
	patchField(&a, "role", p.Role)
	patchField(&a, "age", p.Age)
	return a
}

package models

import (
	"time"
)

// Input is a decoded create payload
type Input interface {
	Defaults()
	Validate() error
	Assignments() []Assignment
}

// Patch is a decoded partial update payload. Only present fields are assigned.
type Patch interface {
	Validate() error
	Assignments() []Assignment
}

// Record is a row read back from storage
type Record interface {
	Validate() error
}

// TenantBinder is implemented by inputs that carry a tenant_id column
type TenantBinder interface {
	BindTenant(tenantID int64)
}

// Tenanted is embedded by every input owned by a tenant
type Tenanted struct {
	TenantID int64 `json:"tenantId" db:"tenant_id"`
}

func (t *Tenanted) BindTenant(tenantID int64) {
	t.TenantID = tenantID
}

func (t Tenanted) validate(v *validator) {
	if t.TenantID <= 0 {
		v.add("tenantId", "must be a positive integer")
	}
}

// Timestamps are the audit columns of entities with updated_at
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func validateRecordID(v *validator, id int64) {
	if id <= 0 {
		v.add("id", "must be a positive integer")
	}
}

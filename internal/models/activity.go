package models

import "time"

type ActivityType string

const (
	ActivityNote    ActivityType = "note"
	ActivityCall    ActivityType = "call"
	ActivityEmail   ActivityType = "email"
	ActivityMeeting ActivityType = "meeting"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityNote, ActivityCall, ActivityEmail, ActivityMeeting:
		return true
	}
	return false
}

type ActivityInput struct {
	Tenanted
	Type        ActivityType `json:"type" db:"type"`
	Subject     string       `json:"subject" db:"subject"`
	Description *string      `json:"description" db:"description"`
	RelatedTo
	CreatedBy    *int64     `json:"createdBy" db:"created_by"`
	ActivityDate *time.Time `json:"activityDate" db:"activity_date"`
}

// Activity has no updated_at column
type Activity struct {
	ID int64 `json:"id" db:"id"`
	ActivityInput
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type ActivityPatch struct {
	Type        *ActivityType `json:"type"`
	Subject     *string       `json:"subject"`
	Description *string       `json:"description"`
	RelatedTo
	CreatedBy    *int64     `json:"createdBy"`
	ActivityDate *time.Time `json:"activityDate"`
}

func (in *ActivityInput) Defaults() {}

func (in *ActivityInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *ActivityInput) validate(v *validator) {
	in.Tenanted.validate(v)
	if in.Type == "" {
		v.add("type", "is required")
	} else {
		oneOf(v, "type", &in.Type)
	}
	v.required("subject", in.Subject)
	v.related(in.RelatedTo)
	v.positiveID("createdBy", in.CreatedBy)
	if in.ActivityDate == nil {
		v.add("activityDate", "is required")
	}
}

func (in *ActivityInput) Assignments() []Assignment {
	a := []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "type", Value: in.Type},
		{Column: "subject", Value: in.Subject},
		{Column: "description", Value: in.Description},
	}
	a = append(a, in.RelatedTo.columns()...)
	return append(a,
		Assignment{Column: "created_by", Value: in.CreatedBy},
		Assignment{Column: "activity_date", Value: in.ActivityDate},
	)
}

func (a *Activity) Validate() error {
	v := &validator{}
	validateRecordID(v, a.ID)
	a.ActivityInput.validate(v)
	return v.err()
}

func (p *ActivityPatch) Validate() error {
	v := &validator{}
	oneOf(v, "type", p.Type)
	v.requiredPtr("subject", p.Subject)
	v.related(p.RelatedTo)
	v.positiveID("createdBy", p.CreatedBy)
	return v.err()
}

func (p *ActivityPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "type", p.Type)
	patchField(&a, "subject", p.Subject)
	patchField(&a, "description", p.Description)
	p.RelatedTo.patch(&a)
	patchField(&a, "created_by", p.CreatedBy)
	patchField(&a, "activity_date", p.ActivityDate)
	return a
}

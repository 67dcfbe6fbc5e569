package models

import "time"

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

type JobInput struct {
	Tenanted
	ProjectID      *int64     `json:"projectId" db:"project_id"`
	Name           string     `json:"name" db:"name"`
	Description    *string    `json:"description" db:"description"`
	Status         JobStatus  `json:"status" db:"status"`
	ScheduledStart *time.Time `json:"scheduledStart" db:"scheduled_start"`
	ScheduledEnd   *time.Time `json:"scheduledEnd" db:"scheduled_end"`
	AssignedTo     *int64     `json:"assignedTo" db:"assigned_to"`
}

type Job struct {
	ID int64 `json:"id" db:"id"`
	JobInput
	Timestamps
}

type JobPatch struct {
	ProjectID      *int64     `json:"projectId"`
	Name           *string    `json:"name"`
	Description    *string    `json:"description"`
	Status         *JobStatus `json:"status"`
	ScheduledStart *time.Time `json:"scheduledStart"`
	ScheduledEnd   *time.Time `json:"scheduledEnd"`
	AssignedTo     *int64     `json:"assignedTo"`
}

func (in *JobInput) Defaults() {
	if in.Status == "" {
		in.Status = JobStatusPending
	}
}

func (in *JobInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *JobInput) validate(v *validator) {
	in.Tenanted.validate(v)
	if in.ProjectID == nil {
		v.add("projectId", "is required")
	} else {
		v.positiveID("projectId", in.ProjectID)
	}
	v.required("name", in.Name)
	oneOf(v, "status", &in.Status)
	v.positiveID("assignedTo", in.AssignedTo)
}

func (in *JobInput) Assignments() []Assignment {
	return []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "project_id", Value: in.ProjectID},
		{Column: "name", Value: in.Name},
		{Column: "description", Value: in.Description},
		{Column: "status", Value: in.Status},
		{Column: "scheduled_start", Value: in.ScheduledStart},
		{Column: "scheduled_end", Value: in.ScheduledEnd},
		{Column: "assigned_to", Value: in.AssignedTo},
	}
}

func (j *Job) Validate() error {
	v := &validator{}
	validateRecordID(v, j.ID)
	j.JobInput.validate(v)
	return v.err()
}

func (p *JobPatch) Validate() error {
	v := &validator{}
	v.positiveID("projectId", p.ProjectID)
	v.requiredPtr("name", p.Name)
	oneOf(v, "status", p.Status)
	v.positiveID("assignedTo", p.AssignedTo)
	return v.err()
}

func (p *JobPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "project_id", p.ProjectID)
	patchField(&a, "name", p.Name)
	patchField(&a, "description", p.Description)
	patchField(&a, "status", p.Status)
	patchField(&a, "scheduled_start", p.ScheduledStart)
	patchField(&a, "scheduled_end", p.ScheduledEnd)
	patchField(&a, "assigned_to", p.AssignedTo)
	return a
}

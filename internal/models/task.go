package models

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type TaskInput struct {
	Tenanted
	Title       string       `json:"title" db:"title"`
	Description *string      `json:"description" db:"description"`
	Status      TaskStatus   `json:"status" db:"status"`
	Priority    TaskPriority `json:"priority" db:"priority"`
	DueDate     *time.Time   `json:"dueDate" db:"due_date"`
	AssignedTo  *int64       `json:"assignedTo" db:"assigned_to"`
	CreatedBy   *int64       `json:"createdBy" db:"created_by"`
	RelatedTo
	CompletedAt *time.Time `json:"completedAt" db:"completed_at"`
}

type Task struct {
	ID int64 `json:"id" db:"id"`
	TaskInput
	Timestamps
}

type TaskPatch struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Status      *TaskStatus   `json:"status"`
	Priority    *TaskPriority `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	AssignedTo  *int64        `json:"assignedTo"`
	CreatedBy   *int64        `json:"createdBy"`
	RelatedTo
	CompletedAt *time.Time `json:"completedAt"`
}

func (in *TaskInput) Defaults() {
	if in.Status == "" {
		in.Status = TaskStatusTodo
	}
	if in.Priority == "" {
		in.Priority = TaskPriorityMedium
	}
}

func (in *TaskInput) Validate() error {
	v := &validator{}
	in.validate(v)
	return v.err()
}

func (in *TaskInput) validate(v *validator) {
	in.Tenanted.validate(v)
	v.required("title", in.Title)
	oneOf(v, "status", &in.Status)
	oneOf(v, "priority", &in.Priority)
	v.positiveID("assignedTo", in.AssignedTo)
	v.positiveID("createdBy", in.CreatedBy)
	v.related(in.RelatedTo)
}

func (in *TaskInput) Assignments() []Assignment {
	a := []Assignment{
		{Column: "tenant_id", Value: in.TenantID},
		{Column: "title", Value: in.Title},
		{Column: "description", Value: in.Description},
		{Column: "status", Value: in.Status},
		{Column: "priority", Value: in.Priority},
		{Column: "due_date", Value: in.DueDate},
		{Column: "assigned_to", Value: in.AssignedTo},
		{Column: "created_by", Value: in.CreatedBy},
	}
	a = append(a, in.RelatedTo.columns()...)
	return append(a, Assignment{Column: "completed_at", Value: in.CompletedAt})
}

func (t *Task) Validate() error {
	v := &validator{}
	validateRecordID(v, t.ID)
	t.TaskInput.validate(v)
	return v.err()
}

func (p *TaskPatch) Validate() error {
	v := &validator{}
	v.requiredPtr("title", p.Title)
	oneOf(v, "status", p.Status)
	oneOf(v, "priority", p.Priority)
	v.positiveID("assignedTo", p.AssignedTo)
	v.positiveID("createdBy", p.CreatedBy)
	v.related(p.RelatedTo)
	return v.err()
}

func (p *TaskPatch) Assignments() []Assignment {
	var a []Assignment
	patchField(&a, "title", p.Title)
	patchField(&a, "description", p.Description)
	patchField(&a, "status", p.Status)
	patchField(&a, "priority", p.Priority)
	patchField(&a, "due_date", p.DueDate)
	patchField(&a, "assigned_to", p.AssignedTo)
	patchField(&a, "created_by", p.CreatedBy)
	p.RelatedTo.patch(&a)
	patchField(&a, "completed_at", p.CompletedAt)
	return a
}

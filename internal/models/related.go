package models

// RelatedKind names the entity a task or activity points at
type RelatedKind string

const (
	RelatedLead        RelatedKind = "lead"
	RelatedOpportunity RelatedKind = "opportunity"
	RelatedProject     RelatedKind = "project"
	RelatedAccount     RelatedKind = "account"
	RelatedContact     RelatedKind = "contact"
	RelatedJob         RelatedKind = "job"
)

func (k RelatedKind) Valid() bool {
	switch k {
	case RelatedLead, RelatedOpportunity, RelatedProject, RelatedAccount, RelatedContact, RelatedJob:
		return true
	}
	return false
}

// RelatedRef is a soft reference to another record of the same tenant.
// The target is not checked for existence.
type RelatedRef struct {
	Kind RelatedKind
	ID   int64
}

// RelatedTo is the wire and column form shared by tasks and activities
type RelatedTo struct {
	RelatedToType *RelatedKind `json:"relatedToType" db:"related_to_type"`
	RelatedToID   *int64       `json:"relatedToId" db:"related_to_id"`
}

// Related returns the reference when both halves are set
func (r RelatedTo) Related() (RelatedRef, bool) {
	if r.RelatedToType == nil || r.RelatedToID == nil {
		return RelatedRef{}, false
	}
	return RelatedRef{Kind: *r.RelatedToType, ID: *r.RelatedToID}, true
}

func (v *validator) related(r RelatedTo) {
	if (r.RelatedToType == nil) != (r.RelatedToID == nil) {
		v.add("relatedTo", "relatedToType and relatedToId must be provided together")
		return
	}
	oneOf(v, "relatedToType", r.RelatedToType)
	v.positiveID("relatedToId", r.RelatedToID)
}

func (r RelatedTo) columns() []Assignment {
	return []Assignment{
		{Column: "related_to_type", Value: r.RelatedToType},
		{Column: "related_to_id", Value: r.RelatedToID},
	}
}

func (r RelatedTo) patch(a *[]Assignment) {
	patchField(a, "related_to_type", r.RelatedToType)
	patchField(a, "related_to_id", r.RelatedToID)
}

// NewRelatedTo builds the wire form of ref
func NewRelatedTo(ref RelatedRef) RelatedTo {
	kind, id := ref.Kind, ref.ID
	return RelatedTo{RelatedToType: &kind, RelatedToID: &id}
}

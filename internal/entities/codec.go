package entities

import (
	"encoding/json"
	"errors"
	"strings"

	"crmneon/internal/models"

	"github.com/jackc/pgx/v5"
)

// immutable fields never taken from a client payload
var immutableFields = []string{"id", "tenantId"}

// DecodeInput parses a create payload, binds it to tenantID, applies
// defaults and validates it. A client supplied id or tenantId is ignored
// whatever its JSON type.
func (d Descriptor) DecodeInput(payload []byte, tenantID int64) (models.Input, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}
	for _, f := range immutableFields {
		delete(fields, f)
	}

	in := d.newInput()
	if err := decodeFields(fields, in); err != nil {
		return nil, err
	}
	if binder, ok := in.(models.TenantBinder); ok {
		binder.BindTenant(tenantID)
	}
	in.Defaults()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return in, nil
}

// DecodePatch parses an update payload. id and tenantId are dropped.
func (d Descriptor) DecodePatch(payload []byte) (models.Patch, error) {
	fields, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}
	for _, f := range immutableFields {
		delete(fields, f)
	}

	p := d.newPatch()
	if err := decodeFields(fields, p); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Collect scans rows into records and validates each of them
func (d Descriptor) Collect(rows pgx.Rows) ([]models.Record, error) {
	return d.collect(rows)
}

func decodeObject(payload []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil || fields == nil {
		return nil, models.NewValidationError("body", "must be a JSON object")
	}
	return fields, nil
}

func decodeFields(fields map[string]json.RawMessage, dst any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return models.NewValidationError(wireField(typeErr.Field), "has an invalid type")
		}
		return models.NewValidationError("body", err.Error())
	}
	return nil
}

// wireField drops the embedded struct names encoding/json prefixes to a
// field path, e.g. "RelatedTo.relatedToId" becomes "relatedToId"
func wireField(path string) string {
	parts := strings.Split(path, ".")
	for len(parts) > 1 && isGoName(parts[0]) {
		parts = parts[1:]
	}
	return strings.Join(parts, ".")
}

func isGoName(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}

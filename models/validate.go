package models

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jasonhulbert/specgen/types"
)

// validate is a single shared instance; it caches struct info.
var validate = validator.New()

// schemaError converts validator output into the pipeline's schema error,
// carrying the specific violated fields. Violations are reported, never
// silently coerced or auto-repaired.
func schemaError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	violations := make([]types.FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, types.FieldViolation{
			Field: fe.Namespace(),
			Rule:  fe.Tag(),
			Value: fmt.Sprintf("%v", fe.Value()),
		})
	}
	return &types.SchemaValidationError{Violations: violations}
}

// ValidateSpec checks a parsed generation result against the full schema.
func ValidateSpec(s *SpecOutput) error {
	return schemaError(validate.Struct(s))
}

// ValidateQuestionSet checks a parsed clarification result.
func ValidateQuestionSet(q *ClarifyingQuestionSet) error {
	return schemaError(validate.Struct(q))
}

// ValidatePatch checks a parsed refinement result against the partial
// schema; absent fields are skipped, present fields must be well formed.
func ValidatePatch(p *SpecPatch) error {
	return schemaError(validate.Struct(p))
}

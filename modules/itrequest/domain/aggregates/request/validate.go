package request

import (
	"fmt"
	"strings"
)

// ValidateForSubmission applies the type-specific required-field rules gating
// the submit transition. It never mutates the request.
//
// Asset and support checks fail on the first violation; software collects
// every missing field into one combined error.
func ValidateForSubmission(r Request) error {
	details, err := coerceDetails(r)
	if err != nil {
		return err
	}

	switch d := details.(type) {
	case AssetDetails:
		if d.Category == "" {
			return NewValidationError("Asset category is required.", "Asset category")
		}
		if d.Reason == "" {
			return NewValidationError("Asset reason is required.", "Asset reason")
		}
		if d.Quantity <= 0 {
			return NewValidationError("Asset quantity must be greater than zero.", "Asset quantity")
		}
	case SoftwareDetails:
		var missing []string
		if d.Name == "" {
			missing = append(missing, "Software name")
		}
		if d.Action == "" {
			missing = append(missing, "Software action")
		}
		if d.AccessProfile == "" {
			missing = append(missing, "Access profile")
		}
		if d.AccessValidity == "" {
			missing = append(missing, "Access validity")
		}
		if d.BusinessReason == "" {
			missing = append(missing, "Business reason")
		}
		if len(missing) > 0 {
			return NewValidationError(
				fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
				missing...,
			)
		}
	case SupportDetails:
		if d.Category == "" {
			return NewValidationError("Support category is required.", "Support category")
		}
		if d.Impact == "" {
			return NewValidationError("Support impact is required.", "Support impact")
		}
	}
	return nil
}

// coerceDetails resolves a nil payload to the zero variant for the request's
// type so validation can report its missing fields instead of crashing.
func coerceDetails(r Request) (Details, error) {
	if r.Details != nil {
		if r.Details.RequestType() != r.Type {
			return nil, NewValidationError(
				fmt.Sprintf("Details payload %q does not match request type %q.", r.Details.RequestType(), r.Type),
				"Details",
			)
		}
		return r.Details, nil
	}
	return EmptyDetails(r.Type)
}

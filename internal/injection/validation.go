package injection

import "fmt"

// Messages surfaced next to individual form fields. The required-field text
// matches what the server-side form layer shows for blank inputs.
const (
	RequiredFieldMessage  = "This is a required field"
	DuplicateLabelMessage = "This label is already used in this injection"
	MinSelectorsMessage   = "An injection needs at least one selector"
)

// FieldError attaches a validation message to a single form field,
// identified by an indexed path such as "injections[1].selectors[0].label".
type FieldError struct {
	Path    string
	Message string
}

// Error implements the error interface
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Errors is the ordered result of one validation pass. Order follows the
// form layout so the first error is the topmost invalid field.
type Errors []FieldError

// ByPath indexes the errors by field path for inline display. When a field
// has several errors only the first is kept, mirroring what fits next to a
// form row.
func (e Errors) ByPath() map[string]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Path]; !ok {
			out[fe.Path] = fe.Message
		}
	}
	return out
}

// InjectionFieldPath returns the path of an injection-level field.
func InjectionFieldPath(injIndex int, field string) string {
	return fmt.Sprintf("injections[%d].%s", injIndex, field)
}

// SelectorFieldPath returns the path of a selector-level field.
func SelectorFieldPath(injIndex, selIndex int, field string) string {
	return fmt.Sprintf("injections[%d].selectors[%d].%s", injIndex, selIndex, field)
}

// Validate checks a full injections list against the submission schema.
// It runs synchronously on the current form state and returns every field
// error it finds; an empty result means the list may be submitted.
//
// Rules:
//   - every injection requires a non-empty id and sourceField and at least
//     one selector
//   - every selector requires a non-empty id, cssSelector and label
//   - labels must be pairwise distinct within their injection (exact,
//     case-sensitive comparison); the same label in two different
//     injections is fine
//
// The duplicate check needs sibling context, so it is done here against the
// whole selector slice rather than per field: every selector carrying a
// duplicated label is flagged, not just the later ones.
func Validate(injections []Injection) Errors {
	var errs Errors
	for i, inj := range injections {
		errs = append(errs, validateInjection(i, inj)...)
	}
	return errs
}

// validateInjection validates one injection and its selectors.
func validateInjection(injIndex int, inj Injection) Errors {
	var errs Errors

	if inj.ID == "" {
		errs = append(errs, FieldError{InjectionFieldPath(injIndex, "id"), RequiredFieldMessage})
	}
	if inj.SourceField == "" {
		errs = append(errs, FieldError{InjectionFieldPath(injIndex, "sourceField"), RequiredFieldMessage})
	}
	if len(inj.Selectors) == 0 {
		errs = append(errs, FieldError{InjectionFieldPath(injIndex, "selectors"), MinSelectorsMessage})
		return errs
	}

	// Count labels across siblings first so duplicates are flagged on every
	// selector that carries the label.
	labelCount := make(map[string]int, len(inj.Selectors))
	for _, sel := range inj.Selectors {
		if sel.Label != "" {
			labelCount[sel.Label]++
		}
	}

	for j, sel := range inj.Selectors {
		if sel.ID == "" {
			errs = append(errs, FieldError{SelectorFieldPath(injIndex, j, "id"), RequiredFieldMessage})
		}
		if sel.CSSSelector == "" {
			errs = append(errs, FieldError{SelectorFieldPath(injIndex, j, "cssSelector"), RequiredFieldMessage})
		}
		switch {
		case sel.Label == "":
			errs = append(errs, FieldError{SelectorFieldPath(injIndex, j, "label"), RequiredFieldMessage})
		case labelCount[sel.Label] > 1:
			errs = append(errs, FieldError{SelectorFieldPath(injIndex, j, "label"), DuplicateLabelMessage})
		}
	}

	return errs
}

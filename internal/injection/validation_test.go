package injection

import (
	"testing"
)

// makeInjection builds an injection with the given source field and a
// selector per (label, css) pair.
func makeInjection(sourceField string, pairs ...[2]string) Injection {
	inj := Injection{ID: "inj-" + sourceField, SourceField: sourceField}
	for i, p := range pairs {
		inj.Selectors = append(inj.Selectors, Selector{
			ID:          inj.ID + "-sel-" + string(rune('a'+i)),
			Label:       p[0],
			CSSSelector: p[1],
		})
	}
	return inj
}

func TestValidateAcceptsWellFormedList(t *testing.T) {
	injections := []Injection{
		makeInjection("title", [2]string{"img", "img"}, [2]string{"link", "a"}),
		makeInjection("content", [2]string{"byline", ".byline"}),
	}

	if errs := Validate(injections); len(errs) != 0 {
		t.Errorf("Validate returned %d errors for valid input: %v", len(errs), errs)
	}
}

func TestValidateEmptyListIsValid(t *testing.T) {
	if errs := Validate(nil); len(errs) != 0 {
		t.Errorf("empty form state should validate, got %v", errs)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Injection)
		wantPath string
	}{
		{
			name:     "blank cssSelector",
			mutate:   func(inj *Injection) { inj.Selectors[0].CSSSelector = "" },
			wantPath: "injections[0].selectors[0].cssSelector",
		},
		{
			name:     "blank label",
			mutate:   func(inj *Injection) { inj.Selectors[0].Label = "" },
			wantPath: "injections[0].selectors[0].label",
		},
		{
			name:     "blank selector id",
			mutate:   func(inj *Injection) { inj.Selectors[0].ID = "" },
			wantPath: "injections[0].selectors[0].id",
		},
		{
			name:     "blank injection id",
			mutate:   func(inj *Injection) { inj.ID = "" },
			wantPath: "injections[0].id",
		},
		{
			name:     "blank sourceField",
			mutate:   func(inj *Injection) { inj.SourceField = "" },
			wantPath: "injections[0].sourceField",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inj := makeInjection("title", [2]string{"img", "img"})
			tt.mutate(&inj)

			errs := Validate([]Injection{inj})
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
			}
			if errs[0].Path != tt.wantPath {
				t.Errorf("error path = %s, want %s", errs[0].Path, tt.wantPath)
			}
			if errs[0].Message != RequiredFieldMessage {
				t.Errorf("error message = %q, want %q", errs[0].Message, RequiredFieldMessage)
			}
		})
	}
}

func TestValidateZeroSelectorsFails(t *testing.T) {
	inj := Injection{ID: "inj-1", SourceField: "title"}

	errs := Validate([]Injection{inj})
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Path != "injections[0].selectors" {
		t.Errorf("error path = %s, want injections[0].selectors", errs[0].Path)
	}
	if errs[0].Message != MinSelectorsMessage {
		t.Errorf("error message = %q, want %q", errs[0].Message, MinSelectorsMessage)
	}
}

func TestValidateDuplicateLabelsFlaggedOnAllCarriers(t *testing.T) {
	inj := makeInjection("title",
		[2]string{"img", "img"},
		[2]string{"img", "a"},
		[2]string{"link", "a.perma"},
	)

	errs := Validate([]Injection{inj})
	byPath := errs.ByPath()

	for _, path := range []string{
		"injections[0].selectors[0].label",
		"injections[0].selectors[1].label",
	} {
		if byPath[path] != DuplicateLabelMessage {
			t.Errorf("%s = %q, want %q", path, byPath[path], DuplicateLabelMessage)
		}
	}
	if _, flagged := byPath["injections[0].selectors[2].label"]; flagged {
		t.Error("unique label must not be flagged as duplicate")
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2: %v", len(errs), errs)
	}
}

func TestValidateDuplicateScopeIsPerInjection(t *testing.T) {
	// The same label in two different injections is allowed: the constraint
	// is scoped to siblings.
	injections := []Injection{
		makeInjection("title", [2]string{"img", "img"}),
		makeInjection("content", [2]string{"img", "img.lead"}),
	}

	if errs := Validate(injections); len(errs) != 0 {
		t.Errorf("cross-injection label reuse should validate, got %v", errs)
	}
}

func TestValidateBlankLabelsAreNotDuplicates(t *testing.T) {
	// Two blank labels get the required-field error, not the duplicate one.
	inj := makeInjection("title", [2]string{"", "img"}, [2]string{"", "a"})

	errs := Validate([]Injection{inj})
	for _, fe := range errs {
		if fe.Message == DuplicateLabelMessage {
			t.Errorf("blank labels flagged as duplicates: %v", fe)
		}
	}
	if len(errs) != 2 {
		t.Errorf("got %d errors, want 2 required-field errors: %v", len(errs), errs)
	}
}

func TestValidateLabelComparisonIsCaseSensitive(t *testing.T) {
	inj := makeInjection("title", [2]string{"Img", "img"}, [2]string{"img", "a"})

	if errs := Validate([]Injection{inj}); len(errs) != 0 {
		t.Errorf("labels differing only by case are distinct, got %v", errs)
	}
}

func TestErrorsByPathKeepsFirstMessage(t *testing.T) {
	errs := Errors{
		{Path: "injections[0].id", Message: "first"},
		{Path: "injections[0].id", Message: "second"},
	}
	if got := errs.ByPath()["injections[0].id"]; got != "first" {
		t.Errorf("ByPath kept %q, want %q", got, "first")
	}
	if Errors(nil).ByPath() != nil {
		t.Error("ByPath of no errors should be nil")
	}
}

func TestFieldErrorString(t *testing.T) {
	fe := FieldError{Path: "injections[0].selectors[1].label", Message: DuplicateLabelMessage}
	want := "injections[0].selectors[1].label: " + DuplicateLabelMessage
	if fe.Error() != want {
		t.Errorf("Error() = %q, want %q", fe.Error(), want)
	}
}

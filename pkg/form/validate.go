package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDefinition is the sentinel wrapped by every DefinitionError.
var ErrInvalidDefinition = errors.New("form: invalid definition")

// Issue pinpoints a single structural problem using the JSON field path
// (for example "sections[1].questions[0].type").
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// DefinitionError aggregates every issue found in a definition.
type DefinitionError struct {
	FormID string
	Source string
	Issues []Issue
}

func (e *DefinitionError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("form: invalid definition")
	if e.FormID != "" {
		fmt.Fprintf(&b, " %q", e.FormID)
	}
	if e.Source != "" {
		fmt.Fprintf(&b, " (%s)", e.Source)
	}
	for i, issue := range e.Issues {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if issue.Path != "" {
			b.WriteString(issue.Path)
			b.WriteString(" ")
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

func (e *DefinitionError) Unwrap() error {
	return ErrInvalidDefinition
}

var (
	validateOnce sync.Once
	structValid  *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		// report JSON names instead of Go field names
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		structValid = v
	})
	return structValid
}

// Normalize trims identifiers and lower-cases question types in place.
func (d *Definition) Normalize() {
	if d == nil {
		return
	}
	d.ID = strings.TrimSpace(d.ID)
	d.Title = strings.TrimSpace(d.Title)
	for i := range d.Sections {
		section := &d.Sections[i]
		section.ID = strings.TrimSpace(section.ID)
		section.Title = strings.TrimSpace(section.Title)
		for j := range section.Questions {
			q := &section.Questions[j]
			q.ID = strings.TrimSpace(q.ID)
			q.Type = QuestionType(strings.ToLower(strings.TrimSpace(string(q.Type))))
		}
	}
}

// Validate checks the structural invariants required by the wizard. It
// returns a *DefinitionError listing every problem, or nil.
func (d Definition) Validate() error {
	var issues []Issue

	if err := structValidator().Struct(d); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("form: validate: %w", err)
		}
		for _, fe := range fieldErrs {
			issues = append(issues, Issue{
				Path:    fieldPath(fe.Namespace()),
				Message: issueMessage(fe),
			})
		}
	}

	issues = append(issues, duplicateIssues(d)...)
	if len(issues) == 0 {
		return nil
	}
	return &DefinitionError{FormID: d.ID, Issues: issues}
}

// ReservedQuestionID is the form field carrying the navigation action in
// posted pages, so no question may use it.
const ReservedQuestionID = "action"

func duplicateIssues(d Definition) []Issue {
	var issues []Issue
	sections := make(map[string]struct{}, len(d.Sections))
	questions := make(map[string]string)

	for i, section := range d.Sections {
		if section.ID != "" {
			if _, exists := sections[section.ID]; exists {
				issues = append(issues, Issue{
					Path:    fmt.Sprintf("sections[%d].id", i),
					Message: fmt.Sprintf("duplicate section id %q", section.ID),
				})
			}
			sections[section.ID] = struct{}{}
		}
		for j, q := range section.Questions {
			if q.ID == "" {
				continue
			}
			if q.ID == ReservedQuestionID {
				issues = append(issues, Issue{
					Path:    fmt.Sprintf("sections[%d].questions[%d].id", i, j),
					Message: fmt.Sprintf("question id %q is reserved", q.ID),
				})
				continue
			}
			if owner, exists := questions[q.ID]; exists {
				issues = append(issues, Issue{
					Path:    fmt.Sprintf("sections[%d].questions[%d].id", i, j),
					Message: fmt.Sprintf("duplicate question id %q (already used in section %q)", q.ID, owner),
				})
				continue
			}
			questions[q.ID] = section.ID
		}
	}
	return issues
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(namespace string) string {
	if idx := strings.Index(namespace, "."); idx >= 0 {
		return namespace[idx+1:]
	}
	return namespace
}

func issueMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("needs at least %s entries", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

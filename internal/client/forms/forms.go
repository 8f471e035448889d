// Package forms validates user input collected by the CLI screens before it
// reaches the session or contact services.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/cardkeeper/internal/client/models"
	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/go-playground/validator/v10"
)

// LoginForm is the input of the login screen.
type LoginForm struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// RegisterForm is the input of the registration screen.
type RegisterForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
	AcceptTerms     bool   `validate:"eq=true"`
}

// ContactForm is the input of the add and edit screens. Only the name is
// mandatory.
type ContactForm struct {
	Name     string `validate:"required"`
	Company  string
	Email    string `validate:"omitempty,email"`
	Phone    string
	Position string
	Website  string
	Address  string
	Notes    string
	Tags     []string `validate:"dive,required"`
}

// ValidationError lists the fields that failed, with a display message for
// each. It matches common.ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for n := range e.Fields {
		names = append(names, n)
	}
	sort.Strings(names)

	msgs := make([]string, 0, len(names))
	for _, n := range names {
		msgs = append(msgs, e.Fields[n])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

var validate = validator.New(validator.WithRequiredStructEnabled())

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", strings.ToLower(fe.Field()))
	case "email":
		return "invalid email address"
	case "eqfield":
		return "passwords do not match"
	case "eq":
		if fe.Field() == "AcceptTerms" {
			return "please agree to the Terms of Service and Privacy Policy"
		}
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}

// Validate checks v against its struct tags.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(ves))}
	for _, fe := range ves {
		field := fe.Field()
		if _, seen := out.Fields[field]; !seen {
			out.Fields[field] = message(fe)
		}
	}
	return out
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping the first occurrence order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// ParseTags splits a comma separated list.
func ParseTags(s string) []string {
	return NormalizeTags(strings.Split(s, ","))
}

// ToData validates f and converts it into the model used by the store.
func (f ContactForm) ToData() (models.ContactFormData, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Tags = NormalizeTags(f.Tags)

	if err := Validate(f); err != nil {
		return models.ContactFormData{}, err
	}

	return models.ContactFormData{
		Name:     f.Name,
		Company:  strings.TrimSpace(f.Company),
		Email:    f.Email,
		Phone:    strings.TrimSpace(f.Phone),
		Position: strings.TrimSpace(f.Position),
		Website:  strings.TrimSpace(f.Website),
		Address:  strings.TrimSpace(f.Address),
		Notes:    f.Notes,
		Tags:     f.Tags,
	}, nil
}

// FromData fills a form with existing values, as the edit screen does.
func FromData(d models.ContactFormData) ContactForm {
	return ContactForm{
		Name:     d.Name,
		Company:  d.Company,
		Email:    d.Email,
		Phone:    d.Phone,
		Position: d.Position,
		Website:  d.Website,
		Address:  d.Address,
		Notes:    d.Notes,
		Tags:     append([]string(nil), d.Tags...),
	}
}

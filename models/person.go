package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	nameMinLength   = 3
	numberMinLength = 8
)

var numberPattern = regexp.MustCompile(`^\d{2,3}-\d+`)

var (
	// ErrNotFound is returned when a well-formed id has no record.
	ErrNotFound = errors.New("person not found")
	// ErrMalformedID is returned when an id does not parse as a record key.
	ErrMalformedID = errors.New("malformatted id")
)

// Person is a phonebook entry as held by the record store.
type Person struct {
	ID       string
	Name     string
	Number   string
	Revision int // bumped on every write, never sent to clients
}

type personJSON struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
}

// MarshalJSON renders the public wire form {id, name, number}.
func (p Person) MarshalJSON() ([]byte, error) {
	return json.Marshal(personJSON{ID: p.ID, Name: p.Name, Number: p.Number})
}

// PersonInput is used for creating persons.
type PersonInput struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// NumberInput is used for updating the number of a person.
type NumberInput struct {
	Number string `json:"number"`
}

// ValidationError reports a field that violates the person schema.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("Person validation failed: %s: %s", e.Field, e.Reason)
}

func (p *PersonInput) Validate() error {
	if p.Name == "" || p.Number == "" {
		return &ValidationError{Reason: "person must have a name and a number"}
	}
	if utf8.RuneCountInString(p.Name) < nameMinLength {
		return &ValidationError{
			Field:  "name",
			Reason: fmt.Sprintf("`%s` is shorter than the minimum allowed length (%d)", p.Name, nameMinLength),
		}
	}
	return ValidateNumber(p.Number)
}

// ValidateNumber checks the number rules alone.
func ValidateNumber(number string) error {
	switch {
	case number == "":
		return &ValidationError{Field: "number", Reason: "number is required"}
	case utf8.RuneCountInString(number) < numberMinLength:
		return &ValidationError{
			Field:  "number",
			Reason: fmt.Sprintf("`%s` is shorter than the minimum allowed length (%d)", number, numberMinLength),
		}
	case !numberPattern.MatchString(number):
		return &ValidationError{
			Field:  "number",
			Reason: fmt.Sprintf("%s is not a valid phone number", number),
		}
	}
	return nil
}

// NewID returns a fresh record id.
func NewID() string {
	return uuid.NewString()
}

// ParseID returns the canonical form of id or ErrMalformedID.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedID, id)
	}
	return u.String(), nil
}

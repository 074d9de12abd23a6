package project

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Owner Value object - immutable, the e-mail address of a project owner
type Owner struct {
	email string
}

// NewOwner Create new Owner value object
func NewOwner(email string) (Owner, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return Owner{}, NewInvalidOwnerError(email)
	}

	return Owner{email: email}, nil
}

// Value Get email value
func (o Owner) Value() string {
	return o.email
}

// Equals Compare if two Owner value objects are equal
func (o Owner) Equals(other Owner) bool {
	return o.email == other.email
}

// String Implement Stringer interface
func (o Owner) String() string {
	return o.email
}

// Package types holds the shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, and utils can all import types without depending
// on each other.
package types

import "fmt"

// Student represents a student record in our system.
//
// Struct tags serve two purposes:
//
//  1. json:"..."     controls the field name in JSON (camelCase, matching
//     the public API).
//  2. validate:"..." rules checked by go-playground/validator.
//     "notblank" rejects empty and whitespace-only strings; "required" on
//     the *int Level only demands that the value is present, so level 0
//     is still a valid level.
//
// ID is zero until the repository assigns one.
type Student struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"firstName"  validate:"notblank"`
	LastName   string `json:"lastName"   validate:"notblank"`
	Department string `json:"department" validate:"notblank"`
	Level      *int   `json:"level"      validate:"required"`
}

// NewStudent builds an unsaved Student.
func NewStudent(firstName, lastName, department string, level int) Student {
	return Student{
		FirstName:  firstName,
		LastName:   lastName,
		Department: department,
		Level:      &level,
	}
}

// IsNew reports whether the student has not been persisted yet.
func (s Student) IsNew() bool { return s.ID == 0 }

// LevelValue returns the level, or 0 when it is unset.
func (s Student) LevelValue() int {
	if s.Level == nil {
		return 0
	}
	return *s.Level
}

// Equal compares all five fields. Level is compared by value, not pointer.
func (s Student) Equal(o Student) bool {
	if (s.Level == nil) != (o.Level == nil) {
		return false
	}
	if s.Level != nil && *s.Level != *o.Level {
		return false
	}
	return s.ID == o.ID &&
		s.FirstName == o.FirstName &&
		s.LastName == o.LastName &&
		s.Department == o.Department
}

func (s Student) String() string {
	level := "<nil>"
	if s.Level != nil {
		level = fmt.Sprint(*s.Level)
	}
	return fmt.Sprintf("Student{id=%d, firstName='%s', lastName='%s', department='%s', level='%s'}",
		s.ID, s.FirstName, s.LastName, s.Department, level)
}

// StudentPatch is the body of PUT /students/{id}.
//
// Every field is a pointer so "absent" (nil) can be told apart from a zero
// value. Only non-nil fields overwrite the stored record.
type StudentPatch struct {
	FirstName  *string `json:"firstName"`
	LastName   *string `json:"lastName"`
	Department *string `json:"department"`
	Level      *int    `json:"level"`
}

// Apply returns a copy of s with the patch's non-nil fields written over it.
// The ID is never touched.
func (p StudentPatch) Apply(s Student) Student {
	if p.FirstName != nil {
		s.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		s.LastName = *p.LastName
	}
	if p.Department != nil {
		s.Department = *p.Department
	}
	if p.Level != nil {
		level := *p.Level
		s.Level = &level
	}
	return s
}

// Package models defines the core domain models for the Employee API.
// It includes definitions for Employee, EmployeeUpdate, Job and Department.
package models

import (
	"time"
)

// DateLayout is the ISO-8601 calendar date layout used on the wire.
const DateLayout = "2006-01-02"

// Employee defines the domain model for an employee entity.
type Employee struct {
	// ID is the client supplied primary key.
	ID int64
	// FirstName is the employee's given name.
	FirstName string
	// LastName is the employee's family name.
	LastName string
	// DOB is the date of birth.
	DOB time.Time
	// GenderCode is the gender code as recorded by HR.
	GenderCode string
	// RaceDesc is the race description.
	RaceDesc string
	// MaritalDesc is the marital status description.
	MaritalDesc string
	// Status is the employment status, e.g. "Active".
	Status string
	// Type is the employment type, e.g. "Full-Time".
	Type string
	// Rating is the current employee rating. The range is not validated.
	Rating int
}

// EmployeeUpdate represents the fields that can be updated for an Employee.
// Pointer types are used to allow partial updates: nil means "leave unchanged".
type EmployeeUpdate struct {
	// ID is the identifier of the employee to update.
	ID          int64
	FirstName   *string
	LastName    *string
	DOB         *time.Time
	GenderCode  *string
	RaceDesc    *string
	MaritalDesc *string
	Status      *string
	Type        *string
	Rating      *int
}

// IsEmpty reports whether the update carries no field at all.
func (u *EmployeeUpdate) IsEmpty() bool {
	return u.FirstName == nil && u.LastName == nil && u.DOB == nil &&
		u.GenderCode == nil && u.RaceDesc == nil && u.MaritalDesc == nil &&
		u.Status == nil && u.Type == nil && u.Rating == nil
}

// Apply copies every supplied field of the update onto e.
func (u *EmployeeUpdate) Apply(e *Employee) {
	if u.FirstName != nil {
		e.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		e.LastName = *u.LastName
	}
	if u.DOB != nil {
		e.DOB = *u.DOB
	}
	if u.GenderCode != nil {
		e.GenderCode = *u.GenderCode
	}
	if u.RaceDesc != nil {
		e.RaceDesc = *u.RaceDesc
	}
	if u.MaritalDesc != nil {
		e.MaritalDesc = *u.MaritalDesc
	}
	if u.Status != nil {
		e.Status = *u.Status
	}
	if u.Type != nil {
		e.Type = *u.Type
	}
	if u.Rating != nil {
		e.Rating = *u.Rating
	}
}

// Job is a position held by an employee. EmployeeID is an explicit foreign key;
// jobs are fetched with their own query, never loaded implicitly.
type Job struct {
	ID                  int64
	EmployeeID          int64
	Title               string
	Supervisor          string
	StartDate           *time.Time
	ExitDate            *time.Time
	PayZone             string
	FunctionDescription string
	PerformanceScore    string
}

// Department describes an organisational unit. It is not linked to employees.
type Department struct {
	ID             int64
	Division       string
	BusinessUnit   string
	DepartmentType string
	LocationCode   int
}

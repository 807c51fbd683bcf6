// Package models contains the persistence models for the application,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	domain "github.com/gartstein/workforce/internal/employee/models"
)

// Employee represents a row of the employees table.
// The primary key is supplied by the client, so auto increment is disabled.
type Employee struct {
	EmpID                 int64     `gorm:"column:empid;primaryKey;autoIncrement:false"`
	FirstName             string    `gorm:"column:firstname;not null"`
	LastName              string    `gorm:"column:lastname;not null"`
	DOB                   time.Time `gorm:"column:dob;type:date"`
	GenderCode            string    `gorm:"column:gendercode"`
	RaceDesc              string    `gorm:"column:racedesc"`
	MaritalDesc           string    `gorm:"column:maritaldesc"`
	EmployeeStatus        string    `gorm:"column:employeestatus"`
	EmployeeType          string    `gorm:"column:employeetype"`
	CurrentEmployeeRating int       `gorm:"column:currentemployeerating"`
}

// TableName explicitly sets the table name for GORM.
func (Employee) TableName() string {
	return "employees"
}

// Job represents a row of the jobs table. EmpID references employees.empid.
type Job struct {
	JobID                  int64      `gorm:"column:jobid;primaryKey;autoIncrement"`
	EmpID                  int64      `gorm:"column:empid;not null;index"`
	Title                  string     `gorm:"column:title"`
	Supervisor             string     `gorm:"column:supervisor"`
	StartDate              *time.Time `gorm:"column:startdate;type:date"`
	ExitDate               *time.Time `gorm:"column:exitdate;type:date"`
	PayZone                string     `gorm:"column:payzone"`
	JobFunctionDescription string     `gorm:"column:jobfunctiondescription"`
	PerformanceScore       string     `gorm:"column:performancescore"`
}

func (Job) TableName() string {
	return "jobs"
}

// Department represents a row of the departments table.
type Department struct {
	DepartmentID   int64  `gorm:"column:departmentid;primaryKey;autoIncrement"`
	Division       string `gorm:"column:division"`
	BusinessUnit   string `gorm:"column:businessunit"`
	DepartmentType string `gorm:"column:departmenttype"`
	LocationCode   int    `gorm:"column:locationcode"`
}

func (Department) TableName() string {
	return "departments"
}

// EmployeeFromDomain converts a domain employee into its row form.
func EmployeeFromDomain(e *domain.Employee) *Employee {
	return &Employee{
		EmpID:                 e.ID,
		FirstName:             e.FirstName,
		LastName:              e.LastName,
		DOB:                   e.DOB,
		GenderCode:            e.GenderCode,
		RaceDesc:              e.RaceDesc,
		MaritalDesc:           e.MaritalDesc,
		EmployeeStatus:        e.Status,
		EmployeeType:          e.Type,
		CurrentEmployeeRating: e.Rating,
	}
}

// ToDomain converts the row into a domain employee.
func (r *Employee) ToDomain() *domain.Employee {
	return &domain.Employee{
		ID:          r.EmpID,
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		DOB:         r.DOB,
		GenderCode:  r.GenderCode,
		RaceDesc:    r.RaceDesc,
		MaritalDesc: r.MaritalDesc,
		Status:      r.EmployeeStatus,
		Type:        r.EmployeeType,
		Rating:      r.CurrentEmployeeRating,
	}
}

// UpdateColumns returns the column/value pairs for the supplied fields only.
func UpdateColumns(u *domain.EmployeeUpdate) map[string]interface{} {
	cols := make(map[string]interface{})
	if u.FirstName != nil {
		cols["firstname"] = *u.FirstName
	}
	if u.LastName != nil {
		cols["lastname"] = *u.LastName
	}
	if u.DOB != nil {
		cols["dob"] = *u.DOB
	}
	if u.GenderCode != nil {
		cols["gendercode"] = *u.GenderCode
	}
	if u.RaceDesc != nil {
		cols["racedesc"] = *u.RaceDesc
	}
	if u.MaritalDesc != nil {
		cols["maritaldesc"] = *u.MaritalDesc
	}
	if u.Status != nil {
		cols["employeestatus"] = *u.Status
	}
	if u.Type != nil {
		cols["employeetype"] = *u.Type
	}
	if u.Rating != nil {
		cols["currentemployeerating"] = *u.Rating
	}
	return cols
}

func JobFromDomain(j *domain.Job) *Job {
	return &Job{
		JobID:                  j.ID,
		EmpID:                  j.EmployeeID,
		Title:                  j.Title,
		Supervisor:             j.Supervisor,
		StartDate:              j.StartDate,
		ExitDate:               j.ExitDate,
		PayZone:                j.PayZone,
		JobFunctionDescription: j.FunctionDescription,
		PerformanceScore:       j.PerformanceScore,
	}
}

func (r *Job) ToDomain() *domain.Job {
	return &domain.Job{
		ID:                  r.JobID,
		EmployeeID:          r.EmpID,
		Title:               r.Title,
		Supervisor:          r.Supervisor,
		StartDate:           r.StartDate,
		ExitDate:            r.ExitDate,
		PayZone:             r.PayZone,
		FunctionDescription: r.JobFunctionDescription,
		PerformanceScore:    r.PerformanceScore,
	}
}

func DepartmentFromDomain(d *domain.Department) *Department {
	return &Department{
		DepartmentID:   d.ID,
		Division:       d.Division,
		BusinessUnit:   d.BusinessUnit,
		DepartmentType: d.DepartmentType,
		LocationCode:   d.LocationCode,
	}
}

func (r *Department) ToDomain() *domain.Department {
	return &domain.Department{
		ID:             r.DepartmentID,
		Division:       r.Division,
		BusinessUnit:   r.BusinessUnit,
		DepartmentType: r.DepartmentType,
		LocationCode:   r.LocationCode,
	}
}

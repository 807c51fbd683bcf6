package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	e "github.com/gartstein/workforce/internal/employee/errors"
	"github.com/gartstein/workforce/internal/employee/models"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// EmployeeRequest is the body of POST /employees/.
type EmployeeRequest struct {
	EmpID                 int64  `json:"empid" binding:"required,gt=0"`
	FirstName             string `json:"firstname" binding:"required"`
	LastName              string `json:"lastname" binding:"required"`
	DOB                   string `json:"dob" binding:"required,datetime=2006-01-02"`
	GenderCode            string `json:"gendercode"`
	RaceDesc              string `json:"racedesc"`
	MaritalDesc           string `json:"maritaldesc"`
	EmployeeStatus        string `json:"employeestatus"`
	EmployeeType          string `json:"employeetype"`
	CurrentEmployeeRating int    `json:"currentemployeerating"`
}

// EmployeeUpdateRequest is the body of PUT /employees/{id}.
// Absent (or null) fields are left unchanged.
type EmployeeUpdateRequest struct {
	FirstName             *string `json:"firstname" binding:"omitempty,min=1"`
	LastName              *string `json:"lastname" binding:"omitempty,min=1"`
	DOB                   *string `json:"dob" binding:"omitempty,datetime=2006-01-02"`
	GenderCode            *string `json:"gendercode"`
	RaceDesc              *string `json:"racedesc"`
	MaritalDesc           *string `json:"maritaldesc"`
	EmployeeStatus        *string `json:"employeestatus"`
	EmployeeType          *string `json:"employeetype"`
	CurrentEmployeeRating *int    `json:"currentemployeerating"`
}

// EmployeeResponse is the JSON form of an employee.
type EmployeeResponse struct {
	EmpID                 int64  `json:"empid"`
	FirstName             string `json:"firstname"`
	LastName              string `json:"lastname"`
	DOB                   string `json:"dob"`
	GenderCode            string `json:"gendercode"`
	RaceDesc              string `json:"racedesc"`
	MaritalDesc           string `json:"maritaldesc"`
	EmployeeStatus        string `json:"employeestatus"`
	EmployeeType          string `json:"employeetype"`
	CurrentEmployeeRating int    `json:"currentemployeerating"`
}

type JobRequest struct {
	Title                  string `json:"title" binding:"required"`
	Supervisor             string `json:"supervisor"`
	StartDate              string `json:"startdate" binding:"omitempty,datetime=2006-01-02"`
	ExitDate               string `json:"exitdate" binding:"omitempty,datetime=2006-01-02"`
	PayZone                string `json:"payzone"`
	JobFunctionDescription string `json:"jobfunctiondescription"`
	PerformanceScore       string `json:"performancescore"`
}

type JobResponse struct {
	JobID                  int64   `json:"jobid"`
	EmpID                  int64   `json:"empid"`
	Title                  string  `json:"title"`
	Supervisor             string  `json:"supervisor"`
	StartDate              *string `json:"startdate"`
	ExitDate               *string `json:"exitdate"`
	PayZone                string  `json:"payzone"`
	JobFunctionDescription string  `json:"jobfunctiondescription"`
	PerformanceScore       string  `json:"performancescore"`
}

type DepartmentRequest struct {
	Division       string `json:"division" binding:"required"`
	BusinessUnit   string `json:"businessunit"`
	DepartmentType string `json:"departmenttype"`
	LocationCode   int    `json:"locationcode"`
}

type DepartmentResponse struct {
	DepartmentID   int64  `json:"departmentid"`
	Division       string `json:"division"`
	BusinessUnit   string `json:"businessunit"`
	DepartmentType string `json:"departmenttype"`
	LocationCode   int    `json:"locationcode"`
}

// MessageResponse carries a confirmation or an error detail.
type MessageResponse struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// requestToModel converts a create request into an Employee. The request is
// expected to have passed binding validation already.
func requestToModel(req *EmployeeRequest) (*models.Employee, error) {
	dob, err := time.Parse(models.DateLayout, req.DOB)
	if err != nil {
		return nil, fmt.Errorf("%w: dob: %v", e.ErrInvalidInput, err)
	}
	return &models.Employee{
		ID:          req.EmpID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DOB:         dob,
		GenderCode:  req.GenderCode,
		RaceDesc:    req.RaceDesc,
		MaritalDesc: req.MaritalDesc,
		Status:      req.EmployeeStatus,
		Type:        req.EmployeeType,
		Rating:      req.CurrentEmployeeRating,
	}, nil
}

// requestToUpdate converts an update request into an EmployeeUpdate for id.
func requestToUpdate(req *EmployeeUpdateRequest, id int64) (*models.EmployeeUpdate, error) {
	update := &models.EmployeeUpdate{
		ID:          id,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		GenderCode:  req.GenderCode,
		RaceDesc:    req.RaceDesc,
		MaritalDesc: req.MaritalDesc,
		Status:      req.EmployeeStatus,
		Type:        req.EmployeeType,
		Rating:      req.CurrentEmployeeRating,
	}
	if req.DOB != nil {
		dob, err := time.Parse(models.DateLayout, *req.DOB)
		if err != nil {
			return nil, fmt.Errorf("%w: dob: %v", e.ErrInvalidInput, err)
		}
		update.DOB = &dob
	}
	return update, nil
}

func modelToResponse(emp *models.Employee) EmployeeResponse {
	return EmployeeResponse{
		EmpID:                 emp.ID,
		FirstName:             emp.FirstName,
		LastName:              emp.LastName,
		DOB:                   emp.DOB.Format(models.DateLayout),
		GenderCode:            emp.GenderCode,
		RaceDesc:              emp.RaceDesc,
		MaritalDesc:           emp.MaritalDesc,
		EmployeeStatus:        emp.Status,
		EmployeeType:          emp.Type,
		CurrentEmployeeRating: emp.Rating,
	}
}

func requestToJob(req *JobRequest, employeeID int64) (*models.Job, error) {
	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startdate: %v", e.ErrInvalidInput, err)
	}
	exit, err := parseOptionalDate(req.ExitDate)
	if err != nil {
		return nil, fmt.Errorf("%w: exitdate: %v", e.ErrInvalidInput, err)
	}
	return &models.Job{
		EmployeeID:          employeeID,
		Title:               req.Title,
		Supervisor:          req.Supervisor,
		StartDate:           start,
		ExitDate:            exit,
		PayZone:             req.PayZone,
		FunctionDescription: req.JobFunctionDescription,
		PerformanceScore:    req.PerformanceScore,
	}, nil
}

func jobToResponse(job *models.Job) JobResponse {
	return JobResponse{
		JobID:                  job.ID,
		EmpID:                  job.EmployeeID,
		Title:                  job.Title,
		Supervisor:             job.Supervisor,
		StartDate:              formatOptionalDate(job.StartDate),
		ExitDate:               formatOptionalDate(job.ExitDate),
		PayZone:                job.PayZone,
		JobFunctionDescription: job.FunctionDescription,
		PerformanceScore:       job.PerformanceScore,
	}
}

func requestToDepartment(req *DepartmentRequest) *models.Department {
	return &models.Department{
		Division:       req.Division,
		BusinessUnit:   req.BusinessUnit,
		DepartmentType: req.DepartmentType,
		LocationCode:   req.LocationCode,
	}
}

func departmentToResponse(d *models.Department) DepartmentResponse {
	return DepartmentResponse{
		DepartmentID:   d.ID,
		Division:       d.Division,
		BusinessUnit:   d.BusinessUnit,
		DepartmentType: d.DepartmentType,
		LocationCode:   d.LocationCode,
	}
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(models.DateLayout)
	return &s
}

// bindingMessage turns a binding failure into a client readable message.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body: " + err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "datetime":
			msgs = append(msgs, fe.Field()+" must be a date formatted as "+fe.Param())
		case "gt":
			msgs = append(msgs, fe.Field()+" must be greater than "+fe.Param())
		case "min":
			msgs = append(msgs, fe.Field()+" must not be empty")
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}

// mapServiceError writes the HTTP response matching a domain or repository error.
func (h *EmployeeHandler) mapServiceError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, MessageResponse{Detail: notFound})
	case errors.Is(err, e.ErrDuplicateID):
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: "Employee ID already exists"})
	case errors.Is(err, e.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: err.Error()})
	default:
		h.logger.Error("Internal server error", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, MessageResponse{Detail: "internal server error"})
	}
}

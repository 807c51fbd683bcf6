// Package controller implements the core business logic (service layer)
// for managing Employee entities, orchestrating repository operations
// and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"

	e "github.com/gartstein/workforce/internal/employee/errors"
	"github.com/gartstein/workforce/internal/employee/events"
	"github.com/gartstein/workforce/internal/employee/models"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, employee *models.Employee)
}

// Repository defines the storage interface for Employee objects.
type Repository interface {
	CreateEmployee(ctx context.Context, employee *models.Employee) error
	GetEmployee(ctx context.Context, id int64) (*models.Employee, error)
	GetLatestEmployee(ctx context.Context) (*models.Employee, error)
	UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error
	DeleteEmployee(ctx context.Context, id int64) error
	EmployeeExists(ctx context.Context, id int64) (bool, error)
	CreateJob(ctx context.Context, job *models.Job) error
	ListJobs(ctx context.Context, employeeID int64) ([]*models.Job, error)
	CreateDepartment(ctx context.Context, department *models.Department) error
	GetDepartment(ctx context.Context, id int64) (*models.Department, error)
	Close() error
}

// EmployeeService provides methods to manage employees via repository
// operations and event production.
type EmployeeService struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewEmployeeService constructs an EmployeeService with a repository,
// an event producer, and a logger.
func NewEmployeeService(repo Repository, producer EventProducer, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("employee_service"),
	}
}

// CreateEmployee stores a new Employee under its client supplied id.
// An id that is already taken is rejected with ErrDuplicateID.
func (s *EmployeeService) CreateEmployee(ctx context.Context, employee *models.Employee) (*models.Employee, error) {
	if employee.ID <= 0 {
		return nil, fmt.Errorf("%w: employee id must be positive", e.ErrInvalidInput)
	}
	if employee.FirstName == "" || employee.LastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", e.ErrInvalidInput)
	}

	exists, err := s.repo.EmployeeExists(ctx, employee.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check id existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateID
	}

	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		if errors.Is(err, e.ErrDuplicateID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	go func() {
		s.producer.Produce(events.EmployeeCreated, employee)
	}()
	return employee, nil
}

// GetEmployee retrieves an Employee by ID, returning an error if not found.
func (s *EmployeeService) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

// GetLatestEmployee returns the employee with the highest id.
func (s *EmployeeService) GetLatestEmployee(ctx context.Context) (*models.Employee, error) {
	employee, err := s.repo.GetLatestEmployee(ctx)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get latest employee: %w", err)
	}
	return employee, nil
}

// UpdateEmployee applies the supplied fields, then fetches the updated
// version for returning and event production.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) (*models.Employee, error) {
	if update.ID <= 0 {
		return nil, fmt.Errorf("%w: invalid employee ID", e.ErrInvalidInput)
	}
	if (update.FirstName != nil && *update.FirstName == "") || (update.LastName != nil && *update.LastName == "") {
		return nil, fmt.Errorf("%w: names cannot be blank", e.ErrInvalidInput)
	}

	err := s.repo.UpdateEmployee(ctx, update)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	updated, err := s.repo.GetEmployee(ctx, update.ID)
	if err != nil {
		s.logger.Error("Failed to get employee after update",
			zap.Error(err),
			zap.Int64("employee_id", update.ID),
		)
		return nil, err
	}
	if !update.IsEmpty() {
		go func() {
			s.producer.Produce(events.EmployeeUpdated, updated)
		}()
	}
	return updated, nil
}

// DeleteEmployee removes an Employee by ID and fires a deletion event.
func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	employee, err := s.repo.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee for deletion: %w", err)
	}

	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	go func() {
		s.producer.Produce(events.EmployeeDeleted, employee)
	}()

	return nil
}

// AddJob records a job for an existing employee.
func (s *EmployeeService) AddJob(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.Title == "" {
		return nil, fmt.Errorf("%w: job title is required", e.ErrInvalidInput)
	}
	if job.StartDate != nil && job.ExitDate != nil && job.ExitDate.Before(*job.StartDate) {
		return nil, fmt.Errorf("%w: exit date precedes start date", e.ErrInvalidInput)
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

// ListJobs returns the jobs of an existing employee.
func (s *EmployeeService) ListJobs(ctx context.Context, employeeID int64) ([]*models.Job, error) {
	exists, err := s.repo.EmployeeExists(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check employee existence: %w", err)
	}
	if !exists {
		return nil, e.ErrNotFound
	}
	jobs, err := s.repo.ListJobs(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return jobs, nil
}

func (s *EmployeeService) CreateDepartment(ctx context.Context, department *models.Department) (*models.Department, error) {
	if department.Division == "" {
		return nil, fmt.Errorf("%w: division is required", e.ErrInvalidInput)
	}
	if err := s.repo.CreateDepartment(ctx, department); err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}
	return department, nil
}

func (s *EmployeeService) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	department, err := s.repo.GetDepartment(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return department, nil
}

package db

import (
	"context"
	"errors"
	"fmt"

	dbmodels "github.com/gartstein/workforce/internal/employee/db/models"
	e "github.com/gartstein/workforce/internal/employee/errors"
	"github.com/gartstein/workforce/internal/employee/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the libpq connection string for cfg.
func (cfg *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

func NewRepository(cfg *Config) (*Repository, error) {
	return Open(postgres.Open(cfg.DSN()))
}

// Open connects through the given dialector and migrates the employee schema.
func Open(dialector gorm.Dialector) (*Repository, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&dbmodels.Employee{}, &dbmodels.Job{}, &dbmodels.Department{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) CreateEmployee(ctx context.Context, employee *models.Employee) error {
	result := r.db.WithContext(ctx).Create(dbmodels.EmployeeFromDomain(employee))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateID
		}
		return result.Error
	}
	return nil
}

func (r *Repository) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var row dbmodels.Employee
	result := r.db.WithContext(ctx).First(&row, "empid = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return row.ToDomain(), nil
}

// GetLatestEmployee returns the employee with the highest id.
func (r *Repository) GetLatestEmployee(ctx context.Context) (*models.Employee, error) {
	var row dbmodels.Employee
	result := r.db.WithContext(ctx).Order("empid desc").Take(&row)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return row.ToDomain(), nil
}

// UpdateEmployee writes only the fields present in update.
func (r *Repository) UpdateEmployee(ctx context.Context, update *models.EmployeeUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dbmodels.Employee{}).Where("empid = ?", update.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return e.ErrNotFound
		}

		cols := dbmodels.UpdateColumns(update)
		if len(cols) == 0 {
			return nil
		}
		return tx.Model(&dbmodels.Employee{}).Where("empid = ?", update.ID).Updates(cols).Error
	})
}

// DeleteEmployee removes the employee together with its jobs.
func (r *Repository) DeleteEmployee(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("empid = ?", id).Delete(&dbmodels.Job{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&dbmodels.Employee{}, "empid = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return e.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) EmployeeExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&dbmodels.Employee{}).
		Where("empid = ?", id).
		Limit(1).
		Count(&count)
	return count > 0, result.Error
}

// CreateJob inserts a job for an existing employee and sets job.ID.
func (r *Repository) CreateJob(ctx context.Context, job *models.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&dbmodels.Employee{}).Where("empid = ?", job.EmployeeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return e.ErrNotFound
		}

		row := dbmodels.JobFromDomain(job)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		job.ID = row.JobID
		return nil
	})
}

// ListJobs returns the jobs of one employee ordered by job id.
func (r *Repository) ListJobs(ctx context.Context, employeeID int64) ([]*models.Job, error) {
	var rows []dbmodels.Job
	result := r.db.WithContext(ctx).Where("empid = ?", employeeID).Order("jobid").Find(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	jobs := make([]*models.Job, 0, len(rows))
	for i := range rows {
		jobs = append(jobs, rows[i].ToDomain())
	}
	return jobs, nil
}

func (r *Repository) CreateDepartment(ctx context.Context, department *models.Department) error {
	row := dbmodels.DepartmentFromDomain(department)
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	department.ID = row.DepartmentID
	return nil
}

func (r *Repository) GetDepartment(ctx context.Context, id int64) (*models.Department, error) {
	var row dbmodels.Department
	result := r.db.WithContext(ctx).First(&row, "departmentid = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return row.ToDomain(), nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Exec(ctx context.Context, query string, params ...interface{}) error {
	result := r.db.WithContext(ctx).Exec(query, params...)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// Ping checks that the underlying connection is alive.
func (r *Repository) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}

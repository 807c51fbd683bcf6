package handlers

import (
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var registerTagNames sync.Once

// EmployeeHandler provides the HTTP endpoints for Employee operations,
// mapping requests to an EmployeeController.
type EmployeeHandler struct {
	service EmployeeController
	logger  *zap.Logger
}

// NewEmployeeHandler constructs a new EmployeeHandler with the given service and logger.
func NewEmployeeHandler(service EmployeeController, logger *zap.Logger) *EmployeeHandler {
	registerTagNames.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(jsonFieldName)
		}
	})
	return &EmployeeHandler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

// jsonFieldName reports validation failures under the JSON key of the field.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}

// RegisterRoutes mounts the employee, job and department endpoints on r.
func (h *EmployeeHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/employees/", h.CreateEmployee)
	r.GET("/employees/latest", h.GetLatestEmployee)
	r.GET("/employees/:id", h.GetEmployee)
	r.PUT("/employees/:id", h.UpdateEmployee)
	r.DELETE("/employees/:id", h.DeleteEmployee)
	r.POST("/employees/:id/jobs", h.CreateJob)
	r.GET("/employees/:id/jobs", h.ListJobs)
	r.POST("/departments/", h.CreateDepartment)
	r.GET("/departments/:id", h.GetDepartment)
}

// parseID extracts the positive integer path parameter "id".
func (h *EmployeeHandler) parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: "id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// CreateEmployee handles POST /employees/.
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: bindingMessage(err)})
		return
	}
	employee, err := requestToModel(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: err.Error()})
		return
	}

	created, err := h.service.CreateEmployee(c.Request.Context(), employee)
	if err != nil {
		h.logger.Warn("Create employee failed", zap.Error(err), zap.Int64("employee_id", employee.ID))
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusCreated, modelToResponse(created))
}

// GetLatestEmployee handles GET /employees/latest.
func (h *EmployeeHandler) GetLatestEmployee(c *gin.Context) {
	employee, err := h.service.GetLatestEmployee(c.Request.Context())
	if err != nil {
		h.mapServiceError(c, err, "No employees found")
		return
	}
	c.JSON(http.StatusOK, modelToResponse(employee))
}

// GetEmployee fetches an Employee by ID.
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	employee, err := h.service.GetEmployee(c.Request.Context(), id)
	if err != nil {
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, modelToResponse(employee))
}

// UpdateEmployee applies the fields present in the body to an existing Employee.
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req EmployeeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: bindingMessage(err)})
		return
	}
	update, err := requestToUpdate(&req, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: err.Error()})
		return
	}

	updated, err := h.service.UpdateEmployee(c.Request.Context(), update)
	if err != nil {
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, modelToResponse(updated))
}

// DeleteEmployee removes an Employee given its ID.
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Employee deleted successfully"})
}

func (h *EmployeeHandler) CreateJob(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: bindingMessage(err)})
		return
	}
	job, err := requestToJob(&req, id)
	if err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: err.Error()})
		return
	}
	created, err := h.service.AddJob(c.Request.Context(), job)
	if err != nil {
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusCreated, jobToResponse(created))
}

func (h *EmployeeHandler) ListJobs(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	jobs, err := h.service.ListJobs(c.Request.Context(), id)
	if err != nil {
		h.mapServiceError(c, err, "Employee not found")
		return
	}
	resp := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, jobToResponse(job))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmployeeHandler) CreateDepartment(c *gin.Context) {
	var req DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, MessageResponse{Detail: bindingMessage(err)})
		return
	}
	created, err := h.service.CreateDepartment(c.Request.Context(), requestToDepartment(&req))
	if err != nil {
		h.mapServiceError(c, err, "Department not found")
		return
	}
	c.JSON(http.StatusCreated, departmentToResponse(created))
}

func (h *EmployeeHandler) GetDepartment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	department, err := h.service.GetDepartment(c.Request.Context(), id)
	if err != nil {
		h.mapServiceError(c, err, "Department not found")
		return
	}
	c.JSON(http.StatusOK, departmentToResponse(department))
}

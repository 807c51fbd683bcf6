// Package normalizer splits flat project records into companies, clients,
// team members, projects and project assignments, persists them and verifies
// their foreign keys.
package normalizer

import "errors"

var (
	ErrEmptyInput         = errors.New("no project records")
	ErrInvalidRecord      = errors.New("invalid project record")
	ErrMalformedClient    = errors.New("client must be formatted as \"name, email\"")
	ErrConflictingProject = errors.New("project id reused with different content")
	ErrUnknownFormat      = errors.New("unknown input format")
)

// ProjectRecord is one denormalized input row.
type ProjectRecord struct {
	ProjectID    int64  `json:"Project ID" yaml:"Project ID"`
	ProjectName  string `json:"Project name" yaml:"Project name"`
	Company      string `json:"Company" yaml:"Company"`
	ClientID     string `json:"Client ID" yaml:"Client ID"`
	TeamLead     string `json:"Team Lead" yaml:"Team Lead"`
	TeamMembers  string `json:"Team Members" yaml:"Team Members"`
	Requirements string `json:"Requirements" yaml:"Requirements"`
	Deadline     string `json:"Deadline" yaml:"Deadline"`
}

type Company struct {
	ID   int64
	Name string
}

type Client struct {
	ID    int64
	Name  string
	Email string
}

type TeamMember struct {
	ID   int64
	Name string
}

type Project struct {
	ID           int64
	Name         string
	CompanyID    int64
	ClientID     int64
	Requirements string
	Deadline     string
}

type ProjectTeamMember struct {
	ProjectID    int64
	TeamMemberID int64
	IsTeamLead   bool
}

// Dataset holds the five normalized relations.
type Dataset struct {
	Companies          []Company
	Clients            []Client
	TeamMembers        []TeamMember
	Projects           []Project
	ProjectTeamMembers []ProjectTeamMember
}

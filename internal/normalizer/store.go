package normalizer

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type companyRow struct {
	CompanyID int64  `gorm:"column:CompanyID;primaryKey;autoIncrement:false"`
	Company   string `gorm:"column:Company"`
}

func (companyRow) TableName() string { return "Companies" }

type clientRow struct {
	ClientID    int64  `gorm:"column:ClientID;primaryKey;autoIncrement:false"`
	ClientName  string `gorm:"column:ClientName"`
	ClientEmail string `gorm:"column:ClientEmail"`
}

func (clientRow) TableName() string { return "Clients" }

type teamMemberRow struct {
	TeamMemberID int64  `gorm:"column:TeamMemberID;primaryKey;autoIncrement:false"`
	Name         string `gorm:"column:Name"`
}

func (teamMemberRow) TableName() string { return "TeamMembers" }

type projectRow struct {
	ProjectID    int64  `gorm:"column:ProjectID;primaryKey;autoIncrement:false"`
	ProjectName  string `gorm:"column:ProjectName"`
	CompanyID    int64  `gorm:"column:CompanyID"`
	ClientID     int64  `gorm:"column:ClientID"`
	Requirements string `gorm:"column:Requirements"`
	Deadline     string `gorm:"column:Deadline"`
}

func (projectRow) TableName() string { return "Projects" }

type projectTeamMemberRow struct {
	ProjectID    int64 `gorm:"column:ProjectID;primaryKey;autoIncrement:false"`
	TeamMemberID int64 `gorm:"column:TeamMemberID;primaryKey;autoIncrement:false"`
	IsTeamLead   bool  `gorm:"column:IsTeamLead"`
}

func (projectTeamMemberRow) TableName() string { return "ProjectTeamMembers" }

// Parent tables first; drops run in reverse.
var schema = []struct {
	table string
	ddl   string
}{
	{"Companies", `CREATE TABLE "Companies" (
		"CompanyID" BIGINT PRIMARY KEY,
		"Company" TEXT NOT NULL UNIQUE
	)`},
	{"Clients", `CREATE TABLE "Clients" (
		"ClientID" BIGINT PRIMARY KEY,
		"ClientName" TEXT,
		"ClientEmail" TEXT
	)`},
	{"TeamMembers", `CREATE TABLE "TeamMembers" (
		"TeamMemberID" BIGINT PRIMARY KEY,
		"Name" TEXT NOT NULL UNIQUE
	)`},
	{"Projects", `CREATE TABLE "Projects" (
		"ProjectID" BIGINT PRIMARY KEY,
		"ProjectName" TEXT,
		"CompanyID" BIGINT REFERENCES "Companies" ("CompanyID"),
		"ClientID" BIGINT REFERENCES "Clients" ("ClientID"),
		"Requirements" TEXT,
		"Deadline" TEXT
	)`},
	{"ProjectTeamMembers", `CREATE TABLE "ProjectTeamMembers" (
		"ProjectID" BIGINT REFERENCES "Projects" ("ProjectID"),
		"TeamMemberID" BIGINT REFERENCES "TeamMembers" ("TeamMemberID"),
		"IsTeamLead" BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY ("ProjectID", "TeamMemberID")
	)`},
}

// Store persists normalized datasets.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// OpenStore connects to a sqlite file or a postgres DSN.
func OpenStore(driver, dsn string, logger *zap.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	return NewStore(db, logger), nil
}

func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger.Named("store")}
}

// Replace drops and recreates the five tables and loads ds into them,
// all in one transaction.
func (s *Store) Replace(ctx context.Context, ds *Dataset) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := len(schema) - 1; i >= 0; i-- {
			if err := tx.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, schema[i].table)).Error; err != nil {
				return fmt.Errorf("drop %s: %w", schema[i].table, err)
			}
		}
		for _, t := range schema {
			if err := tx.Exec(t.ddl).Error; err != nil {
				return fmt.Errorf("create %s: %w", t.table, err)
			}
		}
		return insertDataset(tx, ds)
	})
	if err != nil {
		return err
	}
	s.logger.Info("dataset stored",
		zap.Int("companies", len(ds.Companies)),
		zap.Int("clients", len(ds.Clients)),
		zap.Int("team_members", len(ds.TeamMembers)),
		zap.Int("projects", len(ds.Projects)),
		zap.Int("project_team_members", len(ds.ProjectTeamMembers)),
	)
	return nil
}

func insertDataset(tx *gorm.DB, ds *Dataset) error {
	companies := make([]companyRow, 0, len(ds.Companies))
	for _, c := range ds.Companies {
		companies = append(companies, companyRow{CompanyID: c.ID, Company: c.Name})
	}
	clients := make([]clientRow, 0, len(ds.Clients))
	for _, c := range ds.Clients {
		clients = append(clients, clientRow{ClientID: c.ID, ClientName: c.Name, ClientEmail: c.Email})
	}
	members := make([]teamMemberRow, 0, len(ds.TeamMembers))
	for _, m := range ds.TeamMembers {
		members = append(members, teamMemberRow{TeamMemberID: m.ID, Name: m.Name})
	}
	projects := make([]projectRow, 0, len(ds.Projects))
	for _, p := range ds.Projects {
		projects = append(projects, projectRow{
			ProjectID:    p.ID,
			ProjectName:  p.Name,
			CompanyID:    p.CompanyID,
			ClientID:     p.ClientID,
			Requirements: p.Requirements,
			Deadline:     p.Deadline,
		})
	}
	assignments := make([]projectTeamMemberRow, 0, len(ds.ProjectTeamMembers))
	for _, a := range ds.ProjectTeamMembers {
		assignments = append(assignments, projectTeamMemberRow{
			ProjectID:    a.ProjectID,
			TeamMemberID: a.TeamMemberID,
			IsTeamLead:   a.IsTeamLead,
		})
	}

	if err := createRows(tx, "Companies", companies); err != nil {
		return err
	}
	if err := createRows(tx, "Clients", clients); err != nil {
		return err
	}
	if err := createRows(tx, "TeamMembers", members); err != nil {
		return err
	}
	if err := createRows(tx, "Projects", projects); err != nil {
		return err
	}
	return createRows(tx, "ProjectTeamMembers", assignments)
}

func createRows[T any](tx *gorm.DB, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if err := tx.CreateInBatches(&rows, 500).Error; err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// Load reads the stored relations back, ordered by key.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	db := s.db.WithContext(ctx)
	var (
		companies   []companyRow
		clients     []clientRow
		members     []teamMemberRow
		projects    []projectRow
		assignments []projectTeamMemberRow
	)
	if err := db.Order(`"CompanyID"`).Find(&companies).Error; err != nil {
		return nil, fmt.Errorf("load Companies: %w", err)
	}
	if err := db.Order(`"ClientID"`).Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("load Clients: %w", err)
	}
	if err := db.Order(`"TeamMemberID"`).Find(&members).Error; err != nil {
		return nil, fmt.Errorf("load TeamMembers: %w", err)
	}
	if err := db.Order(`"ProjectID"`).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("load Projects: %w", err)
	}
	if err := db.Order(`"ProjectID", "TeamMemberID"`).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("load ProjectTeamMembers: %w", err)
	}

	ds := &Dataset{}
	for _, r := range companies {
		ds.Companies = append(ds.Companies, Company{ID: r.CompanyID, Name: r.Company})
	}
	for _, r := range clients {
		ds.Clients = append(ds.Clients, Client{ID: r.ClientID, Name: r.ClientName, Email: r.ClientEmail})
	}
	for _, r := range members {
		ds.TeamMembers = append(ds.TeamMembers, TeamMember{ID: r.TeamMemberID, Name: r.Name})
	}
	for _, r := range projects {
		ds.Projects = append(ds.Projects, Project{
			ID:           r.ProjectID,
			Name:         r.ProjectName,
			CompanyID:    r.CompanyID,
			ClientID:     r.ClientID,
			Requirements: r.Requirements,
			Deadline:     r.Deadline,
		})
	}
	for _, r := range assignments {
		ds.ProjectTeamMembers = append(ds.ProjectTeamMembers, ProjectTeamMember{
			ProjectID:    r.ProjectID,
			TeamMemberID: r.TeamMemberID,
			IsTeamLead:   r.IsTeamLead,
		})
	}
	return ds, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

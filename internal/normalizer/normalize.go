package normalizer

import (
	"fmt"
	"strings"
)

// Normalize derives the five relations from records. Surrogate ids start at 1
// and follow first-seen order, so the same input always yields the same ids.
// Any malformed record aborts the whole batch.
func Normalize(records []ProjectRecord) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}
	for i, rec := range records {
		if rec.ProjectID <= 0 {
			return nil, fmt.Errorf("%w: record %d: project id must be positive", ErrInvalidRecord, i)
		}
		if strings.TrimSpace(rec.Company) == "" {
			return nil, fmt.Errorf("%w: record %d: company is required", ErrInvalidRecord, i)
		}
	}

	ds := &Dataset{}
	companyIDs := ds.dedupeCompanies(records)
	clientIDs, err := ds.splitClients(records)
	if err != nil {
		return nil, err
	}
	memberIDs := ds.collectTeamMembers(records)
	if err := ds.buildProjects(records, companyIDs, clientIDs); err != nil {
		return nil, err
	}
	ds.buildAssignments(records, memberIDs)
	return ds, nil
}

func (ds *Dataset) dedupeCompanies(records []ProjectRecord) map[string]int64 {
	ids := make(map[string]int64)
	for _, rec := range records {
		if _, ok := ids[rec.Company]; ok {
			continue
		}
		id := int64(len(ds.Companies) + 1)
		ids[rec.Company] = id
		ds.Companies = append(ds.Companies, Company{ID: id, Name: rec.Company})
	}
	return ids
}

func (ds *Dataset) splitClients(records []ProjectRecord) (map[string]int64, error) {
	ids := make(map[string]int64)
	for i, rec := range records {
		if _, ok := ids[rec.ClientID]; ok {
			continue
		}
		name, email, err := ParseClient(rec.ClientID)
		if err != nil {
			return nil, fmt.Errorf("record %d (project %d): %w", i, rec.ProjectID, err)
		}
		id := int64(len(ds.Clients) + 1)
		ids[rec.ClientID] = id
		ds.Clients = append(ds.Clients, Client{ID: id, Name: name, Email: email})
	}
	return ids, nil
}

// ParseClient splits a "name, email" string on its first comma.
func ParseClient(raw string) (name, email string, err error) {
	name, email, ok := strings.Cut(raw, ",")
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedClient, raw)
	}
	return strings.TrimSpace(name), strings.TrimSpace(email), nil
}

// SplitMembers splits a comma separated member list. Blank entries are
// dropped, so an empty string means no members.
func SplitMembers(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// teamOf returns the record's lead followed by its members.
func teamOf(rec ProjectRecord) []string {
	team := SplitMembers(rec.TeamMembers)
	if lead := strings.TrimSpace(rec.TeamLead); lead != "" {
		team = append([]string{lead}, team...)
	}
	return team
}

func (ds *Dataset) collectTeamMembers(records []ProjectRecord) map[string]int64 {
	ids := make(map[string]int64)
	for _, rec := range records {
		for _, name := range teamOf(rec) {
			if _, ok := ids[name]; ok {
				continue
			}
			id := int64(len(ds.TeamMembers) + 1)
			ids[name] = id
			ds.TeamMembers = append(ds.TeamMembers, TeamMember{ID: id, Name: name})
		}
	}
	return ids
}

func (ds *Dataset) buildProjects(records []ProjectRecord, companyIDs, clientIDs map[string]int64) error {
	seen := make(map[int64]Project)
	for _, rec := range records {
		p := Project{
			ID:           rec.ProjectID,
			Name:         rec.ProjectName,
			CompanyID:    companyIDs[rec.Company],
			ClientID:     clientIDs[rec.ClientID],
			Requirements: rec.Requirements,
			Deadline:     rec.Deadline,
		}
		if prev, ok := seen[p.ID]; ok {
			if prev != p {
				return fmt.Errorf("%w: project %d", ErrConflictingProject, p.ID)
			}
			continue
		}
		seen[p.ID] = p
		ds.Projects = append(ds.Projects, p)
	}
	return nil
}

func (ds *Dataset) buildAssignments(records []ProjectRecord, memberIDs map[string]int64) {
	type key struct{ project, member int64 }
	index := make(map[key]int)
	for _, rec := range records {
		lead := strings.TrimSpace(rec.TeamLead)
		for _, name := range teamOf(rec) {
			k := key{rec.ProjectID, memberIDs[name]}
			isLead := name == lead
			if i, ok := index[k]; ok {
				ds.ProjectTeamMembers[i].IsTeamLead = ds.ProjectTeamMembers[i].IsTeamLead || isLead
				continue
			}
			index[k] = len(ds.ProjectTeamMembers)
			ds.ProjectTeamMembers = append(ds.ProjectTeamMembers, ProjectTeamMember{
				ProjectID:    rec.ProjectID,
				TeamMemberID: k.member,
				IsTeamLead:   isLead,
			})
		}
	}
}

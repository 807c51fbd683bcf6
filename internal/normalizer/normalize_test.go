package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id int64, company, client, lead, members string) ProjectRecord {
	return ProjectRecord{
		ProjectID:    id,
		ProjectName:  "Project",
		Company:      company,
		ClientID:     client,
		TeamLead:     lead,
		TeamMembers:  members,
		Requirements: "Docs",
		Deadline:     "Dec 1, 2024",
	}
}

func TestParseClient(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantName  string
		wantEmail string
		wantErr   bool
	}{
		{name: "Simple", raw: "Jane Doe, jane@x.com", wantName: "Jane Doe", wantEmail: "jane@x.com"},
		{name: "ExtraWhitespace", raw: "  Jane Doe ,   jane@x.com  ", wantName: "Jane Doe", wantEmail: "jane@x.com"},
		{name: "SplitsOnFirstComma", raw: "Doe, Jane, jane@x.com", wantName: "Doe", wantEmail: "Jane, jane@x.com"},
		{name: "MissingComma", raw: "Jane Doe jane@x.com", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, email, err := ParseClient(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedClient)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantEmail, email)
		})
	}
}

func TestSplitMembers(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C"}, SplitMembers("A, B,C"))
	assert.Empty(t, SplitMembers(""))
	assert.Empty(t, SplitMembers(" , "))
}

func TestNormalize_SharedCompany(t *testing.T) {
	ds, err := Normalize([]ProjectRecord{
		record(1, "Acme", "Jane Doe, jane@x.com", "Alice", "Bob"),
		record(2, "Acme", "John Roe, john@x.com", "Carol", ""),
	})
	require.NoError(t, err)

	require.Len(t, ds.Companies, 1)
	assert.Equal(t, Company{ID: 1, Name: "Acme"}, ds.Companies[0])
	require.Len(t, ds.Projects, 2)
	for _, p := range ds.Projects {
		assert.Equal(t, int64(1), p.CompanyID)
	}
	assert.Equal(t, int64(1), ds.Projects[0].ClientID)
	assert.Equal(t, int64(2), ds.Projects[1].ClientID)
}

func TestNormalize_ClientSplitAndDedupe(t *testing.T) {
	ds, err := Normalize([]ProjectRecord{
		record(1, "Acme", "Jane Doe, jane@x.com", "Alice", ""),
		record(2, "Globex", "Jane Doe, jane@x.com", "Alice", ""),
	})
	require.NoError(t, err)

	require.Len(t, ds.Clients, 1)
	assert.Equal(t, Client{ID: 1, Name: "Jane Doe", Email: "jane@x.com"}, ds.Clients[0])
	assert.Equal(t, ds.Projects[0].ClientID, ds.Projects[1].ClientID)
}

func TestNormalize_TeamMembersFirstSeenOrder(t *testing.T) {
	records := []ProjectRecord{
		record(1, "Acme", "C, c@x.com", "Alice", "Bob, Dave"),
		record(2, "Acme", "C, c@x.com", "Carol", "Alice, Erin"),
	}
	ds, err := Normalize(records)
	require.NoError(t, err)

	assert.Equal(t, []TeamMember{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
		{ID: 3, Name: "Dave"},
		{ID: 4, Name: "Carol"},
		{ID: 5, Name: "Erin"},
	}, ds.TeamMembers)

	again, err := Normalize(records)
	require.NoError(t, err)
	assert.Equal(t, ds, again, "ids must be stable across runs")
}

func TestNormalize_Assignments(t *testing.T) {
	ds, err := Normalize([]ProjectRecord{
		record(1, "Acme", "C, c@x.com", "Alice", "Bob"),
		record(2, "Acme", "C, c@x.com", "Bob", "Alice, Bob"),
		record(3, "Acme", "C, c@x.com", "Carol", ""),
	})
	require.NoError(t, err)

	assert.Equal(t, []ProjectTeamMember{
		{ProjectID: 1, TeamMemberID: 1, IsTeamLead: true},
		{ProjectID: 1, TeamMemberID: 2, IsTeamLead: false},
		{ProjectID: 2, TeamMemberID: 2, IsTeamLead: true},
		{ProjectID: 2, TeamMemberID: 1, IsTeamLead: false},
		{ProjectID: 3, TeamMemberID: 3, IsTeamLead: true},
	}, ds.ProjectTeamMembers)
}

func TestNormalize_DuplicateProjectRows(t *testing.T) {
	rec := record(1, "Acme", "C, c@x.com", "Alice", "Bob")
	ds, err := Normalize([]ProjectRecord{rec, rec})
	require.NoError(t, err)
	assert.Len(t, ds.Projects, 1)
	assert.Len(t, ds.ProjectTeamMembers, 2)

	changed := rec
	changed.Deadline = "Jan 1, 2030"
	_, err = Normalize([]ProjectRecord{rec, changed})
	assert.ErrorIs(t, err, ErrConflictingProject)
}

func TestNormalize_Errors(t *testing.T) {
	_, err := Normalize(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = Normalize([]ProjectRecord{record(0, "Acme", "C, c@x.com", "Alice", "")})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Normalize([]ProjectRecord{record(1, " ", "C, c@x.com", "Alice", "")})
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Normalize([]ProjectRecord{
		record(1, "Acme", "C, c@x.com", "Alice", ""),
		record(2, "Acme", "no comma here", "Alice", ""),
	})
	assert.ErrorIs(t, err, ErrMalformedClient)
}

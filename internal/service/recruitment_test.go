package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
)

func TestRecruitmentCRUD(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	openings := NewRecruitmentService(f.deps)

	dept, err := NewDepartmentService(f.deps).Create(acme.hr, DepartmentInput{Name: "Engineering", Description: "Builds"})
	require.NoError(t, err)

	_, err = openings.Create(acme.hr, RecruitmentInput{JobTitle: "Backend Engineer"})
	assert.True(t, domain.IsValidation(err))

	rc, err := openings.Create(acme.hr, RecruitmentInput{
		JobTitle: " Backend Engineer ", Description: "Go services", DepartmentID: dept.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", rc.JobTitle)
	assert.Equal(t, acme.tenantID, rc.TenantID)

	_, err = openings.Create(acme.hr, RecruitmentInput{JobTitle: "backend engineer", Description: "again"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = openings.Create(acme.hr, RecruitmentInput{JobTitle: "Designer", Description: "UI", DepartmentID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := openings.Update(acme.hr, RecruitmentUpdate{ID: rc.ID, Description: ptr("Go and Postgres")})
	require.NoError(t, err)
	assert.Equal(t, "Go and Postgres", updated.Description)
	assert.Equal(t, "Backend Engineer", updated.JobTitle)

	_, err = openings.Update(acme.hr, RecruitmentUpdate{ID: rc.ID, JobTitle: ptr("  ")})
	assert.True(t, domain.IsValidation(err))

	list, err := openings.List(acme.hr)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, openings.Delete(acme.hr, rc.ID))
	_, err = openings.Get(acme.hr, rc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, openings.Delete(acme.hr, rc.ID), domain.ErrNotFound)
}

func TestRecruitmentIsTenantScoped(t *testing.T) {
	f := newFixture(t)
	acme := f.signupOrg(t, "acme", "hana@acme.test")
	globex := f.signupOrg(t, "globex", "gil@globex.test")
	openings := NewRecruitmentService(f.deps)

	rc, err := openings.Create(acme.hr, RecruitmentInput{JobTitle: "Recruiter", Description: "Hire people"})
	require.NoError(t, err)

	// Job titles are unique per organization only.
	_, err = openings.Create(globex.hr, RecruitmentInput{JobTitle: "Recruiter", Description: "Hire people"})
	require.NoError(t, err)

	_, err = openings.Get(globex.hr, rc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = openings.Update(globex.hr, RecruitmentUpdate{ID: rc.ID, Description: ptr("taken over")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, openings.Delete(globex.hr, rc.ID), domain.ErrNotFound)

	list, err := openings.List(globex.hr)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.NotEqual(t, rc.ID, list[0].ID)
}

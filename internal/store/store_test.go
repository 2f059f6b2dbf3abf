package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumatch/internal/domain"
)

func TestStoreAssignsSequentialIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	s, err := Open(path, nil)
	require.NoError(t, err)

	r1, err := s.AddResume(Resume{RawText: "first resume"})
	require.NoError(t, err)
	r2, err := s.AddResume(Resume{RawText: "second resume"})
	require.NoError(t, err)
	j1, err := s.AddJob(JobPosting{RawText: "a job"})
	require.NoError(t, err)

	assert.Equal(t, "resume_1", r1.ID)
	assert.Equal(t, "resume_2", r2.ID)
	assert.Equal(t, "job_1", j1.ID)
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	s, err := Open(path, nil)
	require.NoError(t, err)

	_, err = s.AddResume(Resume{
		Name:    "Jane Doe",
		Skills:  []string{"Python", "SQL"},
		RawText: "Jane Doe. Python and SQL.",
	})
	require.NoError(t, err)
	_, err = s.AddJob(JobPosting{Title: "Data Analyst", RawText: "We need SQL."})
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)

	r, err := reopened.GetResume("resume_1")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", r.Name)
	assert.Equal(t, []string{"Python", "SQL"}, r.Skills)

	j, err := reopened.GetJob("job_1")
	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", j.Title)

	assert.Len(t, reopened.ListResumes(), 1)
	assert.Len(t, reopened.ListJobs(), 1)
}

func TestStoreMissingDocuments(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "docs.json"), nil)
	require.NoError(t, err)

	_, err = s.GetResume("resume_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetJob("job_404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(path, nil)
	require.NoError(t, err)
	assert.Empty(t, s.ListResumes())

	r, err := s.AddResume(Resume{RawText: "fresh start"})
	require.NoError(t, err)
	assert.Equal(t, "resume_1", r.ID)
}

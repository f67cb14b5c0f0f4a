package versioning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

func TestCreateAndReadVersion(t *testing.T) {
	base := t.TempDir()
	v, err := CreateVersion("job-1", base, "")
	require.NoError(t, err)

	_, err = uuid.Parse(v.VersionID)
	require.NoError(t, err)
	assert.Equal(t, "delivery", v.Label)
	assert.Equal(t, filepath.Join(base, "versions", "job-1", v.VersionID), v.Dir)
	assert.DirExists(t, v.Dir)

	v.Files = []string{"index.php", "README.md"}
	require.NoError(t, v.Save())
	assert.FileExists(t, filepath.Join(v.Dir, "version.json"))

	got, err := ReadVersion(base, "job-1", v.VersionID)
	require.NoError(t, err)
	assert.Equal(t, v.VersionID, got.VersionID)
	assert.Equal(t, []string{"README.md", "index.php"}, got.Files)
	assert.True(t, v.CreatedAt.Equal(got.CreatedAt))
}

func TestCreateVersion_Defaults(t *testing.T) {
	base := t.TempDir()
	v, err := CreateVersion("", base, "x")
	require.NoError(t, err)
	assert.Equal(t, "adhoc", v.JobID)
}

func TestReadVersion_Errors(t *testing.T) {
	_, err := ReadVersion(t.TempDir(), "", "v")
	assert.Error(t, err)

	_, err = ReadVersion(t.TempDir(), "job", "missing")
	assert.True(t, os.IsNotExist(err))
}

func TestListVersions(t *testing.T) {
	base := t.TempDir()
	empty, err := ListVersions(base, "none")
	require.NoError(t, err)
	assert.Empty(t, empty)

	a, err := CreateVersion("job", base, "a")
	require.NoError(t, err)
	require.NoError(t, a.Save())
	b, err := CreateVersion("job", base, "b")
	require.NoError(t, err)
	b.CreatedAt = a.CreatedAt.Add(1)
	require.NoError(t, b.Save())
	// directory without metadata is skipped
	require.NoError(t, os.MkdirAll(filepath.Join(base, "versions", "job", "stray"), 0755))

	list, err := ListVersions(base, "job")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Label)
	assert.Equal(t, "b", list[1].Label)
}

func TestVersions_RejectInvalidJobID(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")

	for _, id := range []string{"../../escaped", "a/b", "..", "job 1", `a\b`} {
		_, err := CreateVersion(id, base, "")
		require.ErrorIs(t, err, domain.ErrInvalidJobID, id)

		_, err = ListVersions(base, id)
		require.ErrorIs(t, err, domain.ErrInvalidJobID, id)

		_, err = ReadVersion(base, id, "v1")
		require.ErrorIs(t, err, domain.ErrInvalidJobID, id)
	}
	assert.NoDirExists(t, base)
}

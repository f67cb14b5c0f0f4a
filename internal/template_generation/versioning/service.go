package versioning

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/domain"
)

const metaFile = "version.json"

// Version describes one delivered package under
// <outBaseDir>/versions/<jobID>/<versionID>.
type Version struct {
	JobID     string    `json:"job_id" yaml:"job_id"`
	VersionID string    `json:"version_id" yaml:"version_id"`
	Label     string    `json:"label" yaml:"label"`
	Dir       string    `json:"dir" yaml:"dir"`
	Files     []string  `json:"files" yaml:"files"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// CreateVersion allocates a fresh version directory. Files are filled in by
// the caller and recorded with Save.
func CreateVersion(jobID, outBaseDir, label string) (*Version, error) {
	if outBaseDir == "" {
		outBaseDir = "out"
	}
	if err := domain.ValidateJobID(jobID); err != nil {
		return nil, err
	}
	if jobID == "" {
		jobID = "adhoc"
	}
	if label == "" {
		label = "delivery"
	}

	vid := uuid.NewString()
	dir := filepath.Join(outBaseDir, "versions", jobID, vid)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create version dir: %w", err)
	}

	return &Version{
		JobID:     jobID,
		VersionID: vid,
		Label:     label,
		Dir:       dir,
		Files:     []string{},
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Save writes version.json into the version directory.
func (v *Version) Save() error {
	sort.Strings(v.Files)
	meta, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(v.Dir, metaFile), meta, 0644)
}

func ReadVersion(outBaseDir, jobID, versionID string) (*Version, error) {
	if outBaseDir == "" {
		outBaseDir = "out"
	}
	if jobID == "" || versionID == "" {
		return nil, fmt.Errorf("jobID and versionID are required")
	}
	if err := domain.ValidateJobID(jobID); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(filepath.Join(outBaseDir, "versions", jobID, versionID, metaFile))
	if err != nil {
		return nil, err
	}
	var v Version
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ListVersions returns the versions of a job, oldest first. An unknown job
// yields an empty list.
func ListVersions(outBaseDir, jobID string) ([]*Version, error) {
	if outBaseDir == "" {
		outBaseDir = "out"
	}
	if err := domain.ValidateJobID(jobID); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(outBaseDir, "versions", jobID))
	if os.IsNotExist(err) {
		return []*Version{}, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]*Version, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := ReadVersion(outBaseDir, jobID, e.Name())
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

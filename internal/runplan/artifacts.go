package runplan

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"tactile/internal/model"
)

const (
	PlanFile        = "plan.yaml"
	LowerParamsFile = "params_lower.yaml"
	UpperParamsFile = "params_upper.yaml"
	SourceFile      = "source_config.yaml"
	runIndexFile    = "run_index.json"
)

// RunIndexEntry is one line of training_log/run_index.json. Seq grows with
// every appended run and orders runs created within the same second.
type RunIndexEntry struct {
	RunID          string `json:"run_id"`
	Seq            int    `json:"seq"`
	Name           string `json:"name"`
	EnvName        string `json:"env_name"`
	LogDir         string `json:"log_dir"`
	Parallel       int    `json:"parallel"`
	TotalTimesteps int    `json:"total_timesteps"`
	Status         string `json:"status,omitempty"`
	CreatedAtUTC   string `json:"created_at_utc"`
}

var ErrRunNotIndexed = errors.New("run not in index")

// WriteArtifacts writes the plan files into the plan's log directory and
// returns the plan file path.
func WriteArtifacts(plan Plan) (string, error) {
	if plan.RunID == "" {
		return "", errors.New("run id is required")
	}
	if plan.LogDir == "" {
		return "", errors.New("log dir is required")
	}
	if err := os.MkdirAll(plan.LogDir, 0o755); err != nil {
		return "", err
	}

	planPath := filepath.Join(plan.LogDir, PlanFile)
	if err := writeYAML(planPath, plan.Config); err != nil {
		return "", fmt.Errorf("write plan: %w", err)
	}
	if err := writeYAML(filepath.Join(plan.LogDir, LowerParamsFile), plan.Lower); err != nil {
		return "", err
	}
	if err := writeYAML(filepath.Join(plan.LogDir, UpperParamsFile), plan.Upper); err != nil {
		return "", err
	}
	if plan.ConfigPath != "" {
		if err := copyFile(plan.ConfigPath, filepath.Join(plan.LogDir, SourceFile)); err != nil {
			return "", fmt.Errorf("copy source config: %w", err)
		}
	}
	return planPath, nil
}

func (p Plan) IndexEntry() RunIndexEntry {
	return RunIndexEntry{
		RunID:          p.RunID,
		Name:           p.Name,
		EnvName:        p.EnvName,
		LogDir:         p.LogDir,
		Parallel:       p.trainInt("parallel"),
		TotalTimesteps: p.trainInt("total_timesteps"),
		Status:         model.RunPlanned,
		CreatedAtUTC:   p.CreatedAt.Format(time.RFC3339),
	}
}

// AppendRunIndex adds entry to the index under baseDir. An entry with a run
// id already present replaces it in place and keeps its sequence number.
func AppendRunIndex(baseDir string, entry RunIndexEntry) error {
	if entry.RunID == "" {
		return errors.New("run id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(baseDir, runIndexFile)
	index, err := readRunIndex(path)
	if err != nil {
		return err
	}

	next := 1
	for i, e := range index {
		if e.RunID == entry.RunID {
			entry.Seq = e.Seq
			index[i] = entry
			return writeJSON(path, index)
		}
		next = max(next, e.Seq+1)
	}
	entry.Seq = next
	return writeJSON(path, append(index, entry))
}

// SetRunIndexStatus records the latest status of an indexed run.
func SetRunIndexStatus(baseDir, runID, status string) error {
	path := filepath.Join(baseDir, runIndexFile)
	index, err := readRunIndex(path)
	if err != nil {
		return err
	}
	for i := range index {
		if index[i].RunID == runID {
			index[i].Status = status
			return writeJSON(path, index)
		}
	}
	return fmt.Errorf("%w: %s", ErrRunNotIndexed, runID)
}

// ListRunIndex returns index entries newest first. Entries created in the
// same second are ordered by sequence number, then by file position.
func ListRunIndex(baseDir string) ([]RunIndexEntry, error) {
	index, err := readRunIndex(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		return nil, err
	}
	slices.Reverse(index)
	slices.SortStableFunc(index, func(a, b RunIndexEntry) int {
		if c := cmp.Compare(b.CreatedAtUTC, a.CreatedAtUTC); c != 0 {
			return c
		}
		return cmp.Compare(b.Seq, a.Seq)
	})
	return index, nil
}

// FindRunIndex returns the indexed run with the given id.
func FindRunIndex(baseDir, runID string) (RunIndexEntry, error) {
	index, err := readRunIndex(filepath.Join(baseDir, runIndexFile))
	if err != nil {
		return RunIndexEntry{}, err
	}
	for _, e := range index {
		if e.RunID == runID {
			return e, nil
		}
	}
	return RunIndexEntry{}, fmt.Errorf("%w: %s", ErrRunNotIndexed, runID)
}

// readRunIndex returns the entries in file order. A missing file is an
// empty index.
func readRunIndex(path string) ([]RunIndexEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return []RunIndexEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	var index []RunIndexEntry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return index, nil
}

func writeYAML(path string, value any) error {
	data, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return writeFileAtomic(dst, data)
}

// writeFileAtomic replaces path through a temporary file in the same
// directory so readers never see a partial file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

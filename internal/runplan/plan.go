// Package runplan assembles a training run from a run configuration and
// command-line overrides and writes the resulting artifacts.
package runplan

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	"tactile/internal/envparams"
	"tactile/internal/model"
	"tactile/internal/policy"
	"tactile/internal/runconfig"
)

const (
	LogRootDir      = "training_log"
	logDirTimestamp = "%Y-%m-%d_%H-%M-%S"
)

type Options struct {
	TrackRoot  string
	ConfigPath string
	ActionDim  int
	// Now defaults to time.Now.
	Now func() time.Time
}

// Plan is a fully prepared run: the finalized configuration plus the
// environment parameter bounds it was derived with.
type Plan struct {
	RunID      string
	Name       string
	EnvName    string
	EnvKind    envparams.Kind
	LogDir     string
	ConfigPath string
	CreatedAt  time.Time
	Config     runconfig.Document
	Lower      envparams.Params
	Upper      envparams.Params
	Applied    []runconfig.Applied
}

// LogDir is <trackRoot>/training_log/<name>_<timestamp>.
func LogDir(trackRoot, name string, t time.Time) string {
	return filepath.Join(trackRoot, LogRootDir, name+"_"+strftime.Format(logDirTimestamp, t))
}

// Build merges overrides into doc, derives the environment bounds and
// finalizes the policy section. doc is not modified.
func Build(doc runconfig.Document, overrides []runconfig.Override, opts Options) (Plan, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	createdAt := now()

	merged, applied, err := runconfig.Merge(doc, overrides)
	if err != nil {
		return Plan{}, fmt.Errorf("merge overrides: %w", err)
	}

	train, err := merged.Section(runconfig.SectionTrain)
	if err != nil {
		return Plan{}, err
	}
	rawName, ok := train["name"]
	if !ok || rawName == nil {
		return Plan{}, fmt.Errorf("%w: train.name", runconfig.ErrMissingKey)
	}
	name := fmt.Sprint(rawName)

	env, err := merged.Section(runconfig.SectionEnv)
	if err != nil {
		return Plan{}, err
	}
	envName, ok := runconfig.AsString(env["env_name"])
	if !ok {
		return Plan{}, fmt.Errorf("%w: env.env_name", runconfig.ErrMissingKey)
	}
	kind, err := envparams.ParseKind(envName)
	if err != nil {
		return Plan{}, err
	}
	var overridesForParams map[string]any
	if raw, ok := env["params"]; ok && raw != nil {
		overridesForParams, ok = raw.(map[string]any)
		if !ok {
			return Plan{}, fmt.Errorf("env.params: expected a mapping, got %T", raw)
		}
	}
	lower, upper, err := envparams.DeriveBounds(envName, overridesForParams)
	if err != nil {
		return Plan{}, fmt.Errorf("derive %s parameters: %w", envName, err)
	}
	env["params"] = lower
	env["params_upper_bound"] = upper

	logDir := LogDir(opts.TrackRoot, name, createdAt)
	final, err := policy.Finalize(merged, policy.Options{
		LogDir:    logDir,
		TrackRoot: opts.TrackRoot,
		ActionDim: opts.ActionDim,
	})
	if err != nil {
		return Plan{}, fmt.Errorf("finalize policy: %w", err)
	}

	return Plan{
		RunID:      uuid.NewString(),
		Name:       name,
		EnvName:    envName,
		EnvKind:    kind,
		LogDir:     logDir,
		ConfigPath: opts.ConfigPath,
		CreatedAt:  createdAt.UTC(),
		Config:     final,
		Lower:      lower,
		Upper:      upper,
		Applied:    applied,
	}, nil
}

func (p Plan) trainInt(key string) int {
	v, ok := p.Config.Lookup(runconfig.SectionTrain, key)
	if !ok {
		return 0
	}
	n, _ := runconfig.AsInt(v)
	return n
}

// Summary is a one-line description for logs.
func (p Plan) Summary() string {
	return fmt.Sprintf("run %s env=%s parallel=%d total_timesteps=%s log_dir=%s",
		p.Name, p.EnvName, p.trainInt("parallel"), humanize.Comma(int64(p.trainInt("total_timesteps"))), p.LogDir)
}

// Record converts the plan into its persisted form.
func (p Plan) Record(planPath, status string) model.RunRecord {
	overrides := make([]model.OverrideRecord, 0, len(p.Applied))
	for _, a := range p.Applied {
		overrides = append(overrides, model.OverrideRecord{
			Key:         a.Key,
			Value:       fmt.Sprint(a.Value),
			Destination: a.Destination.String(),
		})
	}
	return model.RunRecord{
		ID:             p.RunID,
		Name:           p.Name,
		EnvName:        p.EnvName,
		EnvKind:        p.EnvKind.String(),
		ConfigPath:     p.ConfigPath,
		LogDir:         p.LogDir,
		PlanPath:       planPath,
		Seed:           p.trainInt("seed"),
		Parallel:       p.trainInt("parallel"),
		TotalTimesteps: p.trainInt("total_timesteps"),
		Overrides:      overrides,
		Status:         status,
		CreatedAtUTC:   p.CreatedAt.Format(time.RFC3339),
	}
}

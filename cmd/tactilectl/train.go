package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"tactile/internal/ctxlog"
	"tactile/internal/launch"
	"tactile/internal/model"
	"tactile/internal/policy"
	"tactile/internal/runconfig"
	"tactile/internal/runplan"
	"tactile/internal/storage"
)

type flagKind int

const (
	flagString flagKind = iota
	flagInt
	flagFloat
	flagBool
)

type overrideFlag struct {
	name  string
	kind  flagKind
	usage string
}

// overrideFlags may be set in the YAML file and overwritten on the command
// line. Order matches the order overrides are applied in.
var overrideFlags = []overrideFlag{
	{"cfg", flagString, "specify the config file for the run"},
	{"checkpoint_every", flagInt, "checkpoint interval in timesteps"},
	{"buffer_size", flagInt, "replay buffer size"},
	{"learning_rate", flagFloat, "optimizer learning rate"},
	{"learning_starts", flagInt, "timesteps collected before learning starts"},
	{"batch_size", flagInt, "minibatch size"},
	{"train_freq", flagInt, "environment steps between updates"},
	{"policy_delay", flagInt, "critic updates per actor update"},
	{"gradient_steps", flagInt, "gradient steps per update"},
	{"total_timesteps", flagInt, "total training timesteps"},
	{"parallel", flagInt, "parallel environment count"},
	{"timeout", flagFloat, "environment step timeout in seconds"},
	{"eval_freq", flagInt, "evaluation interval"},
	{"n_eval", flagInt, "episodes per evaluation"},
	{"log_interval", flagInt, "logging interval"},
	{"name", flagString, "suffix appended to train.name"},
	{"seed", flagInt, "random seed"},
	{"no_render", flagBool, "renderless mode"},
}

func registerOverrideFlags(fs *pflag.FlagSet) {
	for _, f := range overrideFlags {
		switch f.kind {
		case flagString:
			fs.String(f.name, "", f.usage)
		case flagInt:
			fs.Int(f.name, 0, f.usage)
		case flagFloat:
			fs.Float64(f.name, 0, f.usage)
		case flagBool:
			fs.Bool(f.name, false, f.usage)
		}
	}
}

// collectOverrides returns the override flags the user set. Boolean switches
// always carry a value and are always returned.
func collectOverrides(fs *pflag.FlagSet) ([]runconfig.Override, error) {
	overrides := make([]runconfig.Override, 0, len(overrideFlags))
	for _, f := range overrideFlags {
		if f.kind != flagBool && !fs.Changed(f.name) {
			continue
		}
		var (
			v   any
			err error
		)
		switch f.kind {
		case flagString:
			v, err = fs.GetString(f.name)
		case flagInt:
			v, err = fs.GetInt(f.name)
		case flagFloat:
			v, err = fs.GetFloat64(f.name)
		case flagBool:
			v, err = fs.GetBool(f.name)
		}
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, runconfig.Override{Key: f.name, Value: v})
	}
	return overrides, nil
}

func newTrainCmd(s settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train --cfg <file> [overrides]",
		Short: "Merge overrides into a run config, write the plan and start the trainer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd.Context(), cmd.Flags(), s)
		},
	}
	fs := cmd.Flags()
	registerOverrideFlags(fs)
	fs.String("trainer-cmd", "", "trainer executable; receives --plan <path> (empty: write the plan only)")
	fs.StringSlice("trainer-arg", nil, "argument passed to the trainer before --plan (repeatable)")
	fs.Int("action-dim", policy.DefaultActionDim, "action dimensionality for exploration noise")
	fs.Bool("dry-run", false, "write the plan and record the run without starting the trainer")
	_ = s.v.BindPFlag("trainer-cmd", fs.Lookup("trainer-cmd"))
	return cmd
}

func runTrain(ctx context.Context, fs *pflag.FlagSet, s settings) error {
	logger := ctxlog.FromContext(ctx)

	cfgPath, err := fs.GetString("cfg")
	if err != nil {
		return err
	}
	if cfgPath == "" {
		return errors.New("--cfg is required")
	}
	overrides, err := collectOverrides(fs)
	if err != nil {
		return err
	}
	actionDim, err := fs.GetInt("action-dim")
	if err != nil {
		return err
	}
	trainerArgs, err := fs.GetStringSlice("trainer-arg")
	if err != nil {
		return err
	}
	dryRun, err := fs.GetBool("dry-run")
	if err != nil {
		return err
	}
	trackRoot, err := s.trackRoot()
	if err != nil {
		return err
	}

	doc, err := runconfig.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	plan, err := runplan.Build(doc, overrides, runplan.Options{
		TrackRoot:  trackRoot,
		ConfigPath: cfgPath,
		ActionDim:  actionDim,
	})
	if err != nil {
		return err
	}
	for _, a := range plan.Applied {
		logger.Info("override applied", "destination", a.Destination.String(), "key", a.Key, "value", a.Value)
	}

	planPath, err := runplan.WriteArtifacts(plan)
	if err != nil {
		return err
	}
	logRoot := filepath.Join(trackRoot, runplan.LogRootDir)
	if err := runplan.AppendRunIndex(logRoot, plan.IndexEntry()); err != nil {
		return fmt.Errorf("update run index: %w", err)
	}

	store, err := storage.NewStore(s.storeKind(), s.dbPath())
	if err != nil {
		return err
	}
	defer func() {
		_ = storage.Close(store)
	}()
	if err := store.Init(ctx); err != nil {
		return err
	}
	// The index carries the status as well so memory-store runs stay visible
	// to later `runs` calls.
	record := func(status string) error {
		if err := store.SaveRun(ctx, plan.Record(planPath, status)); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if err := runplan.SetRunIndexStatus(logRoot, plan.RunID, status); err != nil {
			return fmt.Errorf("update run index: %w", err)
		}
		return nil
	}
	if err := record(model.RunPlanned); err != nil {
		return err
	}
	logger.Info("run planned", "run_id", plan.RunID, "summary", plan.Summary(), "plan", planPath)

	trainerCmd := s.v.GetString("trainer-cmd")
	if dryRun || trainerCmd == "" {
		return launch.ExecLauncher{}.Launch(ctx, planPath)
	}

	if err := record(model.RunLaunched); err != nil {
		return err
	}
	launcher := launch.ExecLauncher{Command: trainerCmd, Args: trainerArgs, Dir: trackRoot}
	launchErr := launcher.Launch(ctx, planPath)
	status := model.RunFinished
	if launchErr != nil {
		status = model.RunFailed
	}
	if err := record(status); err != nil {
		return errors.Join(launchErr, err)
	}
	return launchErr
}

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tactile/internal/envparams"
	"tactile/internal/model"
	"tactile/internal/runconfig"
	"tactile/internal/runplan"
)

const testConfig = `
env:
  env_name: PegInsertionRandomizedMarkerEnv-v2
  params:
    peg_friction: [4.0, 15.0]
policy:
  policy_name: TD3PolicyForPointFlowEnv
  action_noise: 0.5
  policy_kwargs:
    features_extractor_class: State
train:
  name: peg
  device: cpu
  seed: 0
  parallel: 2
  total_timesteps: 1000
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "peg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCollectOverridesOnlyReturnsSetFlags(t *testing.T) {
	cmd := newTrainCmd(settings{v: newRootViper()})
	require.NoError(t, cmd.Flags().Parse([]string{"--seed", "7", "--learning_rate", "0.001", "--name", "b"}))

	overrides, err := collectOverrides(cmd.Flags())
	require.NoError(t, err)
	require.Equal(t, []runconfig.Override{
		{Key: "learning_rate", Value: 0.001},
		{Key: "name", Value: "b"},
		{Key: "seed", Value: 7},
		{Key: "no_render", Value: false},
	}, overrides)
}

func TestCollectOverridesNoRender(t *testing.T) {
	cmd := newTrainCmd(settings{v: newRootViper()})
	require.NoError(t, cmd.Flags().Parse([]string{"--no_render"}))

	overrides, err := collectOverrides(cmd.Flags())
	require.NoError(t, err)
	require.Equal(t, []runconfig.Override{{Key: "no_render", Value: true}}, overrides)
}

func TestTrainRejectsBadFlagType(t *testing.T) {
	_, err := execute(t, "train", "--cfg", writeConfig(t), "--seed", "abc")
	require.Error(t, err)
}

func TestTrainRequiresConfig(t *testing.T) {
	_, err := execute(t, "train", "--log-format", "json", "--track-root", t.TempDir())
	require.ErrorContains(t, err, "--cfg is required")
}

func TestTrainDryRunWritesPlan(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t)

	_, err := execute(t, "train",
		"--cfg", cfg,
		"--track-root", root,
		"--store", "memory",
		"--log-format", "json",
		"--name", "b",
		"--seed", "5",
		"--dry-run",
	)
	require.NoError(t, err)

	entries, err := runplan.ListRunIndex(filepath.Join(root, runplan.LogRootDir))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "peg_b", entries[0].Name)

	data, err := os.ReadFile(filepath.Join(entries[0].LogDir, runplan.PlanFile))
	require.NoError(t, err)
	plan, err := runconfig.Parse(data)
	require.NoError(t, err)

	seed, _ := plan.Lookup("policy", "seed")
	require.Equal(t, 5, seed)
	noRender, _ := plan.Lookup("no_render")
	require.Equal(t, false, noRender)
	tb, _ := plan.Lookup("policy", "tensorboard_log")
	require.Equal(t, entries[0].LogDir, tb)
}

func TestParamsPrintsBounds(t *testing.T) {
	out, err := execute(t, "params", "--cfg", writeConfig(t), "--log-format", "json", "--samples", "2")
	require.NoError(t, err)

	var got struct {
		Lower   envparams.Params   `yaml:"lower"`
		Upper   envparams.Params   `yaml:"upper"`
		Samples []envparams.Params `yaml:"samples"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, 4.0, got.Lower.PegFriction)
	require.Equal(t, 15.0, got.Upper.PegFriction)
	require.Len(t, got.Samples, 2)
	for _, s := range got.Samples {
		require.GreaterOrEqual(t, s.PegFriction, 4.0)
		require.LessOrEqual(t, s.PegFriction, 15.0)
	}
}

func TestRunsListsIndexForMemoryStore(t *testing.T) {
	root := t.TempDir()
	cfg := writeConfig(t)
	for _, name := range []string{"a", "b"} {
		_, err := execute(t, "train", "--cfg", cfg, "--track-root", root, "--store", "memory",
			"--log-format", "json", "--name", name, "--dry-run")
		require.NoError(t, err)
	}

	out, err := execute(t, "runs", "--track-root", root, "--store", "memory", "--log-format", "json", "--json")
	require.NoError(t, err)
	var runs []model.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 2)
	require.Equal(t, "peg_b", runs[0].Name)
	require.Equal(t, "peg_a", runs[1].Name)
	require.Equal(t, model.RunPlanned, runs[0].Status)

	out, err = execute(t, "runs", "--track-root", root, "--store", "memory", "--log-format", "json", "--id", runs[1].ID, "--json")
	require.NoError(t, err)
	var one []model.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &one))
	require.Len(t, one, 1)
	require.Equal(t, "peg_a", one[0].Name)

	_, err = execute(t, "runs", "--track-root", root, "--store", "memory", "--log-format", "json", "--id", "missing")
	require.ErrorIs(t, err, runplan.ErrRunNotIndexed)

	out, err = execute(t, "runs", "--track-root", root, "--store", "memory", "--log-format", "json", "--limit", "1", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &runs))
	require.Len(t, runs, 1)
}

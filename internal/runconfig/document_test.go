package runconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleYAML = `
env:
  env_name: PegInsertionRandomizedMarkerEnv-v2
  params:
    peg_friction: [4.0, 15.0]
    indentation_depth_mm: 1.0
policy:
  policy_name: TD3PolicyForPointFlowEnv
  action_noise: 0.5
  policy_kwargs:
    features_extractor_class: PointCloud
    net_arch: [256, 256]
train:
  name: peg
  seed: 0
  parallel: 2
  device: cuda
`

func TestLoadDecodesNestedMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peg.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)

	v, ok := doc.Lookup("policy", "policy_kwargs", "features_extractor_class")
	require.True(t, ok)
	require.Equal(t, "PointCloud", v)

	friction, ok := doc.Lookup("env", "params", "peg_friction")
	require.True(t, ok)
	require.Equal(t, []any{4.0, 15.0}, friction)
}

func TestParseEmpty(t *testing.T) {
	doc, err := Parse([]byte("  \n"))
	require.NoError(t, err)
	require.Empty(t, doc)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	doc, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	clone := doc.Clone()
	kwargs, err := SubMap(clone["policy"].(map[string]any), "policy_kwargs")
	require.NoError(t, err)
	kwargs["features_extractor_class"] = "State"
	kwargs["net_arch"].([]any)[0] = 1

	v, _ := doc.Lookup("policy", "policy_kwargs", "features_extractor_class")
	require.Equal(t, "PointCloud", v)
	arch, _ := doc.Lookup("policy", "policy_kwargs", "net_arch")
	require.Equal(t, []any{256, 256}, arch)
}

func TestSectionNotMapping(t *testing.T) {
	_, err := Document{"policy": "oops"}.Section(SectionPolicy)
	require.ErrorIs(t, err, ErrMissingKey)
}

func TestAsIntRejectsFractions(t *testing.T) {
	_, ok := AsInt(2.5)
	require.False(t, ok)
	n, ok := AsInt(4.0)
	require.True(t, ok)
	require.Equal(t, 4, n)
}

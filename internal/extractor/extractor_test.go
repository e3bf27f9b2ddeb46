package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	kind, err := Parse("State")
	require.NoError(t, err)
	require.Equal(t, KindState, kind)

	kind, err = Parse("PointCloud")
	require.NoError(t, err)
	require.Equal(t, KindPointCloud, kind)

	_, err = Parse("pointcloud")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindYAML(t *testing.T) {
	data, err := yaml.Marshal(map[string]Kind{"features_extractor_class": KindPointCloud})
	require.NoError(t, err)
	require.Equal(t, "features_extractor_class: solutions.feature_extractors.FeaturesExtractorPointCloud\n", string(data))

	var decoded map[string]Kind
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Equal(t, KindPointCloud, decoded["features_extractor_class"])

	var short struct {
		Class Kind `yaml:"class"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("class: State\n"), &short))
	require.Equal(t, KindState, short.Class)

	err = yaml.Unmarshal([]byte("class: Voxel\n"), &short)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestEveryKindHasClass(t *testing.T) {
	for _, k := range Kinds {
		require.NotEmpty(t, k.Class(), k.String())
		parsed, err := Parse(k.String())
		require.NoError(t, err)
		require.Equal(t, k, parsed)
	}
}

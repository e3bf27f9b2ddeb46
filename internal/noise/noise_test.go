package noise

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestIsotropicBroadcastsSigma(t *testing.T) {
	n, err := Isotropic(3, 0.5)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, n.Mean)
	require.Equal(t, []float64{0.5, 0.5, 0.5}, n.Sigma)
}

func TestNewNormalValidates(t *testing.T) {
	_, err := NewNormal([]float64{0}, []float64{1, 2})
	require.Error(t, err)
	_, err = NewNormal([]float64{0}, []float64{-1})
	require.Error(t, err)
	_, err = Isotropic(0, 1)
	require.Error(t, err)
}

func TestVectorizedIndependentSources(t *testing.T) {
	base, err := Isotropic(3, 0.2)
	require.NoError(t, err)
	v, err := NewVectorized(base, 4)
	require.NoError(t, err)
	require.Equal(t, 4, v.NumEnvs())

	v.Sources[0].Sigma[0] = 9
	require.Equal(t, 0.2, v.Sources[1].Sigma[0])
	require.Equal(t, 0.2, base.Sigma[0])

	_, err = NewVectorized(base, 0)
	require.Error(t, err)
}

func TestVectorizedSampleShape(t *testing.T) {
	base, err := Isotropic(3, 1)
	require.NoError(t, err)
	v, err := NewVectorized(base, 2)
	require.NoError(t, err)

	samples := v.Sample(rand.NewPCG(7, 11))
	require.Len(t, samples, 2)
	for _, s := range samples {
		require.Len(t, s, 3)
	}
	require.NotEqual(t, samples[0], samples[1])
}

func TestZeroSigmaReturnsMean(t *testing.T) {
	n, err := NewNormal([]float64{1, -1}, []float64{0, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{1, -1}, n.Sample(rand.NewPCG(1, 1)))
}

func TestVectorizedYAML(t *testing.T) {
	base, err := Isotropic(2, 0.5)
	require.NoError(t, err)
	v, err := NewVectorized(base, 3)
	require.NoError(t, err)

	data, err := yaml.Marshal(v)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Equal(t, "VectorizedActionNoise", decoded["type"])
	require.Equal(t, 3, decoded["n_envs"])
	inner := decoded["base"].(map[string]any)
	require.Equal(t, "NormalActionNoise", inner["type"])
	require.Equal(t, []any{0.5, 0.5}, inner["sigma"])
}

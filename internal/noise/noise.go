// Package noise describes exploration noise added to continuous actions.
package noise

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Normal is a Gaussian noise source with per-dimension mean and standard
// deviation.
type Normal struct {
	Mean  []float64 `yaml:"mean" json:"mean"`
	Sigma []float64 `yaml:"sigma" json:"sigma"`
}

func NewNormal(mean, sigma []float64) (Normal, error) {
	if len(mean) == 0 {
		return Normal{}, errors.New("noise: action dimension must be > 0")
	}
	if len(mean) != len(sigma) {
		return Normal{}, fmt.Errorf("noise: mean has %d entries, sigma has %d", len(mean), len(sigma))
	}
	for i, s := range sigma {
		if s < 0 {
			return Normal{}, fmt.Errorf("noise: sigma[%d]=%g must be >= 0", i, s)
		}
	}
	return Normal{
		Mean:  append([]float64(nil), mean...),
		Sigma: append([]float64(nil), sigma...),
	}, nil
}

// Isotropic returns a zero-mean source with the same sigma on every one of
// dim dimensions.
func Isotropic(dim int, sigma float64) (Normal, error) {
	if dim <= 0 {
		return Normal{}, fmt.Errorf("noise: action dimension %d must be > 0", dim)
	}
	mean := make([]float64, dim)
	sigmas := make([]float64, dim)
	for i := range sigmas {
		sigmas[i] = sigma
	}
	return NewNormal(mean, sigmas)
}

func (n Normal) Dim() int { return len(n.Mean) }

func (n Normal) Sample(src rand.Source) []float64 {
	out := make([]float64, len(n.Mean))
	for i := range out {
		if n.Sigma[i] == 0 {
			out[i] = n.Mean[i]
			continue
		}
		out[i] = distuv.Normal{Mu: n.Mean[i], Sigma: n.Sigma[i], Src: src}.Rand()
	}
	return out
}

func (n Normal) MarshalYAML() (any, error) {
	return struct {
		Type  string    `yaml:"type"`
		Mean  []float64 `yaml:"mean,flow"`
		Sigma []float64 `yaml:"sigma,flow"`
	}{"NormalActionNoise", n.Mean, n.Sigma}, nil
}

// Vectorized keeps one independent source per parallel environment.
type Vectorized struct {
	Sources []Normal
}

func NewVectorized(base Normal, nEnvs int) (*Vectorized, error) {
	if nEnvs <= 0 {
		return nil, fmt.Errorf("noise: environment count %d must be > 0", nEnvs)
	}
	if base.Dim() == 0 {
		return nil, errors.New("noise: action dimension must be > 0")
	}
	v := &Vectorized{Sources: make([]Normal, nEnvs)}
	for i := range v.Sources {
		src, err := NewNormal(base.Mean, base.Sigma)
		if err != nil {
			return nil, err
		}
		v.Sources[i] = src
	}
	return v, nil
}

func (v *Vectorized) NumEnvs() int { return len(v.Sources) }

// Sample draws one action-sized vector per environment.
func (v *Vectorized) Sample(src rand.Source) [][]float64 {
	out := make([][]float64, len(v.Sources))
	for i, s := range v.Sources {
		out[i] = s.Sample(src)
	}
	return out
}

// Reset is a no-op; Gaussian noise carries no state between steps.
func (v *Vectorized) Reset() {}

func (v *Vectorized) MarshalYAML() (any, error) {
	if len(v.Sources) == 0 {
		return nil, errors.New("noise: empty vectorized noise")
	}
	return struct {
		Type  string `yaml:"type"`
		NEnvs int    `yaml:"n_envs"`
		Base  Normal `yaml:"base"`
	}{"VectorizedActionNoise", len(v.Sources), v.Sources[0]}, nil
}

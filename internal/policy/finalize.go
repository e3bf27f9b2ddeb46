// Package policy turns the policy section of a merged run configuration into
// the keyword arguments handed to the trainer.
package policy

import (
	"fmt"
	"path/filepath"
	"strings"

	"tactile/internal/extractor"
	"tactile/internal/noise"
	"tactile/internal/runconfig"
)

const DefaultActionDim = 3

type Options struct {
	LogDir    string
	TrackRoot string
	// ActionDim defaults to DefaultActionDim when zero.
	ActionDim int
}

// weightKeys are policy_kwargs entries holding file paths relative to the
// track root.
var weightKeys = []string{"encoder_weight", "decoder_weight"}

// Finalize returns a copy of doc whose policy section carries the device,
// seed, action noise, tensorboard directory, absolute weight paths and the
// resolved feature extractor.
func Finalize(doc runconfig.Document, opts Options) (runconfig.Document, error) {
	out := doc.Clone()
	policy, err := out.Section(runconfig.SectionPolicy)
	if err != nil {
		return nil, err
	}
	train, err := out.Section(runconfig.SectionTrain)
	if err != nil {
		return nil, err
	}

	device, err := lookupKey(train, "train", "device")
	if err != nil {
		return nil, err
	}
	policy["device"] = device

	actionNoise, err := buildNoise(policy, train, opts.ActionDim)
	if err != nil {
		return nil, err
	}
	policy["action_noise"] = actionNoise

	seed, err := lookupKey(train, "train", "seed")
	if err != nil {
		return nil, err
	}
	policy["seed"] = seed

	policy["tensorboard_log"] = opts.LogDir

	kwargs, err := runconfig.SubMap(policy, "policy_kwargs")
	if err != nil {
		return nil, fmt.Errorf("policy: %w", err)
	}
	for _, key := range weightKeys {
		raw, ok := kwargs[key]
		if !ok {
			continue
		}
		path, ok := runconfig.AsString(raw)
		if !ok {
			return nil, fmt.Errorf("policy.policy_kwargs.%s: expected a path, got %T", key, raw)
		}
		kwargs[key] = ResolveWeightPath(opts.TrackRoot, path)
	}

	className, ok := kwargs["features_extractor_class"]
	if !ok {
		return nil, fmt.Errorf("%w: policy.policy_kwargs.features_extractor_class", runconfig.ErrMissingKey)
	}
	delete(kwargs, "features_extractor_class")
	if className != nil {
		name, ok := runconfig.AsString(className)
		if !ok {
			return nil, fmt.Errorf("%w: %v", extractor.ErrUnknownKind, className)
		}
		kind, err := extractor.Parse(name)
		if err != nil {
			return nil, err
		}
		kwargs["features_extractor_class"] = kind
	}
	return out, nil
}

// ResolveWeightPath anchors relative paths at root. Paths starting with "/"
// are returned unchanged.
func ResolveWeightPath(root, path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return filepath.Join(root, path)
}

func buildNoise(policy, train map[string]any, actionDim int) (*noise.Vectorized, error) {
	if actionDim == 0 {
		actionDim = DefaultActionDim
	}
	raw, err := lookupKey(policy, "policy", "action_noise")
	if err != nil {
		return nil, err
	}
	sigma, ok := runconfig.AsFloat64(raw)
	if !ok {
		return nil, fmt.Errorf("policy.action_noise: expected a standard deviation, got %T", raw)
	}
	rawParallel, err := lookupKey(train, "train", "parallel")
	if err != nil {
		return nil, err
	}
	parallel, ok := runconfig.AsInt(rawParallel)
	if !ok {
		return nil, fmt.Errorf("train.parallel: expected an integer, got %v", rawParallel)
	}
	base, err := noise.Isotropic(actionDim, sigma)
	if err != nil {
		return nil, err
	}
	return noise.NewVectorized(base, parallel)
}

func lookupKey(m map[string]any, section, key string) (any, error) {
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", runconfig.ErrMissingKey, section, key)
	}
	return v, nil
}

// Package extractor enumerates the observation feature extractors a policy
// can be configured with.
package extractor

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var ErrUnknownKind = errors.New("unknown feature extractor")

type Kind int

const (
	KindUnknown Kind = iota
	KindState
	KindPointCloud
)

// Kinds lists every registered extractor.
var Kinds = []Kind{KindState, KindPointCloud}

const classModule = "solutions.feature_extractors"

// Parse resolves the identifier used in run configurations.
func Parse(name string) (Kind, error) {
	switch name {
	case "State":
		return KindState, nil
	case "PointCloud":
		return KindPointCloud, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

func (k Kind) String() string {
	switch k {
	case KindState:
		return "State"
	case KindPointCloud:
		return "PointCloud"
	default:
		return "unknown"
	}
}

// Class is the fully qualified class the trainer instantiates.
func (k Kind) Class() string {
	switch k {
	case KindState:
		return classModule + ".FeatureExtractorState"
	case KindPointCloud:
		return classModule + ".FeaturesExtractorPointCloud"
	default:
		return ""
	}
}

func (k Kind) MarshalYAML() (any, error) {
	if k.Class() == "" {
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownKind, int(k))
	}
	return k.Class(), nil
}

// UnmarshalYAML accepts either the short identifier or the class reference.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	for _, candidate := range Kinds {
		if candidate.Class() == name {
			*k = candidate
			return nil
		}
	}
	parsed, err := Parse(name)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

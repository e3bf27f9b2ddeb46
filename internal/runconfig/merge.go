package runconfig

import (
	"fmt"
	"slices"
)

// Destination is where an override lands in the document.
type Destination int

const (
	DestTopLevel Destination = iota
	DestPolicy
	DestTrain
)

func (d Destination) String() string {
	switch d {
	case DestPolicy:
		return "policy"
	case DestTrain:
		return "train"
	default:
		return "other"
	}
}

// PolicyKeys are routed into the policy section.
var PolicyKeys = []string{
	"policy_name",
	"policy_kwargs",
	"buffer_size",
	"train_freq",
	"gradient_steps",
	"learning_starts",
	"target_policy_noise",
	"target_noise_clip",
	"action_noise",
	"batch_size",
	"learning_rate",
	"policy_delay",
}

// TrainKeys are routed into the train section.
var TrainKeys = []string{
	"name",
	"total_timesteps",
	"log_interval",
	"checkpoint_every",
	"eval_freq",
	"n_eval",
	"parallel",
	"timeout",
	"affinity_num_each_process",
	"affinity_offset",
	"seed",
	"gpu",
	"project_name",
}

// Override is a value the user set explicitly on the command line.
type Override struct {
	Key   string
	Value any
}

// Applied records one write performed by Merge.
type Applied struct {
	Key         string
	Value       any
	Destination Destination
}

func Route(key string) Destination {
	switch {
	case slices.Contains(PolicyKeys, key):
		return DestPolicy
	case slices.Contains(TrainKeys, key):
		return DestTrain
	default:
		return DestTopLevel
	}
}

// Merge writes overrides into a copy of doc. A name override is appended to
// the existing train name with an underscore instead of replacing it.
func Merge(doc Document, overrides []Override) (Document, []Applied, error) {
	out := doc.Clone()
	if out == nil {
		out = Document{}
	}
	applied := make([]Applied, 0, len(overrides))
	for _, o := range overrides {
		if o.Value == nil {
			continue
		}
		dest := Route(o.Key)
		switch dest {
		case DestPolicy:
			policy, err := out.Section(SectionPolicy)
			if err != nil {
				return nil, nil, err
			}
			policy[o.Key] = o.Value
		case DestTrain:
			train, err := out.Section(SectionTrain)
			if err != nil {
				return nil, nil, err
			}
			if o.Key == "name" {
				base, ok := train["name"]
				if !ok || base == nil {
					return nil, nil, fmt.Errorf("%w: train.name", ErrMissingKey)
				}
				train["name"] = fmt.Sprintf("%v_%v", base, o.Value)
			} else {
				train[o.Key] = o.Value
			}
		default:
			out[o.Key] = o.Value
		}
		applied = append(applied, Applied{Key: o.Key, Value: o.Value, Destination: dest})
	}
	return out, applied, nil
}

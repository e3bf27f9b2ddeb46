package envparams

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnsupportedEnvironment = errors.New("unsupported environment")

// Kind identifies an environment family that has a default parameter bundle.
type Kind int

const (
	KindUnknown Kind = iota
	KindPegInsertion
)

func (k Kind) String() string {
	switch k {
	case KindPegInsertion:
		return "peg_insertion"
	default:
		return "unknown"
	}
}

// ParseKind maps a registered environment id such as
// "PegInsertionRandomizedMarkerEnv-v2" to its family.
func ParseKind(envName string) (Kind, error) {
	switch {
	case strings.Contains(envName, "Peg"):
		return KindPegInsertion, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnsupportedEnvironment, envName)
	}
}

func Defaults(kind Kind) (Params, error) {
	switch kind {
	case KindPegInsertion:
		return pegInsertionDefaults(), nil
	default:
		return Params{}, fmt.Errorf("%w: kind %s", ErrUnsupportedEnvironment, kind)
	}
}

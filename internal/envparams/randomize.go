package envparams

import (
	"math/rand/v2"
	"reflect"

	"gonum.org/v1/gonum/stat/distuv"
)

// Randomize draws one bundle between lower and upper. Float fields are
// sampled uniformly, integer fields uniformly over the closed range, and
// every other field is taken from lower.
func Randomize(lower, upper Params, src rand.Source) Params {
	out := lower
	rng := rand.New(src)
	lv := reflect.ValueOf(lower)
	uv := reflect.ValueOf(upper)
	ov := reflect.ValueOf(&out).Elem()
	for i := 0; i < ov.NumField(); i++ {
		lo, hi := lv.Field(i), uv.Field(i)
		switch ov.Field(i).Kind() {
		case reflect.Float64:
			a, b := lo.Float(), hi.Float()
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			ov.Field(i).SetFloat(distuv.Uniform{Min: a, Max: b, Src: src}.Rand())
		case reflect.Int:
			a, b := lo.Int(), hi.Int()
			if a == b {
				continue
			}
			if a > b {
				a, b = b, a
			}
			ov.Field(i).SetInt(a + rng.Int64N(b-a+1))
		}
	}
	return out
}

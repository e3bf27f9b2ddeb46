package storage

import (
	"errors"
	"testing"

	"tactile/internal/model"
)

func TestRunCodecRoundTrip(t *testing.T) {
	input := Stamp(model.RunRecord{
		ID:      "run-1",
		Name:    "peg_ablation",
		EnvName: "PegInsertionRandomizedMarkerEnv-v2",
		Overrides: []model.OverrideRecord{
			{Key: "seed", Value: "3", Destination: "train"},
		},
		Status: model.RunPlanned,
	})
	data, err := EncodeRun(input)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	output, err := DecodeRun(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if output.Name != input.Name || len(output.Overrides) != 1 || output.Overrides[0].Destination != "train" {
		t.Fatalf("unexpected run: %+v", output)
	}
}

func TestDecodeRunVersionMismatch(t *testing.T) {
	_, err := DecodeRun([]byte(`{"schema_version":99,"codec_version":1,"id":"x"}`))
	if !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

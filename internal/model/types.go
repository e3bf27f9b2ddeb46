package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Run status values.
const (
	RunPlanned  = "planned"
	RunLaunched = "launched"
	RunFinished = "finished"
	RunFailed   = "failed"
)

// RunRecord is the persisted summary of one prepared training run.
type RunRecord struct {
	VersionedRecord
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	EnvName        string           `json:"env_name"`
	EnvKind        string           `json:"env_kind"`
	ConfigPath     string           `json:"config_path"`
	LogDir         string           `json:"log_dir"`
	PlanPath       string           `json:"plan_path,omitempty"`
	Seed           int              `json:"seed"`
	Parallel       int              `json:"parallel"`
	TotalTimesteps int              `json:"total_timesteps"`
	Overrides      []OverrideRecord `json:"overrides,omitempty"`
	Status         string           `json:"status"`
	CreatedAtUTC   string           `json:"created_at_utc"`
}

// OverrideRecord is one command-line override applied to the run config.
type OverrideRecord struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Destination string `json:"destination"`
}

package output

// FileResult reports one compiled file.
type FileResult struct {
	Path       string  `json:"path" yaml:"path"`
	Output     string  `json:"output,omitempty" yaml:"output,omitempty"`
	States     int     `json:"states" yaml:"states"`
	Mutations  int     `json:"mutations" yaml:"mutations"`
	Wrapped    int     `json:"wrapped" yaml:"wrapped"`
	Effects    int     `json:"effects" yaml:"effects"`
	Memos      int     `json:"memos" yaml:"memos"`
	Cached     bool    `json:"cached" yaml:"cached"`
	DurationMs float64 `json:"duration_ms" yaml:"duration_ms"`
}

// TransformSummary totals a transform run.
type TransformSummary struct {
	Files    int `json:"files" yaml:"files"`
	Rewrites int `json:"rewrites" yaml:"rewrites"`
	Cached   int `json:"cached" yaml:"cached"`
}

// TransformOutput is the JSON form of the transform command.
type TransformOutput struct {
	Files   []FileResult     `json:"files" yaml:"files"`
	Summary TransformSummary `json:"summary" yaml:"summary"`
}

// StateInfo describes one ref declaration found by inspect.
type StateInfo struct {
	Name     string `json:"name" yaml:"name"`
	Modifier string `json:"modifier" yaml:"modifier"`
	Position string `json:"position" yaml:"position"`
}

// InspectOutput is the report produced by the inspect command.
type InspectOutput struct {
	Path      string      `json:"path" yaml:"path"`
	States    []StateInfo `json:"states" yaml:"states"`
	Mutations int         `json:"mutations" yaml:"mutations"`
	Wrapped   int         `json:"wrapped" yaml:"wrapped"`
	Effects   int         `json:"effects" yaml:"effects"`
	Memos     int         `json:"memos" yaml:"memos"`
}

// RunInfo describes one recorded transform run.
type RunInfo struct {
	ID         string  `json:"id" yaml:"id"`
	Command    string  `json:"command" yaml:"command"`
	Status     string  `json:"status" yaml:"status"`
	Files      int     `json:"files" yaml:"files"`
	Cached     int     `json:"cached" yaml:"cached"`
	StartedAt  string  `json:"started_at" yaml:"started_at"`
	DurationMs float64 `json:"duration_ms,omitempty" yaml:"duration_ms,omitempty"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
}

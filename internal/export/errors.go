package export

import "fmt"

// Stage names the exporter step that failed.
type Stage string

// Exporter stages reported in ExportFailedError.
const (
	StageQueue  Stage = "queue"
	StageLaunch Stage = "launch"
	StageLoad   Stage = "load"
	StagePrint  Stage = "print"
	StageVerify Stage = "verify"
)

// ExportFailedError carries the engine error behind a failed export.
// Exports are never retried.
type ExportFailedError struct {
	Stage Stage
	Cause error
}

func (e *ExportFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed at %s: %v", e.Stage, e.Cause)
	}
	return fmt.Sprintf("export failed at %s", e.Stage)
}

func (e *ExportFailedError) Unwrap() error {
	return e.Cause
}

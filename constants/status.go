package constants

// RunStatus is the canonical state of a pipeline run.
type RunStatus string

// Stable values (reported verbatim to the presentation layer).
const (
	RunIdle      RunStatus = "IDLE"      // no batch in flight
	RunRunning   RunStatus = "RUNNING"   // in progress
	RunCompleted RunStatus = "COMPLETED" // aggregated text available
	RunFailed    RunStatus = "FAILED"    // terminal failure
)

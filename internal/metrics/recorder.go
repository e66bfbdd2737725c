package metrics

import "time"

// StageLabel enumerates the per-item pipeline stages for counters.
type StageLabel string

const (
	StageSheet    StageLabel = "sheet"
	StageExtract  StageLabel = "extract"
	StageImages   StageLabel = "images"
	StageAssemble StageLabel = "assemble"
	StageWrite    StageLabel = "write"
	StageDeploy   StageLabel = "deploy"
)

// Recorder defines observability hooks for publishing runs. The noop
// implementation is the default so call sites never nil-check.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveItemDuration(d time.Duration)
	IncPublished()
	IncFailed(stage StageLabel)
	SetReadyItems(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)  {}
func (NoopRecorder) ObserveItemDuration(time.Duration) {}
func (NoopRecorder) IncPublished()                     {}
func (NoopRecorder) IncFailed(StageLabel)              {}
func (NoopRecorder) SetReadyItems(int)                 {}

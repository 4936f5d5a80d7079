package recorder

import "SignalBench/internal/model"

// NoopRecorder is a no-op implementation used when no storage is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordResult(_ *model.Result) error { return nil }
func (n *NoopRecorder) Close() error                       { return nil }

package driver

import "time"

// Stage is one step of the per-file pipeline.
type Stage uint8

const (
	StageTokenize Stage = iota + 1
	StageParse
	StageRender
)

func (s Stage) String() string {
	switch s {
	case StageTokenize:
		return "tokenize"
	case StageParse:
		return "parse"
	case StageRender:
		return "render"
	default:
		return "unknown"
	}
}

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a pipeline phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a phase boundary for one file.
type PhaseEvent struct {
	File    string
	Stage   Stage
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error // only on PhaseEnd
	Cached  bool  // render was served from the disk cache
}

// PhaseObserver receives phase events. RenderDir calls it from several
// goroutines at once.
type PhaseObserver func(PhaseEvent)

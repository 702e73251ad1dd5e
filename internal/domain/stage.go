package domain

import "fmt"

// Stage is a posting's position in the pipeline. Stages only ever move
// forward for a given posting; the discarded flag is orthogonal and can be
// set at any transition.
type Stage int

const (
	StageDiscovered Stage = iota
	StageKeywordFiltered
	StageQualificationFiltered
	StageReadyToSend
	StageCompleted
)

var stageNames = [...]string{
	StageDiscovered:            "discovered",
	StageKeywordFiltered:       "keyword_filtered",
	StageQualificationFiltered: "qualification_filtered",
	StageReadyToSend:           "ready_to_send",
	StageCompleted:             "completed",
}

func (s Stage) String() string {
	if s < StageDiscovered || s > StageCompleted {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// ParseStage maps a stored stage string back to its Stage value.
func ParseStage(raw string) (Stage, error) {
	for i, name := range stageNames {
		if name == raw {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage %q", raw)
}

// Next returns the following stage. Calling Next on StageCompleted is a
// programmer error.
func (s Stage) Next() Stage {
	if s >= StageCompleted {
		panic("domain: no stage after " + s.String())
	}
	return s + 1
}

func (s Stage) Before(other Stage) bool { return s < other }

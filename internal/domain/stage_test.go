package domain

import "testing"

func TestParseStage(t *testing.T) {
	tests := []struct {
		raw  string
		want Stage
		ok   bool
	}{
		{"discovered", StageDiscovered, true},
		{"keyword_filtered", StageKeywordFiltered, true},
		{"qualification_filtered", StageQualificationFiltered, true},
		{"ready_to_send", StageReadyToSend, true},
		{"completed", StageCompleted, true},
		{"", 0, false},
		{"DISCOVERED", 0, false},
		{"bogus", 0, false},
	}

	for _, tt := range tests {
		got, err := ParseStage(tt.raw)
		if tt.ok && err != nil {
			t.Errorf("ParseStage(%q) unexpected error: %v", tt.raw, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseStage(%q) expected error, got %v", tt.raw, got)
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseStage(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestStageOrdering(t *testing.T) {
	order := []Stage{
		StageDiscovered,
		StageKeywordFiltered,
		StageQualificationFiltered,
		StageReadyToSend,
		StageCompleted,
	}

	for i := 0; i < len(order)-1; i++ {
		if order[i].Next() != order[i+1] {
			t.Errorf("%v.Next() = %v, want %v", order[i], order[i].Next(), order[i+1])
		}
		if !order[i].Before(order[i+1]) {
			t.Errorf("%v should be before %v", order[i], order[i+1])
		}
		if order[i+1].Before(order[i]) {
			t.Errorf("%v should not be before %v", order[i+1], order[i])
		}
	}
}

func TestStageStringRoundTrip(t *testing.T) {
	for s := StageDiscovered; s <= StageCompleted; s++ {
		got, err := ParseStage(s.String())
		if err != nil {
			t.Fatalf("ParseStage(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("round trip %v came back as %v", s, got)
		}
	}
}

func TestNextPanicsPastCompleted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Completed.Next() should panic")
		}
	}()
	StageCompleted.Next()
}

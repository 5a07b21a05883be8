package gofugue

import "testing"

func newTestConstraintState(voiceCount int) *ConstraintState {
	inv := InvariantSet{RangeLo: 40, RangeHi: 90, HardRepeatLimit: 4, MaxAdjacentSpacing: 24}
	gravity := GravityConfig{
		Oracles:    DefaultOracleTables(),
		Vocabulary: NewVocabularyOracle(),
		Weights:    defaultGravityWeights(),
		Phase:      PhaseEstablish,
	}
	return NewConstraintState(inv, gravity, []int{TicksPerBar * 4}, TicksPerBar*8, voiceCount, FugueRuleEvaluator{})
}

func TestConstraintStateEvaluateRejectsOutOfRangeVoice(t *testing.T) {
	s := newTestConstraintState(2)
	score := s.Evaluate(CandidateEvaluation{Pitch: 60, Duration: 480, Voice: 5, Tick: 0})
	if score != RejectedScore {
		t.Errorf("expected an out-of-band voice index to be rejected, got score %v", score)
	}
}

func TestConstraintStateEvaluateRejectsHardRangeViolation(t *testing.T) {
	s := newTestConstraintState(2)
	score := s.Evaluate(CandidateEvaluation{Pitch: 120, Duration: 480, Voice: 0, Tick: 0, Vertical: VerticalSnapshot{VoicePitch: []int{0, 0}, VoiceCount: 2}})
	if score != RejectedScore {
		t.Errorf("expected a pitch outside the voice's invariant range to be rejected, got score %v", score)
	}
}

func TestConstraintStateAdvanceUpdatesBookkeeping(t *testing.T) {
	s := newTestConstraintState(1)
	s.Advance(0, 60, 0, 480, Key(0), Major, false)
	if s.TotalNoteCount != 1 {
		t.Errorf("TotalNoteCount = %d, want 1", s.TotalNoteCount)
	}
	if s.SoftViolationCount != 0 {
		t.Errorf("SoftViolationCount = %d, want 0", s.SoftViolationCount)
	}
	s.Advance(TicksPerBeat, 62, 0, 480, Key(0), Major, true)
	if s.SoftViolationCount != 1 {
		t.Errorf("SoftViolationCount = %d, want 1 after a soft-flagged placement", s.SoftViolationCount)
	}
	if len(s.voices[0].recent) != 2 {
		t.Errorf("expected 2 recent pitches recorded for voice 0, got %d", len(s.voices[0].recent))
	}
}

func TestConstraintStateTickToCadence(t *testing.T) {
	s := newTestConstraintState(1)
	d := s.tickToCadence(0)
	if d != TicksPerBar*4 {
		t.Errorf("tickToCadence(0) = %d, want %d", d, TicksPerBar*4)
	}
	if got := s.tickToCadence(TicksPerBar*4 + 1); got != -1 {
		t.Errorf("tickToCadence() past the last cadence = %d, want -1", got)
	}
}

func TestConstraintStateIsDeadReflectsLedger(t *testing.T) {
	s := newTestConstraintState(2)
	if s.IsDead() {
		t.Errorf("a fresh constraint state should not start dead")
	}
	s.Ledger.Add(Obligation{Kind: RecoverRange, Voice: 0, Origin: 0, Deadline: TicksPerBeat, Severity: SeverityStructural})
	if s.IsDeadAt(TicksPerBeat + 1) != true {
		t.Errorf("expected an expired structural obligation to mark the state dead")
	}
}

func TestConstraintStateInvariantsFor(t *testing.T) {
	gravity := GravityConfig{Oracles: DefaultOracleTables(), Vocabulary: NewVocabularyOracle(), Weights: defaultGravityWeights(), Phase: PhaseEstablish}
	v0 := InvariantSet{RangeLo: 60, RangeHi: 84, HardRepeatLimit: 4, MaxAdjacentSpacing: 24}
	v1 := InvariantSet{RangeLo: 36, RangeHi: 60, HardRepeatLimit: 4, MaxAdjacentSpacing: 24}
	s := NewConstraintState(v0, gravity, nil, TicksPerBar*4, 2, FugueRuleEvaluator{}, v0, v1)
	if got := s.invariantsFor(0); got.RangeHi != 84 {
		t.Errorf("voice 0 invariants RangeHi = %d, want 84", got.RangeHi)
	}
	if got := s.invariantsFor(1); got.RangeHi != 60 {
		t.Errorf("voice 1 invariants RangeHi = %d, want 60", got.RangeHi)
	}
	if got := s.invariantsFor(9); got.RangeHi != v0.RangeHi {
		t.Errorf("an out-of-band voice should fall back to the representative Invariants set")
	}
}

func TestConstraintStateSetInvariantsByVoice(t *testing.T) {
	s := newTestConstraintState(2)
	fresh := []InvariantSet{
		{RangeLo: 50, RangeHi: 70, HardRepeatLimit: 3, MaxAdjacentSpacing: 12},
		{RangeLo: 30, RangeHi: 50, HardRepeatLimit: 3, MaxAdjacentSpacing: 12},
	}
	s.SetInvariantsByVoice(fresh)
	if s.Invariants.RangeHi != 70 {
		t.Errorf("SetInvariantsByVoice should refresh the representative Invariants field from index 0")
	}
	if s.invariantsFor(1).RangeHi != 50 {
		t.Errorf("SetInvariantsByVoice should refresh per-voice bands")
	}
}

package gofugue

import "testing"

func TestInvariantCheckerHardRangeShortCircuits(t *testing.T) {
	c := NewInvariantChecker(FugueRuleEvaluator{}, FugueRuleEvaluator{})
	inv := InvariantSet{RangeLo: 48, RangeHi: 72, HardRepeatLimit: 4, MaxAdjacentSpacing: 24}
	flags := c.Check(90, 0, VerticalSnapshot{}, VerticalSnapshot{}, nil, inv)
	if !flags.HardRange || !flags.Hard() {
		t.Errorf("expected an out-of-range pitch to raise HardRange")
	}
}

func TestInvariantCheckerHardRepeat(t *testing.T) {
	c := NewInvariantChecker(FugueRuleEvaluator{}, FugueRuleEvaluator{})
	inv := InvariantSet{RangeLo: 48, RangeHi: 72, HardRepeatLimit: 3, MaxAdjacentSpacing: 24}
	recent := recentPitches{60, 60}
	prior := VerticalSnapshot{VoicePitch: []int{60}}
	next := VerticalSnapshot{VoicePitch: []int{60}}
	flags := c.Check(60, 0, prior, next, recent, inv)
	if !flags.HardRepeat {
		t.Errorf("expected a third consecutive repeat to raise HardRepeat at limit 3")
	}
}

func TestInvariantCheckerSoftSpacing(t *testing.T) {
	c := NewInvariantChecker(FugueRuleEvaluator{}, FugueRuleEvaluator{})
	inv := InvariantSet{RangeLo: 0, RangeHi: 127, HardRepeatLimit: 4, MaxAdjacentSpacing: 12}
	prior := VerticalSnapshot{VoicePitch: []int{78, 0}}
	next := VerticalSnapshot{VoicePitch: []int{80, 40}} // 40 semitones apart, exceeds the cap
	flags := c.Check(40, 1, prior, next, nil, inv)
	if !flags.SoftSpacing {
		t.Errorf("expected spacing exceeding the cap to raise SoftSpacing, not a hard rejection")
	}
	if flags.Hard() {
		t.Errorf("SoftSpacing alone should never be hard")
	}
}

func TestInvariantCheckerRejectCrossingPolicy(t *testing.T) {
	c := NewInvariantChecker(FugueRuleEvaluator{}, FugueRuleEvaluator{})
	inv := InvariantSet{RangeLo: 0, RangeHi: 127, HardRepeatLimit: 4, MaxAdjacentSpacing: 24, CrossingPolicy: RejectCrossing}
	prior := VerticalSnapshot{VoicePitch: []int{60, 55}}
	flags := c.Check(50, 0, prior, VerticalSnapshot{}, nil, inv)
	if !flags.HardCrossing {
		t.Errorf("expected RejectCrossing policy to turn a crossing into a hard rejection")
	}
}

func TestInvariantCheckerAllowCrossingPolicyIsSoft(t *testing.T) {
	c := NewInvariantChecker(FugueRuleEvaluator{}, FugueRuleEvaluator{})
	inv := InvariantSet{RangeLo: 0, RangeHi: 127, HardRepeatLimit: 4, MaxAdjacentSpacing: 24, CrossingPolicy: AllowTemporaryCrossing}
	prior := VerticalSnapshot{VoicePitch: []int{60, 55}}
	flags := c.Check(50, 0, prior, VerticalSnapshot{}, nil, inv)
	if flags.Hard() {
		t.Errorf("AllowCrossing policy should never hard-reject a crossing")
	}
	if !flags.SoftCrossing {
		t.Errorf("AllowCrossing policy should still raise SoftCrossing so a recovery obligation is logged")
	}
}

func TestConsecutiveRepeats(t *testing.T) {
	if got := consecutiveRepeats(recentPitches{60, 62, 60, 60}, 60); got != 3 {
		t.Errorf("consecutiveRepeats = %d, want 3", got)
	}
	if got := consecutiveRepeats(nil, 60); got != 1 {
		t.Errorf("consecutiveRepeats with no history = %d, want 1", got)
	}
}

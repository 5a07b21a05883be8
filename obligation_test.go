package gofugue

import "testing"

func TestObligationLedgerResolvesOnOppositeStep(t *testing.T) {
	l := NewObligationLedger()
	l.Add(Obligation{Kind: ResolveLeap, Voice: 0, Origin: 0, Deadline: 960, Severity: SeverityStructural, OriginPitch: 60, LeapDirection: 1})

	l.Tick(480, 58, 0, 480, Key(0), Major, nil) // step down by 2, opposite the upward leap
	if len(l.Active()) != 0 {
		t.Fatalf("expected the leap obligation to resolve, got %d still active", len(l.Active()))
	}
	if l.IsDead() {
		t.Errorf("ledger should not be dead after a satisfied resolution")
	}
}

func TestObligationLedgerExpiresStructuralAsDead(t *testing.T) {
	l := NewObligationLedger()
	l.Add(Obligation{Kind: ResolveLeap, Voice: 0, Origin: 0, Deadline: 480, Severity: SeverityStructural, OriginPitch: 60, LeapDirection: 1})

	// Placed note does not satisfy the resolution and the deadline has passed.
	l.Tick(960, 72, 0, 480, Key(0), Major, nil)
	if !l.IsDead() {
		t.Errorf("expected an expired structural obligation to mark the ledger dead")
	}
}

func TestObligationLedgerExpiresFlexibleWithoutDeath(t *testing.T) {
	l := NewObligationLedger()
	l.Add(Obligation{Kind: RecoverRange, Voice: 0, Origin: 0, Deadline: 480, Severity: SeverityFlexible, RangeLo: 48, RangeHi: 72})

	l.Tick(960, 90, 0, 480, Key(0), Major, nil) // out of range, deadline passed, but flexible
	if l.IsDead() {
		t.Errorf("a flexible obligation expiring should not kill the ledger")
	}
	if len(l.Active()) != 0 {
		t.Errorf("expired obligation should be removed from the active list")
	}
}

func TestObligationLedgerWrongVoiceDoesNotResolve(t *testing.T) {
	l := NewObligationLedger()
	l.Add(Obligation{Kind: ResolveLeap, Voice: 0, Origin: 0, Deadline: 960, Severity: SeverityStructural, OriginPitch: 60, LeapDirection: 1})

	// A note placed in a different voice must not satisfy voice 0's obligation.
	l.Tick(480, 58, 1, 480, Key(0), Major, nil)
	if len(l.Active()) != 1 {
		t.Errorf("expected the obligation to remain active when resolved in the wrong voice")
	}
}

func TestObligationRecoverRangeResolution(t *testing.T) {
	o := Obligation{Kind: RecoverRange, Voice: 0, RangeLo: 48, RangeHi: 72}
	if !resolutionSatisfied(o, 60, 0, 0, Key(0), Major, nil) {
		t.Errorf("expected a pitch within [48,72] to satisfy RecoverRange")
	}
	if resolutionSatisfied(o, 90, 0, 0, Key(0), Major, nil) {
		t.Errorf("expected a pitch outside [48,72] to not satisfy RecoverRange")
	}
}

func TestObligationRecoverSpacingResolvesWhenGapCloses(t *testing.T) {
	o := Obligation{Kind: RecoverSpacing, Voice: 1, OtherVoice: 0, SpacingCap: 12}
	// Voice 0 sits at 80, voice 1 placed at 50: a 30-semitone gap, still too wide.
	stillWide := []int{80, 50}
	if resolutionSatisfied(o, 50, 1, 0, Key(0), Major, stillWide) {
		t.Errorf("expected a still-too-wide placement to NOT resolve RecoverSpacing")
	}
	// Voice 1 moves to 70: now a 10-semitone gap, within the cap.
	closed := []int{80, 70}
	if !resolutionSatisfied(o, 70, 1, 0, Key(0), Major, closed) {
		t.Errorf("expected a placement closing the gap under the cap to resolve RecoverSpacing")
	}
}

func TestObligationRecoverSpacingIgnoresSilentVoices(t *testing.T) {
	o := Obligation{Kind: RecoverSpacing, Voice: 1, OtherVoice: 0, SpacingCap: 12}
	if resolutionSatisfied(o, 70, 1, 0, Key(0), Major, []int{0, 70}) {
		t.Errorf("expected a silent (pitch 0) neighbor voice to never resolve RecoverSpacing")
	}
}

func TestObligationRecoverCrossingResolvesOnRestoredOrder(t *testing.T) {
	// Voice 0 is nominally the higher voice; obligation tracks a crossing
	// with voice 1.
	o := Obligation{Kind: RecoverCrossing, Voice: 0, OtherVoice: 1}
	stillCrossed := []int{55, 60} // voice 0 below voice 1: still crossed
	if resolutionSatisfied(o, 55, 0, 0, Key(0), Major, stillCrossed) {
		t.Errorf("expected a still-crossed placement to NOT resolve RecoverCrossing")
	}
	restored := []int{65, 60} // voice 0 above voice 1 again
	if !resolutionSatisfied(o, 65, 0, 0, Key(0), Major, restored) {
		t.Errorf("expected restored voice order to resolve RecoverCrossing")
	}
}

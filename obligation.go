package gofugue

import "github.com/GeoffreyPlitt/debuggo"

var obligationDebug = debuggo.Debug("gofugue:obligation")

// ObligationKind is a tagged-union discriminant (§9: "represent as a tagged
// union, not inheritance"); the kind-specific fields of Obligation below
// carry the per-kind parameters.
type ObligationKind int

const (
	ResolveDissonance ObligationKind = iota
	ResolveLeap
	ResolveSuspension
	ApproachCadence
	RecoverRange
	RecoverSpacing
	RecoverCrossing
)

// Severity controls whether an expired obligation kills the constraint
// state.
type Severity int

const (
	SeverityFlexible Severity = iota
	SeverityStructural
)

// Obligation is an unresolved contrapuntal demand with kind-specific
// parameters (a tagged variant, not a type hierarchy).
type Obligation struct {
	Kind     ObligationKind
	Origin   int // tick
	Deadline int // tick
	Severity Severity
	Voice    int

	// Kind-specific parameters; only the fields relevant to Kind are
	// meaningful.
	OriginPitch    int // ResolveDissonance/ResolveLeap: pitch that must resolve
	LeapDirection  int // +1 up, -1 down: ResolveDissonance/ResolveLeap resolve opposite this
	CadenceTarget  int // ApproachCadence: target MIDI pitch (tonic or dominant etc.)
	RangeLo        int // RecoverRange
	RangeHi        int // RecoverRange
	SpacingCap     int // RecoverSpacing
	OtherVoice     int // RecoverSpacing/RecoverCrossing: the adjacent voice to compare against
}

// ObligationLedger is the append-mostly active-obligation list (C2).
type ObligationLedger struct {
	active []Obligation
	dead   bool
}

// NewObligationLedger constructs an empty ledger.
func NewObligationLedger() *ObligationLedger {
	return &ObligationLedger{}
}

// Add pushes obligation onto the active list.
func (l *ObligationLedger) Add(o Obligation) {
	obligationDebug("adding obligation kind=%d voice=%d deadline=%d severity=%d", o.Kind, o.Voice, o.Deadline, o.Severity)
	l.active = append(l.active, o)
}

// Active returns a snapshot of the currently active obligations.
func (l *ObligationLedger) Active() []Obligation {
	out := make([]Obligation, len(l.active))
	copy(out, l.active)
	return out
}

// IsDead reports whether a structural obligation has expired unsatisfied.
func (l *ObligationLedger) IsDead() bool { return l.dead }

// Tick checks each active obligation's kind-specific resolution predicate
// against the just-placed note, removing satisfied and expired obligations.
// A structural obligation that expires unsatisfied marks the ledger (and so
// the owning constraint state) dead. voicePitches is the current
// last-known pitch per voice index (with placedVoice already updated to
// placedPitch), used by the cross-voice predicates (RecoverSpacing,
// RecoverCrossing).
func (l *ObligationLedger) Tick(currentTick, placedPitch, placedVoice, placedDuration int, key Key, mode Mode, voicePitches []int) {
	var remaining []Obligation
	for _, o := range l.active {
		if resolutionSatisfied(o, placedPitch, placedVoice, currentTick, key, mode, voicePitches) {
			obligationDebug("obligation kind=%d voice=%d satisfied at tick=%d", o.Kind, o.Voice, currentTick)
			continue
		}
		if currentTick >= o.Deadline {
			obligationDebug("obligation kind=%d voice=%d expired at tick=%d severity=%d", o.Kind, o.Voice, currentTick, o.Severity)
			if o.Severity == SeverityStructural {
				l.dead = true
			}
			continue
		}
		remaining = append(remaining, o)
	}
	l.active = remaining
}

// resolutionSatisfied implements the one resolution predicate per kind
// described in §4.2. voicePitches is the current last-known pitch per voice
// index, consulted only by the cross-voice predicates below.
func resolutionSatisfied(o Obligation, placedPitch, placedVoice, currentTick int, key Key, mode Mode, voicePitches []int) bool {
	crossVoice := o.Kind == RecoverSpacing || o.Kind == RecoverCrossing
	if placedVoice != o.Voice && o.Kind != ApproachCadence && !crossVoice {
		return false
	}
	switch o.Kind {
	case ResolveDissonance:
		delta := placedPitch - o.OriginPitch
		if abs(delta) > 2 {
			return false
		}
		// Must move opposite the triggering leap's direction.
		return sign(delta) == -o.LeapDirection
	case ResolveLeap:
		delta := placedPitch - o.OriginPitch
		if abs(delta) < 1 || abs(delta) > 2 {
			return false
		}
		return sign(delta) == -o.LeapDirection
	case ResolveSuspension:
		delta := placedPitch - o.OriginPitch
		if delta >= 0 || abs(delta) > 2 {
			return false
		}
		return IsDiatonic(placedPitch, key, mode)
	case ApproachCadence:
		return placedPitch == o.CadenceTarget && currentTick <= o.Deadline
	case RecoverRange:
		return placedPitch >= o.RangeLo && placedPitch <= o.RangeHi
	case RecoverSpacing:
		mine, other, ok := pairedVoicePitches(voicePitches, o.Voice, o.OtherVoice)
		if !ok {
			return false
		}
		cap := o.SpacingCap
		if cap <= 0 {
			cap = 24
		}
		return abs(mine-other) <= cap
	case RecoverCrossing:
		mine, other, ok := pairedVoicePitches(voicePitches, o.Voice, o.OtherVoice)
		if !ok {
			return false
		}
		// Voice index convention: lower index sounds higher. Resolved once
		// the two voices are back in that order.
		if o.Voice < o.OtherVoice {
			return mine >= other
		}
		return mine <= other
	}
	return false
}

// pairedVoicePitches looks up the current pitches of voices a and b in
// voicePitches, reporting ok=false if either index is out of range or
// silent (0, meaning not yet placed).
func pairedVoicePitches(voicePitches []int, a, b int) (pitchA, pitchB int, ok bool) {
	if a < 0 || a >= len(voicePitches) || b < 0 || b >= len(voicePitches) {
		return 0, 0, false
	}
	pitchA, pitchB = voicePitches[a], voicePitches[b]
	if pitchA == 0 || pitchB == 0 {
		return 0, 0, false
	}
	return pitchA, pitchB, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

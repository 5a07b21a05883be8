package gofugue

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/GeoffreyPlitt/debuggo"
)

var configDebug = debuggo.Debug("gofugue:config")

// DefaultHardRepeatLimit is the library-wide default consecutive-repeat
// ceiling; FormProfileStrict exposes a tighter limit explicitly rather than
// overriding this default in place.
const DefaultHardRepeatLimit = 4

// CrossingPolicy controls whether voice-crossing is a hard rejection.
type CrossingPolicy int

const (
	AllowTemporaryCrossing CrossingPolicy = iota
	RejectCrossing
)

// InvariantSet is the static, per-section configuration consulted by the
// invariant checker (C3). One instance is configured per FormProfile;
// EngineConfig.InvariantSetFor derives a per-voice copy from it.
type InvariantSet struct {
	RangeLo              int            `toml:"range_lo"`
	RangeHi              int            `toml:"range_hi"`
	MinActiveVoices      int            `toml:"min_active_voices"`
	MaxActiveVoices      int            `toml:"max_active_voices"`
	MaxAdjacentSpacing   int            `toml:"max_adjacent_spacing"`
	CrossingPolicy       CrossingPolicy `toml:"-"`
	CrossingPolicyName   string         `toml:"crossing_policy"`
	HardRepeatLimit      int            `toml:"hard_repeat_limit"`
}

// resolveCrossingPolicy turns the TOML string field into the typed enum;
// called after decode.
func (s *InvariantSet) resolveCrossingPolicy() {
	if s.CrossingPolicyName == "reject" {
		s.CrossingPolicy = RejectCrossing
	} else {
		s.CrossingPolicy = AllowTemporaryCrossing
	}
}

// FormProfile names a named bundle of per-voice invariant sets, the
// knob the original's setupFormConstraintState hard-codes per form.
type FormProfile string

const (
	FormProfileDefault FormProfile = "default"
	FormProfileStrict  FormProfile = "strict" // hard_repeat_limit = 3
)

// EngineConfig is the root of the TOML-loadable configuration: invariant
// defaults per FormProfile, gravity phase weights, and Fortspinnung
// character tables. A compiled-in default is used when no file is supplied.
type EngineConfig struct {
	Invariants map[string]InvariantSet      `toml:"invariants"` // keyed by FormProfile
	Gravity    map[string]GravityWeights    `toml:"gravity"`    // keyed by Phase name (see phaseName)
	Characters map[string]CharacterProfile  `toml:"characters"` // keyed by Character name
}

// LoadEngineConfig reads path as TOML and overlays it onto DefaultEngineConfig().
// A zero path returns the compiled-in default untouched.
func LoadEngineConfig(path string) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if path == "" {
		return cfg, nil
	}
	configDebug("loading engine config from %s", path)
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load engine config %q: %w", path, err)
	}
	for k, v := range cfg.Invariants {
		v.resolveCrossingPolicy()
		cfg.Invariants[k] = v
	}
	return cfg, nil
}

// InvariantSetFor returns the configured invariant set for profile and voice,
// falling back to FormProfileDefault if profile is absent.
func (c *EngineConfig) InvariantSetFor(profile FormProfile, voice, voiceCount int) InvariantSet {
	set, ok := c.Invariants[string(profile)]
	if !ok {
		set = c.Invariants[string(FormProfileDefault)]
	}
	set.RangeLo, set.RangeHi = voiceRangeBand(voice, voiceCount, set.RangeLo, set.RangeHi)
	return set
}

// voiceRangeBand spreads a single configured SATB-ish band across voice
// indices whenever voiceCount > 1, giving each voice an equal slice (the
// lowest voice's slice extends down to lo). Voice 0 is the
// highest voice (soprano-like), voice N-1 the lowest (bass-like), matching
// the episode generator's voice-order convention (§4.10: "voices 0 and 1").
func voiceRangeBand(voice, voiceCount, lo, hi int) (int, int) {
	if voiceCount <= 1 {
		return lo, hi
	}
	span := hi - lo
	band := span / voiceCount
	top := hi - band*voice
	bottom := top - band
	if voice == voiceCount-1 {
		bottom = lo
	}
	if bottom > top {
		bottom, top = top, bottom
	}
	return bottom, top
}

// DefaultEngineConfig returns the compiled-in configuration used when no
// TOML file is supplied. Ranges follow conventional SATB tessitura in MIDI
// pitch (approx C2-C6).
func DefaultEngineConfig() *EngineConfig {
	def := InvariantSet{
		RangeLo: 36, RangeHi: 84,
		MinActiveVoices: 1, MaxActiveVoices: 6,
		MaxAdjacentSpacing: 24,
		CrossingPolicyName: "allow",
		HardRepeatLimit:    DefaultHardRepeatLimit,
	}
	strict := def
	strict.HardRepeatLimit = 3

	cfg := &EngineConfig{
		Invariants: map[string]InvariantSet{
			string(FormProfileDefault): def,
			string(FormProfileStrict):  strict,
		},
		Gravity:    defaultGravityWeights(),
		Characters: defaultCharacterProfiles(),
	}
	for k, v := range cfg.Invariants {
		v.resolveCrossingPolicy()
		cfg.Invariants[k] = v
	}
	return cfg
}

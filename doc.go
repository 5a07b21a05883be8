// Package gofugue implements a constraint-driven generation engine for
// multi-voice Baroque counterpoint. It scores and filters candidate notes
// one at a time so that each placement satisfies contrapuntal obligations
// inherited from prior notes, per-note invariants, and statistical gravity
// toward reference style distributions.
//
// The engine is single-threaded and deterministic: two calls to
// GenerateEpisode with identical requests (including seed) produce
// bitwise-identical note lists. Oracle tables and reference distributions
// are process-wide, read-only, and safe to consult from any number of
// goroutines in parallel; the constraint state itself is not.
package gofugue

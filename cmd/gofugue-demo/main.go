/*
gofugue-demo generates one episode of constraint-driven counterpoint and
prints a summary of the placed notes to stdout.

Command line usage is

	gofugue-demo [-voices n] [-character name] [-seed n] [-bars n] [-config path]

This is a thin demonstration wrapper: form orchestration across a full piece,
MIDI emission, and full CLI configurability are intentionally out of scope.
It exists to exercise gofugue.GenerateEpisode end to end.
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gofugue"
)

func characterFromName(name string) gofugue.Character {
	switch name {
	case "Playful":
		return gofugue.Playful
	case "Noble":
		return gofugue.Noble
	case "Restless":
		return gofugue.Restless
	default:
		return gofugue.Severe
	}
}

func main() {
	voices := flag.Int("voices", 3, "voice count (1-6)")
	character := flag.String("character", "Severe", "subject character: Severe, Playful, Noble, Restless")
	seed := flag.Int("seed", 1, "deterministic RNG seed")
	bars := flag.Int("bars", 8, "episode length in bars")
	configPath := flag.String("config", "", "optional TOML engine config path")
	flag.Parse()

	cfg := gofugue.DefaultEngineConfig()
	if *configPath != "" {
		loaded, err := gofugue.LoadEngineConfig(*configPath)
		if err != nil {
			log.Fatalf("gofugue-demo: loading config: %v", err)
		}
		cfg = loaded
	}

	subject := []gofugue.Note{
		{Start: 0, Duration: gofugue.TicksPerBeat, Pitch: 60, Velocity: 90, Voice: 0, Source: gofugue.TagFugueSubject},
		{Start: gofugue.TicksPerBeat, Duration: gofugue.TicksPerBeat, Pitch: 64, Velocity: 90, Voice: 0, Source: gofugue.TagFugueSubject},
		{Start: 2 * gofugue.TicksPerBeat, Duration: gofugue.TicksPerBeat / 2, Pitch: 67, Velocity: 90, Voice: 0, Source: gofugue.TagFugueSubject},
		{Start: 2*gofugue.TicksPerBeat + gofugue.TicksPerBeat/2, Duration: gofugue.TicksPerBeat / 2, Pitch: 65, Velocity: 90, Voice: 0, Source: gofugue.TagFugueSubject},
		{Start: 3 * gofugue.TicksPerBeat, Duration: gofugue.TicksPerBeat, Pitch: 62, Velocity: 90, Voice: 0, Source: gofugue.TagFugueSubject},
	}
	pool := gofugue.BuildMotifPool(subject, nil)

	req := gofugue.EpisodeRequest{
		StartKey:   gofugue.Key(0),
		EndKey:     gofugue.Key(0),
		Mode:       gofugue.Major,
		StartTick:  0,
		Duration:   *bars * gofugue.TicksPerBar,
		VoiceCount: *voices,
		Character:  characterFromName(*character),
		Pool:       pool,
		Rules:      gofugue.FugueRuleEvaluator{},
		Config:     cfg,
		Seed:       uint32(*seed),
	}

	result := gofugue.GenerateEpisode(req)
	if !result.Success {
		fmt.Fprintln(os.Stderr, "gofugue-demo: episode generation failed (invalid request or deadlock)")
		os.Exit(1)
	}

	fmt.Printf("generated %d notes across %d voices\n", len(result.Notes), *voices)
	for _, n := range result.Notes {
		fmt.Printf("tick=%-6d voice=%d pitch=%-3d dur=%d source=%s\n", n.Start, n.Voice, n.Pitch, n.Duration, n.Source)
	}
}

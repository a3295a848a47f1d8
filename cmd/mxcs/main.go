// mxcs renders a YAML-described note sequence through the synth engine,
// writing the result to a WAV file and/or playing it live.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/maximiliankc/mxcs-engine/pkg/synth"
)

func main() {
	patchPath := pflag.StringP("patch", "c", "patch.yaml", "Patch and sequence file.")
	outPath := pflag.StringP("out", "o", "", "WAV file to render to.")
	play := pflag.BoolP("play", "p", false, "Play the rendered audio.")
	verbose := pflag.BoolP("verbose", "v", false, "Enable debug logging.")
	pflag.Parse()

	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	patch, err := loadPatch(*patchPath)
	if err != nil {
		log.Fatal("could not load patch", "path", *patchPath, "err", err)
	}
	cfg, err := patch.config()
	if err != nil {
		log.Fatal("bad patch", "path", *patchPath, "err", err)
	}

	engine, err := synth.New(cfg)
	if err != nil {
		log.Fatal("could not build synth", "err", err)
	}

	presses, releases, total := patch.events()
	log.Info("rendering",
		"sample_rate", cfg.SampleRate,
		"voices", cfg.MaxPolyphony,
		"notes", len(patch.Notes),
		"samples", total)

	samples, err := render(engine, presses, releases, total)
	if err != nil {
		log.Fatal("render failed", "err", err)
	}

	if *outPath != "" {
		if err := writeWAV(*outPath, samples, int(cfg.SampleRate)); err != nil {
			log.Fatal("could not write wav", "path", *outPath, "err", err)
		}
		log.Info("wrote wav", "path", *outPath, "samples", len(samples))
	}
	if *play {
		if err := playback(samples, int(cfg.SampleRate)); err != nil {
			log.Fatal("playback failed", "err", err)
		}
	}
	if *outPath == "" && !*play {
		log.Warn("neither --out nor --play given; output discarded")
		os.Exit(1)
	}
}

// render drives the synth block by block, handing each block the slice
// of events that falls inside it.
func render(engine *synth.Synth, presses, releases []synth.Event, total uint64) ([]float32, error) {
	block := uint64(engine.BlockSize())
	out := make([]float32, total)
	buf := make([]float32, block)

	for pos := uint64(0); pos < total; pos += block {
		end := pos + block
		p := takeEvents(&presses, end)
		r := takeEvents(&releases, end)
		if err := engine.Process(buf, p, r); err != nil {
			return nil, err
		}
		copy(out[pos:end], buf)
		if len(p) > 0 || len(r) > 0 {
			log.Debug("block", "pos", pos, "presses", len(p), "releases", len(r),
				"active", engine.ActiveVoices())
		}
	}
	return out, nil
}

// takeEvents pops the leading events with index below end.
func takeEvents(events *[]synth.Event, end uint64) []synth.Event {
	n := 0
	for n < len(*events) && (*events)[n].Index < end {
		n++
	}
	head := (*events)[:n]
	*events = (*events)[n:]
	return head
}

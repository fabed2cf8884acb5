//go:build !js
// +build !js

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"drumgrid/audio"
	"drumgrid/event"
	"drumgrid/pattern"
)

func main() {
	bpm := flag.Int("bpm", 0, "playback tempo (0 keeps the pattern default)")
	dur := flag.Duration("for", 0, "stop after this long (0 plays until interrupted)")
	quiet := flag.Bool("quiet", false, "suppress per-hit logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [token]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Plays a 16-step drum pattern on the default audio device.\n")
		fmt.Fprintf(flag.CommandLine.Output(), "An optional token argument loads a shared pattern.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	bus := event.NewBus()
	store := pattern.NewStore(bus)

	if token := flag.Arg(0); token != "" {
		before := store.Serialize()
		store.Deserialize(token)
		if store.Serialize() == before {
			log.Printf("token not recognized, playing the default pattern")
		}
	}

	if !*quiet {
		bus.Subscribe(func(e event.Event) {
			switch e.Type {
			case event.KickHit:
				log.Printf("step %2d  kick", e.Step)
			case event.SnareHit:
				log.Printf("step %2d  snare", e.Step)
			case event.HiHatHit:
				log.Printf("step %2d  hihat", e.Step)
			case event.Tempo:
				log.Printf("tempo %d bpm", e.BPM)
			}
		})
	}

	cfg := audio.EngineConfig
	eng := audio.NewNativeEngine(cfg)
	drv := audio.NewTickerDriver(cfg.PollIntervalMs)
	seq := audio.NewSequencer(store, bus, eng, drv, cfg)

	if *bpm > 0 {
		seq.Play(*bpm)
	} else {
		seq.Play()
	}
	log.Printf("playing at %d bpm, ^C to stop", store.Tempo())

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	if *dur > 0 {
		select {
		case <-time.After(*dur):
		case <-interrupt:
		}
	} else {
		<-interrupt
	}

	seq.Stop()
	// Let already scheduled triggers ring out.
	time.Sleep(300 * time.Millisecond)
}

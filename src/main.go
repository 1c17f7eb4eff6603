package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gen2brain/malgo"
	"github.com/jinjor/fm-voice/src/audio"
	"golang.org/x/sync/errgroup"
)

type demoNote struct {
	carrierFreq   float64
	modulatorFreq float64
	modIndex      float64
}

var demoNotes = []demoNote{
	{carrierFreq: 440, modulatorFreq: 880, modIndex: 2.0},
	{carrierFreq: 523.25, modulatorFreq: 1046.5, modIndex: 3.0},
	{carrierFreq: 659.25, modulatorFreq: 659.25, modIndex: 5.0},
	{carrierFreq: 440, modulatorFreq: 220, modIndex: 8.0},
}

const holdTime = 800 * time.Millisecond
const releaseTime = 700 * time.Millisecond

// checkPlaybackDevices fails early with a readable error instead of letting
// the device open fail somewhere inside the player.
func checkPlaybackDevices() error {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to init audio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()
	devices, err := mctx.Devices(malgo.Playback)
	if err != nil {
		return fmt.Errorf("failed to enumerate playback devices: %w", err)
	}
	if len(devices) == 0 {
		return fmt.Errorf("no playback device found")
	}
	for _, d := range devices {
		log.Printf("playback device: %v\n", d.Name())
	}
	return nil
}

func playDemo(ctx context.Context, commandCh chan<- []string) error {
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	for _, note := range demoNotes {
		commandCh <- []string{"set", "carrier_freq", format(note.carrierFreq)}
		commandCh <- []string{"set", "modulator_freq", format(note.modulatorFreq)}
		commandCh <- []string{"set", "modulation_index", format(note.modIndex)}
		commandCh <- []string{"note_on"}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(holdTime):
		}
		commandCh <- []string{"note_off"}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(releaseTime):
		}
	}
	return nil
}

func main() {
	log.SetFlags(log.Lshortfile)
	presetDir := flag.String("presets", "", "directory of preset JSON files")
	flag.Parse()

	if err := checkPlaybackDevices(); err != nil {
		log.Fatalf("error: %v", err)
	}

	a := audio.NewAudio()
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("error: %v", err)
		}
	}()
	if *presetDir != "" {
		a.SetPresetDir(*presetDir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Println("Interrupted.")
		cancel()
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Start(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return playDemo(ctx, a.CommandCh)
	})
	if err := g.Wait(); err != nil && err != context.Canceled {
		log.Fatalf("error: %v", err)
	}
	log.Println("Done.")
}

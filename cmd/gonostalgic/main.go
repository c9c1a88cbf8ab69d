// Command gonostalgic runs an NES cartridge image through the
// emulator core and presents it with ebiten, with optional audio
// playback through PortAudio.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mwalton/gonostalgic/nes"
)

var (
	romPath    = flag.String("rom", "", "path to an iNES (.nes) ROM image")
	gameGenie  = flag.String("genie", "", "comma-separated Game Genie codes to apply at boot")
	scale      = flag.Int("scale", 3, "integer window scale factor")
	mute       = flag.Bool("mute", false, "disable audio output")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		log.Fatalf("gonostalgic: %v", err)
	}
}

func run() error {
	if *romPath == "" {
		return errMissingROM
	}

	f, err := os.Open(*romPath)
	if err != nil {
		return err
	}
	defer f.Close()

	console, err := nes.Load(f)
	if err != nil {
		return err
	}

	for _, code := range splitCodes(*gameGenie) {
		if err := console.ApplyGameGenieCode(code); err != nil {
			log.Printf("gonostalgic: skipping invalid Game Genie code %q: %v", code, err)
		}
	}

	var sink *audioSink
	if !*mute {
		sink, err = newAudioSink()
		if err != nil {
			log.Printf("gonostalgic: audio disabled: %v", err)
			sink = nil
		} else {
			defer sink.Close()
		}
	}

	game := newGame(console, sink)

	ebiten.SetWindowSize(gameWidth*(*scale), gameHeight*(*scale))
	ebiten.SetWindowTitle("gonostalgic")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	game.startEmulation(ctx)

	return ebiten.RunGame(game)
}

func splitCodes(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, code := range strings.Split(s, ",") {
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

type missingROMError struct{}

func (missingROMError) Error() string { return "gonostalgic: -rom is required" }

var errMissingROM = missingROMError{}

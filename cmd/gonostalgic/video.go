package main

import (
	"context"
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"

	"github.com/mwalton/gonostalgic/nes"
	"github.com/mwalton/gonostalgic/ppu"
)

const (
	gameWidth  = ppu.Width
	gameHeight = ppu.Height
)

// game implements ebiten.Game, presenting whatever frame the
// emulation goroutine most recently produced and forwarding keyboard
// state into the console's joypads once per Update.
type game struct {
	console *nes.Console
	sink    *audioSink

	mu    sync.Mutex
	frame [gameWidth * gameHeight]uint32
}

func newGame(c *nes.Console, sink *audioSink) *game {
	return &game{
		console: c,
		sink:    sink,
	}
}

// startEmulation launches the emulation loop in the background via
// nes.Run, copying each completed frame into g and draining audio
// samples to the sink. Errors are logged rather than propagated since
// by the time Update/Draw are polling, ebiten already owns the
// process's main loop.
func (g *game) startEmulation(ctx context.Context) {
	go func() {
		err := nes.Run(ctx, g.console, func(fb *[gameWidth * gameHeight]uint32) {
			g.mu.Lock()
			g.frame = *fb
			g.mu.Unlock()

			if g.sink != nil {
				g.sink.Write(g.console.Bus.DrainAudio())
			}
		})
		if err != nil {
			log.Printf("gonostalgic: emulation stopped: %v", err)
		}
	}()
}

func (g *game) Update() error {
	pollInput(g.console)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame := g.frame
	g.mu.Unlock()

	rgba := image.NewRGBA(image.Rect(0, 0, gameWidth, gameHeight))
	for i, px := range frame {
		r, gr, b, a := decodeRGBA(px)
		rgba.Set(i%gameWidth, i/gameWidth, color.RGBA{r, gr, b, a})
	}

	bounds := screen.Bounds()
	dst := image.NewRGBA(bounds)
	draw.NearestNeighbor.Scale(dst, bounds, rgba, rgba.Bounds(), draw.Over, nil)
	screen.WritePixels(dst.Pix)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func decodeRGBA(px uint32) (r, gr, b, a uint8) {
	return uint8(px >> 24), uint8(px >> 16), uint8(px >> 8), uint8(px)
}

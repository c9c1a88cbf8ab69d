// Package nes wires a CPU, Bus, PPU and APU into a runnable console:
// cartridge loading, the reset sequence, and the top-level Run loop
// that steps the CPU and surfaces completed frames to a host.
package nes

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/mwalton/gonostalgic/bus"
	"github.com/mwalton/gonostalgic/cartridge"
	"github.com/mwalton/gonostalgic/cpu"
	"github.com/mwalton/gonostalgic/gamegenie"
	"github.com/mwalton/gonostalgic/ppu"
)

// Console is a fully wired NES: CPU, Bus (which itself owns the PPU,
// APU and cartridge mapper), ready to Step or Run.
type Console struct {
	CPU *cpu.CPU
	Bus *bus.Bus

	cart *cartridge.Cartridge
}

// Load reads an iNES image from r and constructs a Console ready to
// run it.
func Load(r io.Reader) (*Console, error) {
	cart, err := cartridge.Load(r)
	if err != nil {
		return nil, fmt.Errorf("nes: loading cartridge: %w", err)
	}

	b, err := bus.NewFromCartridge(cart)
	if err != nil {
		return nil, fmt.Errorf("nes: wiring bus: %w", err)
	}

	c := cpu.New(b)
	b.AttachCPU(c)

	return &Console{CPU: c, Bus: b, cart: cart}, nil
}

// ApplyGameGenieCode decodes code and installs it as a standing PRG
// patch.
func (c *Console) ApplyGameGenieCode(code string) error {
	p, err := gamegenie.Decode(code)
	if err != nil {
		return fmt.Errorf("nes: applying Game Genie code: %w", err)
	}
	c.Bus.AddPatch(p)
	return nil
}

// Reset reproduces a hardware reset button press.
func (c *Console) Reset() {
	c.CPU.Reset()
}

// Step executes exactly one CPU instruction and ticks the rest of the
// console the same number of cycles, reporting whether a new PPU
// frame became available.
func (c *Console) Step() (frameReady bool, err error) {
	cycles, err := c.CPU.Step()
	if err != nil {
		return false, err
	}
	c.Bus.Tick(cycles)
	return c.Bus.FrameComplete(), nil
}

// RunUntilFrame steps the console until a frame completes or ctx is
// cancelled, returning the completed frame's pixel buffer. It does
// not copy the buffer, so callers that need to retain it across
// frames must copy it themselves before the next call.
func (c *Console) RunUntilFrame(ctx context.Context) (*[ppu.Width * ppu.Height]uint32, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		ready, err := c.Step()
		if err != nil {
			return nil, err
		}
		if ready {
			return c.Bus.Framebuffer(), nil
		}
	}
}

// Run drives the console continuously, invoking onFrame every time a
// frame completes, until ctx is cancelled. The loop runs in an
// errgroup goroutine; Run waits for it and returns the error that
// stopped it (ctx's error once ctx is cancelled).
func Run(ctx context.Context, c *Console, onFrame func(*[ppu.Width * ppu.Height]uint32)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			fb, err := c.RunUntilFrame(ctx)
			if err != nil {
				return err
			}
			onFrame(fb)
		}
	})
	return g.Wait()
}

package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/mwalton/gonostalgic/bus"
	"github.com/mwalton/gonostalgic/nes"
)

// keyBindings maps host keyboard keys to controller 1 buttons, in the
// standard "WASD + JK + Enter/Space" layout most NES emulators use.
var keyBindings = map[ebiten.Key]bus.Button{
	ebiten.KeyJ:     bus.ButtonA,
	ebiten.KeyK:     bus.ButtonB,
	ebiten.KeySpace: bus.ButtonSelect,
	ebiten.KeyEnter: bus.ButtonStart,
	ebiten.KeyW:     bus.ButtonUp,
	ebiten.KeyS:     bus.ButtonDown,
	ebiten.KeyA:     bus.ButtonLeft,
	ebiten.KeyD:     bus.ButtonRight,
}

// pollInput reads the host keyboard once per Update and writes the
// current button states straight into controller 1; the joypad
// itself decides when to snapshot them via its strobe contract.
func pollInput(c *nes.Console) {
	pad := c.Bus.Joypad1()
	for key, button := range keyBindings {
		pad.SetButton(button, ebiten.IsKeyPressed(key))
	}
}

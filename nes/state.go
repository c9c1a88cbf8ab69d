package nes

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// State is a plain snapshot of console state. SaveState fills only the
// CPU registers; the RAM field is not filled, and PPU, APU and mapper
// state are not part of the snapshot. The APU sample ring and any host
// callbacks or handles are excluded as well.
type State struct {
	CPU struct {
		A, X, Y, S uint8
		PC         uint16
		P          uint8
	}
	RAM [0x0800]uint8
}

// SaveState captures c's current CPU registers into a portable byte
// slice. RAM contents are not captured.
func SaveState(c *Console) ([]byte, error) {
	var s State
	s.CPU.A, s.CPU.X, s.CPU.Y = c.CPU.A, c.CPU.X, c.CPU.Y
	s.CPU.S, s.CPU.PC, s.CPU.P = c.CPU.S, c.CPU.PC, c.CPU.P

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("nes: encoding save state: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadState restores c's CPU register state from data produced by
// SaveState. RAM, PPU, APU and mapper state are not restored.
func LoadState(c *Console, data []byte) error {
	var s State
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return fmt.Errorf("nes: decoding save state: %w", err)
	}
	c.CPU.A, c.CPU.X, c.CPU.Y = s.CPU.A, s.CPU.X, s.CPU.Y
	c.CPU.S, c.CPU.PC, c.CPU.P = s.CPU.S, s.CPU.PC, s.CPU.P
	return nil
}

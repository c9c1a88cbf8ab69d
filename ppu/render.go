package ppu

// Tick advances the PPU by one PPU dot (cycle). The bus calls this
// 3 times per CPU cycle consumed, per the 3:1 PPU:CPU clock ratio,
// even though ticking itself happens at instruction granularity: the
// bus loops this call 3*cycles times after each CPU.Step.
func (p *PPU) Tick() {
	if p.scanline >= -1 && p.scanline < 240 {
		p.renderLine()
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.status |= statusVBlank
		if p.ctrl&ctrlNMIEnable != 0 {
			p.nmiRequested = true
		}
	}

	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frame++
			p.frameComplete = true
		}
	}
}

func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskShowBG|maskShowSpr) != 0
}

func (p *PPU) renderLine() {
	if p.scanline == -1 && p.cycle == 1 {
		p.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
	}

	if !p.renderingEnabled() {
		return
	}

	switch {
	case p.cycle >= 1 && p.cycle <= 256, p.cycle >= 321 && p.cycle <= 336:
		p.updateBGShifters()
		switch (p.cycle - 1) % 8 {
		case 0:
			p.loadBGShifters()
			p.bgNextTileID = p.vramRead(0x2000 | (p.v.data & 0x0FFF))
		case 2:
			p.bgNextAttr = p.fetchAttribute()
		case 4:
			p.bgNextTileLo = p.fetchPatternByte(0)
		case 6:
			p.bgNextTileHi = p.fetchPatternByte(8)
		case 7:
			p.v.incrementCoarseX()
		}
	case p.cycle == 256:
		p.v.incrementFineY()
	case p.cycle == 257:
		p.loadBGShifters()
		p.v.setCoarseX(p.t.coarseX())
		if p.v.nametableX() != p.t.nametableX() {
			p.v.toggleNametableX()
		}
		p.evaluateSprites()
	case p.cycle == 338, p.cycle == 340:
		p.bgNextTileID = p.vramRead(0x2000 | (p.v.data & 0x0FFF))
	}

	if p.scanline == -1 && p.cycle >= 280 && p.cycle <= 304 {
		p.v.setCoarseY(p.t.coarseY())
		p.v.setFineY(p.t.fineY())
		if p.v.nametableY() != p.t.nametableY() {
			p.v.toggleNametableY()
		}
	}

	if p.scanline >= 0 && p.cycle >= 1 && p.cycle <= 256 {
		p.composite()
	}
}

func (p *PPU) fetchAttribute() uint8 {
	addr := 0x23C0 | (p.v.data & 0x0C00) | ((p.v.coarseY() >> 2) << 3) | (p.v.coarseX() >> 2)
	b := p.vramRead(addr)
	if p.v.coarseY()&0x02 != 0 {
		b >>= 4
	}
	if p.v.coarseX()&0x02 != 0 {
		b >>= 2
	}
	return b & 0x03
}

func (p *PPU) fetchPatternByte(plane uint16) uint8 {
	base := uint16(0)
	if p.ctrl&ctrlBGPattern != 0 {
		base = 0x1000
	}
	addr := base + uint16(p.bgNextTileID)*16 + p.v.fineY() + plane
	return p.vramRead(addr)
}

func (p *PPU) loadBGShifters() {
	p.bgShiftPatternLo = (p.bgShiftPatternLo & 0xFF00) | uint16(p.bgNextTileLo)
	p.bgShiftPatternHi = (p.bgShiftPatternHi & 0xFF00) | uint16(p.bgNextTileHi)

	lo, hi := uint16(0x00), uint16(0x00)
	if p.bgNextAttr&0x01 != 0 {
		lo = 0xFF
	}
	if p.bgNextAttr&0x02 != 0 {
		hi = 0xFF
	}
	p.bgShiftAttrLo = (p.bgShiftAttrLo & 0xFF00) | lo
	p.bgShiftAttrHi = (p.bgShiftAttrHi & 0xFF00) | hi
}

func (p *PPU) updateBGShifters() {
	if p.mask&maskShowBG == 0 {
		return
	}
	p.bgShiftPatternLo <<= 1
	p.bgShiftPatternHi <<= 1
	p.bgShiftAttrLo <<= 1
	p.bgShiftAttrHi <<= 1
}

// evaluateSprites scans primary OAM for up to 8 sprites intersecting
// the NEXT scanline, honoring the hardware's 8-sprite-per-line limit
// and setting the overflow flag once that limit is exceeded.
func (p *PPU) evaluateSprites() {
	p.visibleSprites = p.visibleSprites[:0]
	height := 8
	if p.ctrl&ctrlSpriteSize != 0 {
		height = 16
	}

	p.spriteIsSprite0 = false
	count := 0
	for i := 0; i < 64; i++ {
		raw := p.oam[i*4 : i*4+4]
		y := int(raw[0])
		row := p.scanline - y
		if row < 0 || row >= height {
			continue
		}
		if count == 8 {
			p.status |= statusSpriteOverflow
			break
		}
		s := OAMFromBytes(raw)
		p.visibleSprites = append(p.visibleSprites, s)
		if i == 0 {
			p.spriteIsSprite0 = true
		}
		count++
	}

	for i, s := range p.visibleSprites {
		row := p.scanline - int(s.y)
		if s.flipV {
			row = height - 1 - row
		}
		base := uint16(0)
		tile := uint16(s.tileId)
		if height == 16 {
			base = uint16(s.tileId&1) * 0x1000
			tile = uint16(s.tileId &^ 1)
			if row >= 8 {
				tile++
				row -= 8
			}
		} else if p.ctrl&ctrlSpritePattern != 0 {
			base = 0x1000
		}
		addr := base + tile*16 + uint16(row)
		lo := p.vramRead(addr)
		hi := p.vramRead(addr + 8)
		if s.flipH {
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// composite produces one output pixel for (scanline, cycle-1),
// resolving background/sprite priority and sprite-0 hit detection.
func (p *PPU) composite() {
	x, y := p.cycle-1, p.scanline

	bgPixel, bgPal := uint8(0), uint8(0)
	if p.mask&maskShowBG != 0 {
		bit := uint16(0x8000) >> p.x
		lo := uint8(0)
		if p.bgShiftPatternLo&bit != 0 {
			lo = 1
		}
		hi := uint8(0)
		if p.bgShiftPatternHi&bit != 0 {
			hi = 1
		}
		bgPixel = hi<<1 | lo

		plo := uint8(0)
		if p.bgShiftAttrLo&bit != 0 {
			plo = 1
		}
		phi := uint8(0)
		if p.bgShiftAttrHi&bit != 0 {
			phi = 1
		}
		bgPal = phi<<1 | plo
	}

	sprPixel, sprPal := uint8(0), uint8(0)
	sprFront := false
	sprIsZero := false
	if p.mask&maskShowSpr != 0 {
		for i, s := range p.visibleSprites {
			col := x - int(s.x)
			if col < 0 || col > 7 {
				continue
			}
			lo := (p.spritePatternLo[i] >> (7 - uint(col))) & 1
			hi := (p.spritePatternHi[i] >> (7 - uint(col))) & 1
			px := hi<<1 | lo
			if px == 0 {
				continue
			}
			sprPixel = px
			sprPal = s.palette
			sprFront = s.renderP == FRONT
			sprIsZero = i == 0 && p.spriteIsSprite0
			break
		}
	}

	if sprIsZero && bgPixel != 0 && sprPixel != 0 && x != 255 {
		p.status |= statusSprite0Hit
	}

	var idx uint16
	switch {
	case bgPixel == 0 && sprPixel == 0:
		idx = 0
	case bgPixel == 0:
		idx = 0x10 + uint16(sprPal)*4 + uint16(sprPixel)
	case sprPixel == 0:
		idx = uint16(bgPal)*4 + uint16(bgPixel)
	case sprFront:
		idx = 0x10 + uint16(sprPal)*4 + uint16(sprPixel)
	default:
		idx = uint16(bgPal)*4 + uint16(bgPixel)
	}

	color := ColorFor(p.palette[paletteIndex(0x3F00+idx)])
	p.Framebuffer[y*Width+x] = color
}

package ppu

// systemPalette is the 64-entry 2C02 RGB palette, indexed by the
// 6-bit value stored in palette RAM. Values follow the commonly used
// "2C02G" measured palette.
var systemPalette = [64]uint32{
	0x626262FF, 0x001FB2FF, 0x2404C8FF, 0x5200B2FF,
	0x730076FF, 0x800024FF, 0x730B00FF, 0x522800FF,
	0x244400FF, 0x005700FF, 0x005C00FF, 0x005324FF,
	0x003C76FF, 0x000000FF, 0x000000FF, 0x000000FF,
	0xABABABFF, 0x0D57FFFF, 0x4B30FFFF, 0x8A13FFFF,
	0xBC08D6FF, 0xD21269FF, 0xC72E00FF, 0x9D5400FF,
	0x607B00FF, 0x209800FF, 0x00A300FF, 0x009942FF,
	0x007DB4FF, 0x000000FF, 0x000000FF, 0x000000FF,
	0xFFFFFFFF, 0x53AEFFFF, 0x9085FFFF, 0xD365FFFF,
	0xFF57FFFF, 0xFF5DCFFF, 0xFF7757FF, 0xFA9E00FF,
	0xBDC700FF, 0x7AE700FF, 0x43F611FF, 0x26EF7EFF,
	0x2CD5F6FF, 0x4E4E4EFF, 0x000000FF, 0x000000FF,
	0xFFFFFFFF, 0xB6E1FFFF, 0xCED1FFFF, 0xE9C3FFFF,
	0xFFBCFFFF, 0xFFBDF4FF, 0xFFC6C3FF, 0xFFD59AFF,
	0xE9E681FF, 0xCEF481FF, 0xB6FB9AFF, 0xA9FAC3FF,
	0xA9F0F4FF, 0xB8B8B8FF, 0x000000FF, 0x000000FF,
}

// ColorFor resolves a 6-bit system palette index to its packed RGBA.
func ColorFor(idx uint8) uint32 {
	return systemPalette[idx&0x3F]
}

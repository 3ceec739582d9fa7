package video

import "github.com/halvard/dmgcore/bit"

// decodeTileRow unpacks one 2-bits-per-pixel row of tile data (the low
// and high bit planes Game Boy tiles store) into eight 2-bit color
// indices, MSB (screen-left) first. Background, window, and sprite
// rendering all fetch rows in this exact shape, so they share it
// instead of repeating the bit-plane math three times.
func decodeTileRow(low, high uint8) [8]uint8 {
	var row [8]uint8
	for x := uint8(0); x < 8; x++ {
		bitIndex := 7 - x
		pixel := uint8(0)
		if bit.IsSet(bitIndex, low) {
			pixel |= 1
		}
		if bit.IsSet(bitIndex, high) {
			pixel |= 2
		}
		row[x] = pixel
	}
	return row
}

// tileDataAddress resolves a tile index to its data address, honoring
// LCDC's signed/unsigned addressing mode selection (bit 4): unsigned
// mode indexes 0-255 from 0x8000, signed mode indexes -128..127 around
// the 0x9000 midpoint.
func tileDataAddress(base uint16, signedMode bool, tileIndex uint8, rowOffset uint16) uint16 {
	if signedMode {
		offset := int(int8(tileIndex)) * 16
		return uint16(int(base) + offset + int(rowOffset))
	}
	return base + uint16(tileIndex)*16 + rowOffset
}

package memory

import (
	"strings"
	"unicode"

	"github.com/halvard/dmgcore/bit"
)

const (
	titleAddress          = 0x0134
	titleLength           = 0x0149 - 0x0134
	cartridgeTypeAddress  = 0x0147
	romSizeAddress        = 0x0148
	ramSizeAddress        = 0x0149
	destinationAddress    = 0x014A
	headerChecksumAddress = 0x014D
	globalChecksumAddress = 0x014E
)

// ramBankCounts maps the RAM-size header byte (0x0149) to the number of
// 8KB external RAM banks a cartridge carries.
var ramBankCounts = map[uint8]uint8{
	0x00: 0,
	0x01: 1, // unofficial: 2KB, rounds up to one bank
	0x02: 1,
	0x03: 4,
	0x04: 16,
	0x05: 8,
}

// Cartridge holds a loaded ROM image and the header fields describing it.
type Cartridge struct {
	Data []uint8

	Title          string
	CartridgeType  uint8
	ROMSize        uint8
	RAMSize        uint8
	JapaneseRegion bool
	HeaderChecksum uint16
	GlobalChecksum uint16
}

// NewCartridge parses a raw ROM image. The bytes are retained (not
// copied) as the cartridge's backing ROM storage.
func NewCartridge(data []uint8) *Cartridge {
	c := &Cartridge{
		Data:          data,
		CartridgeType: data[cartridgeTypeAddress],
		ROMSize:       data[romSizeAddress],
		RAMSize:       data[ramSizeAddress],
	}
	if titleAddress+titleLength <= len(data) {
		c.Title = cleanTitle(data[titleAddress : titleAddress+titleLength])
	}
	if destinationAddress < len(data) {
		c.JapaneseRegion = data[destinationAddress] == 0x00
	}
	if headerChecksumAddress+1 < len(data) {
		c.HeaderChecksum = uint16(data[headerChecksumAddress])
	}
	if globalChecksumAddress+1 < len(data) {
		c.GlobalChecksum = bit.Combine(data[globalChecksumAddress], data[globalChecksumAddress+1])
	}
	return c
}

// RAMBankCount reports how many 8KB external RAM banks this cartridge's
// header declares.
func (c *Cartridge) RAMBankCount() uint8 {
	return ramBankCounts[c.RAMSize]
}

// HasBanking reports whether this cartridge type needs an MBC1 rather
// than a direct unbanked mapping.
func (c *Cartridge) HasBanking() bool {
	switch c.CartridgeType {
	case 0x00:
		return false
	case 0x01, 0x02, 0x03:
		return true
	default:
		return false
	}
}

// Unsupported reports whether this cartridge declares an MBC type this
// core does not implement (MBC2/MBC3/MBC5 and beyond).
func (c *Cartridge) Unsupported() bool {
	switch c.CartridgeType {
	case 0x00, 0x01, 0x02, 0x03:
		return false
	default:
		return true
	}
}

func cleanTitle(raw []uint8) string {
	runes := make([]rune, 0, len(raw))
	for _, b := range raw {
		r := rune(b)
		switch {
		case r == 0:
			continue
		case !unicode.IsPrint(r):
			r = '?'
		}
		runes = append(runes, r)
	}
	title := strings.TrimSpace(string(runes))
	if title == "" {
		return "(untitled)"
	}
	return title
}

package debug

import (
	"fmt"
	"strings"

	"github.com/halvard/dmgcore/memory"
)

// FormatHeader renders the cartridge header fields for HEADER mode.
func FormatHeader(cart *memory.Cartridge) string {
	return fmt.Sprintf(
		"title=%q type=0x%02X romSize=0x%02X ramSize=0x%02X banks=%d region=%s headerChecksum=0x%02X globalChecksum=0x%04X",
		cart.Title, cart.CartridgeType, cart.ROMSize, cart.RAMSize, cart.RAMBankCount(),
		regionName(cart.JapaneseRegion), cart.HeaderChecksum, cart.GlobalChecksum,
	)
}

// FormatTitle renders only the cartridge title, for TITLE mode.
func FormatTitle(cart *memory.Cartridge) string {
	return cart.Title
}

func regionName(japanese bool) string {
	if japanese {
		return "JP"
	}
	return "non-JP"
}

// FormatMemory renders a hex dump of width bytes per row starting at
// start, for MEMORY mode's crash-site dump.
func FormatMemory(start uint16, length int, mem Reader) string {
	const width = 16
	var b strings.Builder
	for i := 0; i < length; i += width {
		fmt.Fprintf(&b, "0x%04X: ", start+uint16(i))
		for j := 0; j < width && i+j < length; j++ {
			fmt.Fprintf(&b, "%02X ", mem.Read(start+uint16(i+j)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

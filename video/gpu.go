package video

import (
	"github.com/halvard/dmgcore/addr"
	"github.com/halvard/dmgcore/bit"
)

// Bus is the subset of the memory bus the PPU reads/writes: VRAM, OAM,
// and its own registers. Kept minimal, like cpu.Bus, to avoid a
// video -> memory import cycle.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Mode is the PPU's current stage within a scanline; its value is
// exactly what STAT bits 1-0 report.
type Mode uint8

const (
	HBlank        Mode = 0
	VBlank        Mode = 1
	OAMSearch     Mode = 2
	PixelTransfer Mode = 3
)

const (
	oamSearchCycles     = 80
	pixelTransferCycles = 172
	hblankCycles        = 204
	scanlineCycles      = oamSearchCycles + pixelTransferCycles + hblankCycles // 456
	vblankLines         = 10
)

const (
	lcdEnable        = 7
	windowTileMapBit = 6
	windowEnableBit  = 5
	tileDataSelect   = 4
	bgTileMapBit     = 3
	spriteSizeBit    = 2
	spriteEnableBit  = 1
	bgEnableBit      = 0
)

const (
	statLYCInterrupt    = 6
	statOAMInterrupt    = 5
	statVBlankInterrupt = 4
	statHBlankInterrupt = 3
	statLYCFlag         = 2
)

// GPU is the DMG picture processing unit.
type GPU struct {
	bus              Bus
	display          Display
	requestInterrupt func(addr.Interrupt)

	frame        FrameBuffer
	bgColorLine  [FramebufferWidth]uint8 // color index (0-3) of the last rendered scanline, for sprite-under-bg priority
	sprites      spritePriority

	mode           Mode
	line           int
	modeCycles     int
	windowLine     int
	scanlineLatched bool
}

// New returns a PPU wired to bus, starting in OAMSearch at line 0.
func New(bus Bus, display Display, requestInterrupt func(addr.Interrupt)) *GPU {
	if display == nil {
		display = NullDisplay{}
	}
	return &GPU{
		bus:              bus,
		display:          display,
		requestInterrupt: requestInterrupt,
		mode:             OAMSearch,
	}
}

// Tick advances the PPU by cycles (the same raw count CPU.Step
// returns). It loops internally rather than processing one mode
// transition per call, so a caller is free to batch several
// instructions' worth of cycles into one Tick without losing state
// transitions.
func (g *GPU) Tick(cycles int) {
	if !g.lcdEnabled() {
		return
	}

	g.modeCycles += cycles

	for {
		switch g.mode {
		case OAMSearch:
			if g.modeCycles < oamSearchCycles {
				return
			}
			g.modeCycles -= oamSearchCycles
			g.scanlineLatched = false
			g.switchMode(PixelTransfer)
		case PixelTransfer:
			if !g.scanlineLatched {
				g.renderScanline()
				g.scanlineLatched = true
			}
			if g.modeCycles < pixelTransferCycles {
				return
			}
			g.modeCycles -= pixelTransferCycles
			g.switchMode(HBlank)
		case HBlank:
			if g.modeCycles < hblankCycles {
				return
			}
			g.modeCycles -= hblankCycles
			g.setLY(g.line + 1)
			if g.line == FramebufferHeight {
				g.windowLine = 0
				g.switchMode(VBlank)
				g.requestInterrupt(addr.VBlank)
				g.display.Present(&g.frame)
			} else {
				g.switchMode(OAMSearch)
			}
		case VBlank:
			if g.modeCycles < scanlineCycles {
				return
			}
			g.modeCycles -= scanlineCycles
			if g.line == FramebufferHeight+vblankLines-1 {
				g.setLY(0)
				g.switchMode(OAMSearch)
			} else {
				g.setLY(g.line + 1)
			}
		}
	}
}

func (g *GPU) switchMode(mode Mode) {
	g.mode = mode
	stat := g.bus.Read(addr.STAT)
	stat = stat&0xFC | uint8(mode)
	g.bus.Write(addr.STAT, stat)

	var irqBit uint8
	switch mode {
	case OAMSearch:
		irqBit = statOAMInterrupt
	case HBlank:
		irqBit = statHBlankInterrupt
	case VBlank:
		irqBit = statVBlankInterrupt
	default:
		return // PixelTransfer has no STAT interrupt source
	}
	if bit.IsSet(irqBit, stat) {
		g.requestInterrupt(addr.LCDStat)
	}
}

func (g *GPU) setLY(line int) {
	g.line = line
	g.bus.Write(addr.LY, uint8(line))

	stat := g.bus.Read(addr.STAT)
	lyc := g.bus.Read(addr.LYC)
	if uint8(line) == lyc {
		stat = bit.Set(statLYCFlag, stat)
		if bit.IsSet(statLYCInterrupt, stat) {
			g.requestInterrupt(addr.LCDStat)
		}
	} else {
		stat = bit.Reset(statLYCFlag, stat)
	}
	g.bus.Write(addr.STAT, stat)
}

func (g *GPU) lcdcBit(index uint8) bool {
	return bit.IsSet(index, g.bus.Read(addr.LCDC))
}

func (g *GPU) lcdEnabled() bool { return g.lcdcBit(lcdEnable) }

func (g *GPU) renderScanline() {
	g.drawBackground()
	g.drawWindow()
	g.drawSprites()
}

func (g *GPU) paletteColor(paletteAddr uint16, colorID uint8) Shade {
	palette := g.bus.Read(paletteAddr)
	return shadeOf((palette >> (colorID * 2)) & 0x3)
}

func (g *GPU) tileMapBase(useMapZero bool) uint16 {
	if useMapZero {
		return addr.TileMap0
	}
	return addr.TileMap1
}

func (g *GPU) tileDataBase() (base uint16, signedMode bool) {
	if g.lcdcBit(tileDataSelect) {
		return addr.TileData0, false
	}
	return addr.TileData2, true
}

func (g *GPU) drawBackground() {
	if !g.lcdcBit(bgEnableBit) {
		shade := g.paletteColor(addr.BGP, 0)
		for x := 0; x < FramebufferWidth; x++ {
			g.frame.set(x, g.line, shade)
			g.bgColorLine[x] = 0
		}
		return
	}

	scrollX := g.bus.Read(addr.SCX)
	scrollY := g.bus.Read(addr.SCY)
	tileMapAddr := g.tileMapBase(!g.lcdcBit(bgTileMapBit))
	dataBase, signedMode := g.tileDataBase()

	scrolledY := (g.line + int(scrollY)) & 0xFF
	tileRow := scrolledY / 8
	rowInTile := uint16(scrolledY%8) * 2

	for x := 0; x < FramebufferWidth; x++ {
		scrolledX := (x + int(scrollX)) & 0xFF
		tileCol := scrolledX / 8

		tileIndex := g.bus.Read(tileMapAddr + uint16(tileRow*32+tileCol))
		tileAddr := tileDataAddress(dataBase, signedMode, tileIndex, rowInTile)
		low := g.bus.Read(tileAddr)
		high := g.bus.Read(tileAddr + 1)
		row := decodeTileRow(low, high)

		colorID := row[scrolledX%8]
		g.frame.set(x, g.line, g.paletteColor(addr.BGP, colorID))
		g.bgColorLine[x] = colorID
	}
}

func (g *GPU) drawWindow() {
	if !g.lcdcBit(windowEnableBit) {
		return
	}

	wy := g.bus.Read(addr.WY)
	if int(wy) > g.line {
		return
	}
	wx := int(g.bus.Read(addr.WX)) - 7
	if wx >= FramebufferWidth {
		return
	}

	tileMapAddr := g.tileMapBase(!g.lcdcBit(windowTileMapBit))
	dataBase, signedMode := g.tileDataBase()

	tileRow := g.windowLine / 8
	rowInTile := uint16(g.windowLine%8) * 2

	for screenX := max(wx, 0); screenX < FramebufferWidth; screenX++ {
		windowX := screenX - wx
		tileCol := windowX / 8

		tileIndex := g.bus.Read(tileMapAddr + uint16(tileRow*32+tileCol))
		tileAddr := tileDataAddress(dataBase, signedMode, tileIndex, rowInTile)
		low := g.bus.Read(tileAddr)
		high := g.bus.Read(tileAddr + 1)
		row := decodeTileRow(low, high)

		colorID := row[windowX%8]
		g.frame.set(screenX, g.line, g.paletteColor(addr.BGP, colorID))
		g.bgColorLine[screenX] = colorID
	}
	g.windowLine++
}

type spriteAttrs struct {
	oamIndex     int
	y, x         int
	tile         uint8
	paletteAddr  uint16
	flipX, flipY bool
	aboveBG      bool
}

func (g *GPU) selectSprites(height int) []spriteAttrs {
	var selected []spriteAttrs
	for i := 0; i < 40; i++ {
		oamAddr := addr.OAMStart + uint16(i*4)
		y := int(g.bus.Read(oamAddr)) - 16
		if y > g.line || y+height <= g.line {
			continue
		}

		flags := g.bus.Read(oamAddr + 3)
		paletteAddr := addr.OBP0
		if bit.IsSet(4, flags) {
			paletteAddr = addr.OBP1
		}

		selected = append(selected, spriteAttrs{
			oamIndex:    i,
			y:           y,
			x:           int(g.bus.Read(oamAddr+1)) - 8,
			tile:        g.bus.Read(oamAddr + 2),
			paletteAddr: paletteAddr,
			flipX:       bit.IsSet(5, flags),
			flipY:       bit.IsSet(6, flags),
			aboveBG:     !bit.IsSet(7, flags),
		})

		if len(selected) == 10 {
			break
		}
	}
	return selected
}

func (g *GPU) drawSprites() {
	if !g.lcdcBit(spriteEnableBit) {
		return
	}

	height := 8
	if g.lcdcBit(spriteSizeBit) {
		height = 16
	}

	sprites := g.selectSprites(height)

	g.sprites.reset()
	for _, s := range sprites {
		for px := 0; px < 8; px++ {
			g.sprites.claim(s.x+px, s.oamIndex, s.x)
		}
	}

	for _, s := range sprites {
		rowInSprite := g.line - s.y
		if s.flipY {
			rowInSprite = height - 1 - rowInSprite
		}

		tile := s.tile
		if height == 16 {
			tile &^= 0x01
		}
		rowOffset := uint16(rowInSprite) * 2
		if height == 16 && rowInSprite >= 8 {
			tile |= 0x01
			rowOffset = uint16(rowInSprite-8) * 2
		}

		tileAddr := addr.TileData0 + uint16(tile)*16 + rowOffset
		low := g.bus.Read(tileAddr)
		high := g.bus.Read(tileAddr + 1)
		row := decodeTileRow(low, high)

		for px := 0; px < 8; px++ {
			screenX := s.x + px
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}
			if g.sprites.owner(screenX) != s.oamIndex {
				continue
			}

			colIndex := px
			if s.flipX {
				colIndex = 7 - px
			}
			colorID := row[colIndex]
			if colorID == 0 {
				continue // transparent
			}
			if !s.aboveBG && g.bgColorLine[screenX] != 0 {
				continue
			}

			g.frame.set(screenX, g.line, g.paletteColor(s.paletteAddr, colorID))
		}
	}
}

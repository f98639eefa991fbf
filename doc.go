// Package st7920 controls a ST7920 dot-matrix LCD controller via SPI.
//
// The ST7920 is a monochrome LCD controller used by the common 128×64
// "LCD12864" modules. It exposes a text mode backed by its built-in
// character generator and a graphics mode backed by 1-bit GDRAM.
// This driver implements both, plus word-level differential updates when
// presenting a framebuffer.
//
// # Display Characteristics
//
// - Pure 1-bit monochrome (no grayscale)
// - 128×64 pixels in graphics mode (other geometries up to 256×64 supported)
// - 4 rows × 16 columns of characters in text mode
// - Synchronous serial interface: every byte travels as a 3-byte frame
// - Split graphics memory: 32 vertical addresses × 2 horizontal banks
//
// # Hardware Connection
//
// Connect the ST7920 module in serial mode (PSB tied low) to your system
// via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 5V
//	PSB         → GND (selects serial interface)
//	E/SCLK      → SPI Clock (SCLK)
//	R/W (SID)   → SPI Data (MOSI)
//	RS (CS)     → GPIO (chip select, active-high)
//	RST         → Optional: GPIO for hardware reset (active-low)
//
// # Basic Usage
//
// Example of creating and using the display:
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//
//		"github.com/lcd12864/st7920"
//		"github.com/lcd12864/st7920/gfx"
//		"github.com/lcd12864/st7920/image1bit"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open SPI bus
//		spiBus, _ := spireg.Open("")
//
//		// Get chip-select and reset GPIO pins
//		csPin := gpioreg.ByName("GPIO13")
//		rstPin := gpioreg.ByName("GPIO26")
//
//		// Create device; this resets and initializes the controller
//		dev, _ := st7920.NewSPI(spiBus, csPin, rstPin, nil)
//		defer dev.Halt()
//
//		// Draw into a 1-bit framebuffer
//		fb := image1bit.NewHorizontalMSB(dev.Bounds())
//		gfx.Circle(fb, 64, 32, 20, image1bit.On, image1bit.Set)
//		gfx.FillRect(fb, 0, 0, 10, 10, image1bit.On, image1bit.Set)
//
//		// Transmit the framebuffer
//		dev.Present(fb)
//	}
//
// # Text Mode Fast Path
//
// When full bitmap rendering is unnecessary, the controller's character
// generator is much cheaper than transmitting GDRAM:
//
//	dev.WriteText(0, 0, "Hello world!")
//	dev.WriteText(1, 0, "Line 2")
//
// WriteText drops out of graphics mode automatically; the next Present
// switches back.
//
// # Serial Framing
//
// Every transmitted byte is wrapped in the controller's 3-byte serial
// frame: a sync byte 0xF8|RW<<2|RS<<1 followed by the payload's high and
// low nibbles, each left-aligned in its own byte. Encoding command 0x30
// yields [0xF8 0x30 0x00]; encoding data 0xAB yields [0xFA 0xA0 0xB0].
// The driver produces this framing bit-exactly; the display ignores
// malformed frames silently, which makes framing bugs look like a dead
// panel.
//
// # Graphics Memory Addressing
//
// GDRAM exposes only 32 vertical addresses. A 64-row panel is addressed as
// two horizontal banks: rows 0-31 live at horizontal words 0-7, rows 32-63
// at words 8-15 of vertical addresses 0-31. Present handles this mapping;
// pixel (0, 40) for example lands at vertical address 8 in the bottom
// bank.
//
// # Differential Updates
//
// Present keeps a copy of the previously transmitted frame and only
// retransmits 16-bit words that changed, re-addressing once per changed
// run and letting the controller auto-increment through it. A typical
// clock-style update touches a handful of words instead of the full 1KiB
// frame.
//
// # Error Handling
//
// Any transport failure leaves the physical display state unknown, so the
// driver enters an error state and every operation returns ErrNeedReset
// until Reset is called. Reset replays the full initialization sequence
// and invalidates the differential-update baseline.
//
// # Concurrency
//
// Dev is not safe for concurrent use. A framebuffer is owned by whichever
// frame producer is drawing into it, and the device by whichever task
// holds the transport; serialize access externally if needed.
//
// # Datasheet
//
// For instruction set details and timing, see:
// https://www.waveshare.com/datasheet/LCD_en_PDF/ST7920.pdf
package st7920

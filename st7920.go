// Package st7920 controls a ST7920 dot-matrix LCD controller via SPI.
//
// The ST7920 drives monochrome 128x64 graphic LCD modules (commonly sold as
// LCD12864) and exposes a text mode backed by its character generator and a
// graphics mode backed by GDRAM.
//
// See the examples for how to use this package.
package st7920

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/spi"

	"github.com/lcd12864/st7920/image1bit"
)

// ST7920 instruction bytes (basic and extended instruction sets).
const (
	cmdClear          = 0x01 // Basic: clear DDRAM, home cursor
	cmdEntryMode      = 0x06 // Basic: entry mode, address increment
	cmdDisplayOff     = 0x08 // Basic: display off
	cmdDisplayOn      = 0x0C // Basic: display on, cursor and blink off
	cmdFunctionBasic  = 0x30 // 8-bit interface, basic instruction set
	cmdFunctionExt    = 0x34 // 8-bit interface, extended instruction set
	cmdFunctionGfx    = 0x36 // Extended set with graphics display enabled
	cmdSetAddress     = 0x80 // OR'd with a DDRAM or GDRAM address
	syncWrite         = 0xF8 // Serial sync byte: 11111 RW=0 RS=0 0
	syncDataBit       = 0x02 // RS bit within the sync byte
	gdramBottomOffset = 8    // Horizontal word offset selecting the bottom bank
	gdramBankRows     = 32   // Rows per vertical address bank
)

const (
	// resetPulse is the duration the reset line is held low, and the
	// settle time after releasing it. The datasheet minimum is 10us; 10ms
	// gives the internal reset circuit comfortable margin.
	resetPulse = 10 * time.Millisecond
	// clearSettle is the busy time of the DDRAM clear instruction.
	clearSettle = 10 * time.Millisecond
	// frameSettle is the pause after each 3-byte serial frame. The ST7920
	// has no MISO line to poll busy on, so pacing is done by waiting out
	// the worst-case instruction time.
	frameSettle = 100 * time.Microsecond
)

// ddramRowBase maps a text row to its DDRAM base address. The ST7920
// interleaves rows 0/2 and 1/3 in address space.
var ddramRowBase = [4]byte{0x00, 0x10, 0x08, 0x18}

// Mode is the driver's view of the controller state.
type Mode uint8

const (
	// ModeUninitialized is the state before the first Reset completes.
	ModeUninitialized Mode = iota
	// ModeText selects the basic instruction set and the character
	// generator. This is the state after Reset.
	ModeText
	// ModeGraphics selects the extended instruction set with graphics
	// display enabled; GDRAM is only accessible here.
	ModeGraphics
	// ModeError is entered after any transport failure. Only Reset
	// leaves it.
	ModeError
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "Uninitialized"
	case ModeText:
		return "Text"
	case ModeGraphics:
		return "Graphics"
	case ModeError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrNeedReset is returned by every operation after a transport failure
// until Reset has been called. The display's state is unknown at that
// point, so the failure cannot be absorbed silently.
var ErrNeedReset = errors.New("st7920: transport failed, reset required")

var errHalted = errors.New("st7920: halted")

// Opts is the configuration for the ST7920 display.
type Opts struct {
	// Display dimensions in pixels.
	W int // Width (default: 128, must be a multiple of 16 and <=256)
	H int // Height (default: 64, must be <=64)
}

// Dev is the device handle for the ST7920 display.
type Dev struct {
	t    Transport
	rect image.Rectangle

	mode   Mode
	halted bool

	// last is the previously presented frame, used for word-level
	// differential updates. nil means the GDRAM contents are unknown and
	// the next Present transmits everything.
	last *image1bit.HorizontalMSB

	// Last GDRAM address the controller is known to hold, to skip
	// redundant address-set commands. The horizontal address
	// auto-increments after each 16-bit word write.
	addrValid bool
	addrVert  int
	addrHoriz int
}

// New creates a ST7920 device over the given transport and runs the full
// reset and initialization sequence, leaving the controller in text mode.
func New(t Transport, opts *Opts) (*Dev, error) {
	if t == nil {
		return nil, errors.New("st7920: transport is required")
	}
	if opts == nil {
		opts = &Opts{W: 128, H: 64}
	}
	if opts.W <= 0 || opts.W%16 != 0 || opts.W > 256 {
		return nil, errors.New("st7920: width must be a multiple of 16 and between 16 and 256")
	}
	if opts.H <= 0 || opts.H > 64 {
		return nil, errors.New("st7920: height must be between 1 and 64")
	}

	d := &Dev{
		t:    t,
		rect: image.Rect(0, 0, opts.W, opts.H),
	}
	if err := d.Reset(); err != nil {
		return nil, err
	}
	return d, nil
}

// NewSPI creates a ST7920 device connected via SPI.
//
// cs is the chip-select GPIO (active-high on the ST7920); rst is the
// active-low reset GPIO and may be nil. opts can be nil to use defaults
// (128x64 display).
func NewSPI(p spi.Port, cs gpio.PinOut, rst gpio.PinIO, opts *Opts) (*Dev, error) {
	t, err := SPITransport(p, cs, rst)
	if err != nil {
		return nil, err
	}
	return New(t, opts)
}

// frame encodes one byte into the controller's 3-byte serial frame: a sync
// byte carrying the RW and RS bits, then the payload's high nibble and low
// nibble, each in the upper 4 bits of its own byte.
func frame(b byte, data bool) [3]byte {
	sync := byte(syncWrite)
	if data {
		sync |= syncDataBit
	}
	return [3]byte{sync, b & 0xF0, (b << 4) & 0xF0}
}

// gdramAddress translates a framebuffer row and 16-bit word column into the
// controller's vertical and horizontal GDRAM addresses. GDRAM has only 32
// vertical addresses; the bottom half of a 64-row panel is reached through
// a horizontal offset into the second bank.
func gdramAddress(y, word int) (vert, horiz byte) {
	if y >= gdramBankRows {
		y -= gdramBankRows
		word += gdramBottomOffset
	}
	return byte(y), byte(word)
}

// send transmits one framed byte. Any transport failure aborts the current
// logical operation, invalidates the differential-update baseline and moves
// the driver to ModeError.
func (d *Dev) send(b byte, data bool) error {
	f := frame(b, data)
	if err := d.t.Select(); err != nil {
		return d.fail("select", err)
	}
	werr := d.t.Write(f[:])
	derr := d.t.Deselect()
	if werr != nil {
		return d.fail("write", werr)
	}
	if derr != nil {
		return d.fail("deselect", derr)
	}
	time.Sleep(frameSettle)
	return nil
}

// fail records a transport failure. The display state is unknown from here
// on, so the diff baseline and address tracking are dropped.
func (d *Dev) fail(op string, err error) error {
	d.mode = ModeError
	d.addrValid = false
	d.last = nil
	return fmt.Errorf("st7920: transport %s failed: %w", op, err)
}

func (d *Dev) sendCmd(b byte) error {
	d.addrValid = false
	return d.send(b, false)
}

func (d *Dev) sendData(b byte) error {
	return d.send(b, true)
}

// guard rejects operations on a halted device or one that needs a reset.
func (d *Dev) guard() error {
	if d.halted {
		return errHalted
	}
	if d.mode == ModeError {
		return ErrNeedReset
	}
	return nil
}

// Mode returns the driver's current controller mode.
func (d *Dev) Mode() Mode {
	return d.mode
}

// Bounds returns the display bounds.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7920.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// Reset pulses the hardware reset line and re-runs the initialization
// sequence: basic function set, display on, clear, entry mode. It is the
// only way out of ModeError. The controller is left in text mode with
// both DDRAM and driver state cleared.
func (d *Dev) Reset() error {
	if d.halted {
		return errHalted
	}
	d.mode = ModeUninitialized
	d.last = nil
	d.addrValid = false

	if err := d.t.PulseReset(resetPulse); err != nil {
		return d.fail("reset", err)
	}
	for _, c := range []byte{cmdFunctionBasic, cmdDisplayOn, cmdClear} {
		if err := d.sendCmd(c); err != nil {
			return err
		}
	}
	time.Sleep(clearSettle)
	if err := d.sendCmd(cmdEntryMode); err != nil {
		return err
	}
	d.mode = ModeText
	return nil
}

// EnterGraphicsMode switches the controller to the extended instruction set
// with graphics display enabled. The graphics bit can only be set after the
// extended set is selected, so this is a two-command transition.
func (d *Dev) EnterGraphicsMode() error {
	if err := d.guard(); err != nil {
		return err
	}
	if d.mode == ModeGraphics {
		return nil
	}
	if err := d.sendCmd(cmdFunctionExt); err != nil {
		return err
	}
	if err := d.sendCmd(cmdFunctionGfx); err != nil {
		return err
	}
	d.mode = ModeGraphics
	return nil
}

// ExitGraphicsMode returns the controller to the basic instruction set and
// text mode. GDRAM contents are preserved but no longer displayed.
func (d *Dev) ExitGraphicsMode() error {
	if err := d.guard(); err != nil {
		return err
	}
	if d.mode == ModeText {
		return nil
	}
	if err := d.sendCmd(cmdFunctionBasic); err != nil {
		return err
	}
	d.mode = ModeText
	return nil
}

// ClearText clears the character display. The clear instruction only
// exists in the basic set, so the driver drops out of graphics mode first
// if needed.
func (d *Dev) ClearText() error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.ExitGraphicsMode(); err != nil {
		return err
	}
	if err := d.sendCmd(cmdClear); err != nil {
		return err
	}
	time.Sleep(clearSettle)
	return nil
}

// WriteText writes an ASCII string through the controller's character
// generator, bypassing the framebuffer entirely. row is 0-3 and col is
// 0-15 in character cells; col must be even because each DDRAM address
// holds two characters. The driver drops out of graphics mode if needed.
func (d *Dev) WriteText(row, col int, s string) error {
	if err := d.guard(); err != nil {
		return err
	}
	if row < 0 || row >= len(ddramRowBase) {
		return fmt.Errorf("st7920: text row %d out of range 0-3", row)
	}
	if col < 0 || col > 15 {
		return fmt.Errorf("st7920: text column %d out of range 0-15", col)
	}
	if col%2 != 0 {
		return fmt.Errorf("st7920: text column %d must be even, DDRAM cells hold two characters", col)
	}
	if err := d.ExitGraphicsMode(); err != nil {
		return err
	}
	if err := d.sendCmd(cmdSetAddress | (ddramRowBase[row] + byte(col/2))); err != nil {
		return err
	}
	for i := 0; i < len(s); i++ {
		if err := d.sendData(s[i]); err != nil {
			return err
		}
	}
	return nil
}

// Present transmits the framebuffer's contents to GDRAM, entering graphics
// mode first if needed. Only 16-bit words that changed since the previous
// Present are retransmitted; a changed run within a row is written with a
// single address set followed by sequential word writes, relying on the
// controller's horizontal auto-increment. The framebuffer is only read.
func (d *Dev) Present(fb *image1bit.HorizontalMSB) error {
	if err := d.guard(); err != nil {
		return err
	}
	if fb == nil {
		return errors.New("st7920: framebuffer is nil")
	}
	if fb.Bounds().Dx() != d.rect.Dx() || fb.Bounds().Dy() != d.rect.Dy() {
		return fmt.Errorf("st7920: framebuffer is %dx%d, display is %dx%d",
			fb.Bounds().Dx(), fb.Bounds().Dy(), d.rect.Dx(), d.rect.Dy())
	}
	if err := d.EnterGraphicsMode(); err != nil {
		return err
	}

	fbMin := fb.Bounds().Min
	for y := 0; y < d.rect.Dy(); y++ {
		words := fb.Words(fbMin.Y + y)
		first, last := 0, len(words)-1
		if d.last != nil {
			old := d.last.Words(y)
			first, last = diffRange(old, words)
			if first > last {
				continue
			}
		}
		if err := d.writeRun(y, first, words[first:last+1]); err != nil {
			return err
		}
	}

	if d.last == nil {
		d.last = image1bit.NewHorizontalMSB(image.Rect(0, 0, d.rect.Dx(), d.rect.Dy()))
	}
	for y := 0; y < d.rect.Dy(); y++ {
		copy(d.last.Row(y), fb.Row(fbMin.Y+y))
	}
	return nil
}

// ClearGraphics zeroes the full GDRAM and resets the differential-update
// baseline, entering graphics mode first if needed.
func (d *Dev) ClearGraphics() error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.EnterGraphicsMode(); err != nil {
		return err
	}
	zero := make([]uint16, d.rect.Dx()/16)
	for y := 0; y < d.rect.Dy(); y++ {
		if err := d.writeRun(y, 0, zero); err != nil {
			return err
		}
	}
	d.last = image1bit.NewHorizontalMSB(image.Rect(0, 0, d.rect.Dx(), d.rect.Dy()))
	return nil
}

// Halt turns the display off. After calling Halt, the device rejects
// further operations.
func (d *Dev) Halt() error {
	if err := d.guard(); err != nil {
		return err
	}
	if err := d.ExitGraphicsMode(); err != nil {
		return err
	}
	if err := d.sendCmd(cmdDisplayOff); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// setGdramAddress issues the vertical then horizontal address-set commands
// for row y at word column. Redundant with the tracked controller address,
// it is skipped.
func (d *Dev) setGdramAddress(y, word int) error {
	vert, horiz := gdramAddress(y, word)
	if d.addrValid && d.addrVert == int(vert) && d.addrHoriz == int(horiz) {
		return nil
	}
	if err := d.sendCmd(cmdSetAddress | vert); err != nil {
		return err
	}
	if err := d.sendCmd(cmdSetAddress | horiz); err != nil {
		return err
	}
	// sendCmd clears tracking; record the address the controller now holds.
	d.addrValid = true
	d.addrVert = int(vert)
	d.addrHoriz = int(horiz)
	return nil
}

// writeRun writes consecutive 16-bit words of row y starting at word
// column first. The controller auto-increments the horizontal address
// after every word.
func (d *Dev) writeRun(y, first int, words []uint16) error {
	if err := d.setGdramAddress(y, first); err != nil {
		return err
	}
	for _, w := range words {
		if err := d.sendData(byte(w >> 8)); err != nil {
			return err
		}
		if err := d.sendData(byte(w)); err != nil {
			return err
		}
		d.addrHoriz++
	}
	return nil
}

// diffRange returns the first and last indices at which old and cur
// differ. first > last means the slices are equal.
func diffRange(old, cur []uint16) (first, last int) {
	first, last = 0, len(cur)-1
	for first <= last && old[first] == cur[first] {
		first++
	}
	for last >= first && old[last] == cur[last] {
		last--
	}
	return first, last
}

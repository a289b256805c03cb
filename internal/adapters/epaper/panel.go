// Package epaper drives the Waveshare 7.5" V2 black/white panel over
// SPI and GPIO. The command sequences follow the vendor reference
// driver; the panel is always powered down and deep-slept after a
// transfer so it is never left in an active-drive state.
package epaper

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Panel dimensions.
const (
	PanelWidth  = 800
	PanelHeight = 480
)

// Default Raspberry Pi HAT wiring (BCM numbering). CS is handled by the
// SPI bus itself.
const (
	pinReset = "17"
	pinDC    = "25"
	pinBusy  = "24"
)

const (
	spiSpeed     = 4 * physic.MegaHertz
	spiChunkSize = 4096
	busyTimeout  = 30 * time.Second
)

// Panel command set (subset of the UC8179 controller).
const (
	cmdPanelSetting      = 0x00
	cmdPowerSetting      = 0x01
	cmdPowerOff          = 0x02
	cmdPowerOn           = 0x04
	cmdDeepSleep         = 0x07
	cmdDisplayRefresh    = 0x12
	cmdDataTransmission2 = 0x13
	cmdDualSPI           = 0x15
	cmdVCOMDataInterval  = 0x50
	cmdTCONSetting       = 0x60
	cmdResolution        = 0x61
)

// Panel is an open connection to the display hardware.
type Panel struct {
	port  spi.PortCloser
	conn  spi.Conn
	dc    gpio.PinIO
	reset gpio.PinIO
	busy  gpio.PinIO
}

// Open claims the SPI port and control pins. It does not wake the panel;
// call Init before drawing.
func Open() (*Panel, error) {
	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open SPI port: %w", err)
	}
	conn, err := port.Connect(spiSpeed, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("connect SPI: %w", err)
	}

	p := &Panel{port: port, conn: conn}
	if p.dc = gpioreg.ByName(pinDC); p.dc == nil {
		port.Close()
		return nil, fmt.Errorf("GPIO pin %s not found", pinDC)
	}
	if p.reset = gpioreg.ByName(pinReset); p.reset == nil {
		port.Close()
		return nil, fmt.Errorf("GPIO pin %s not found", pinReset)
	}
	if p.busy = gpioreg.ByName(pinBusy); p.busy == nil {
		port.Close()
		return nil, fmt.Errorf("GPIO pin %s not found", pinBusy)
	}
	if err := p.busy.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
		port.Close()
		return nil, fmt.Errorf("configure busy pin: %w", err)
	}
	return p, nil
}

// Init wakes the panel and programs power, resolution and timing.
func (p *Panel) Init() error {
	if err := p.hwReset(); err != nil {
		return err
	}

	steps := []struct {
		cmd  byte
		data []byte
	}{
		{cmdPowerSetting, []byte{0x07, 0x07, 0x3F, 0x3F}},
		{cmdPowerOn, nil},
	}
	for _, s := range steps {
		if err := p.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	if err := p.waitIdle(); err != nil {
		return err
	}

	steps = []struct {
		cmd  byte
		data []byte
	}{
		{cmdPanelSetting, []byte{0x1F}},                 // KW mode, LUT from OTP
		{cmdResolution, []byte{0x03, 0x20, 0x01, 0xE0}}, // 800x480
		{cmdDualSPI, []byte{0x00}},
		{cmdVCOMDataInterval, []byte{0x10, 0x07}},
		{cmdTCONSetting, []byte{0x22}},
	}
	for _, s := range steps {
		if err := p.command(s.cmd, s.data...); err != nil {
			return err
		}
	}
	return nil
}

// Draw transmits a packed 1-bit frame (MSB first, set bit = white) and
// triggers a full refresh. The buffer must hold exactly one panel frame.
func (p *Panel) Draw(packed []byte) error {
	want := PanelWidth * PanelHeight / 8
	if len(packed) != want {
		return fmt.Errorf("frame buffer is %d bytes, panel wants %d", len(packed), want)
	}

	// The controller's data polarity is inverted relative to the
	// packed raster: a set wire bit drives the pixel black.
	inverted := make([]byte, len(packed))
	for i, b := range packed {
		inverted[i] = ^b
	}

	if err := p.command(cmdDataTransmission2, inverted...); err != nil {
		return err
	}
	if err := p.command(cmdDisplayRefresh); err != nil {
		return err
	}
	time.Sleep(100 * time.Millisecond)
	return p.waitIdle()
}

// Sleep powers the panel off and enters deep sleep. E-paper keeps its
// image without power; leaving the drive voltages on damages the panel.
func (p *Panel) Sleep() error {
	if err := p.command(cmdPowerOff); err != nil {
		return err
	}
	if err := p.waitIdle(); err != nil {
		return err
	}
	return p.command(cmdDeepSleep, 0xA5)
}

// Close releases the SPI port.
func (p *Panel) Close() error {
	return p.port.Close()
}

func (p *Panel) hwReset() error {
	for _, step := range []struct {
		level gpio.Level
		wait  time.Duration
	}{
		{gpio.High, 20 * time.Millisecond},
		{gpio.Low, 2 * time.Millisecond},
		{gpio.High, 20 * time.Millisecond},
	} {
		if err := p.reset.Out(step.level); err != nil {
			return fmt.Errorf("reset pin: %w", err)
		}
		time.Sleep(step.wait)
	}
	return nil
}

// command sends one command byte followed by its data bytes, chunked to
// the SPI driver's transfer limit.
func (p *Panel) command(cmd byte, data ...byte) error {
	if err := p.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("dc pin: %w", err)
	}
	if err := p.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("send command %#02x: %w", cmd, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := p.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("dc pin: %w", err)
	}
	for off := 0; off < len(data); off += spiChunkSize {
		end := off + spiChunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := p.conn.Tx(data[off:end], nil); err != nil {
			return fmt.Errorf("send data for %#02x: %w", cmd, err)
		}
	}
	return nil
}

// waitIdle blocks until the busy pin releases (it is held low while the
// controller works).
func (p *Panel) waitIdle() error {
	deadline := time.Now().Add(busyTimeout)
	for p.busy.Read() == gpio.Low {
		if time.Now().After(deadline) {
			return errors.New("panel busy timeout")
		}
		time.Sleep(10 * time.Millisecond)
	}
	return nil
}

// Command clockface renders a clock, the date and the current outside
// temperature on a ST7920-driven 128×64 LCD module.
//
// The screen is split in two halves: a large HH:MM readout with AM/PM and
// seconds in the top half, and a bordered date/temperature row with filled
// corner accents in the bottom half. The frame is redrawn whenever the
// second changes; the temperature is refreshed on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/lcd12864/st7920"
	"github.com/lcd12864/st7920/gfx"
	"github.com/lcd12864/st7920/image1bit"
	"github.com/lcd12864/st7920/internal/config"
	appLog "github.com/lcd12864/st7920/internal/log"
	"github.com/lcd12864/st7920/internal/weather"
)

type flagConfig struct {
	configPath string
	once       bool
	debug      bool
}

// faces bundles the rendered font sizes the layout uses.
type faces struct {
	big     *gfx.FaceSource // 36pt bold, HH:MM
	medium  *gfx.FaceSource // 14pt, AM/PM and seconds
	date    *gfx.FaceSource // 18pt, date row
	small   *gfx.FaceSource // 10pt, °C label
	closers []font.Face
}

// temperature is the latest observation shared between the cron refresh
// and the render loop.
type temperature struct {
	mu    sync.Mutex
	value string // formatted integer Celsius, or "--" when unknown
}

func (t *temperature) get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

func (t *temperature) set(v string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.value = v
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	appLog.Info("clockface starting", "config_path", flags.configPath)

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := run(ctx, conf, flags); err != nil {
		appLog.Error("clockface failed", err)
		os.Exit(1)
	}
	appLog.Info("clockface exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig
	flag.StringVar(&cfg.configPath, "config", "./clockface.yaml", "Path to config file")
	flag.BoolVar(&cfg.once, "once", false, "Render a single frame and exit")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, conf *config.Config, flags flagConfig) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("initializing periph host: %w", err)
	}

	bus, err := spireg.Open(conf.Display.SPI)
	if err != nil {
		return fmt.Errorf("opening SPI bus %q: %w", conf.Display.SPI, err)
	}
	defer bus.Close()

	cs := gpioreg.ByName(conf.Display.CSPin)
	if cs == nil {
		return fmt.Errorf("chip-select pin %q not found", conf.Display.CSPin)
	}
	var rst gpio.PinIO
	if conf.Display.ResetPin != "" {
		if rst = gpioreg.ByName(conf.Display.ResetPin); rst == nil {
			return fmt.Errorf("reset pin %q not found", conf.Display.ResetPin)
		}
	}

	dev, err := st7920.NewSPI(bus, cs, rst, nil)
	if err != nil {
		return err
	}
	defer dev.Halt()
	appLog.Info("display initialized", "dev", dev.String())

	f, err := loadFaces(conf.Fonts)
	if err != nil {
		return err
	}
	defer f.close()

	temp := &temperature{value: "--"}
	wc := weather.NewClient(conf.Weather.APIKey, conf.Weather.Latitude, conf.Weather.Longitude)
	refreshWeather(ctx, wc, temp)

	sched := cron.New()
	if _, err := sched.AddFunc(conf.Weather.RefreshCron, func() {
		refreshWeather(ctx, wc, temp)
	}); err != nil {
		return fmt.Errorf("invalid weather refresh schedule %q: %w", conf.Weather.RefreshCron, err)
	}
	sched.Start()
	defer sched.Stop()

	if err := dev.ClearGraphics(); err != nil {
		return err
	}

	fb := image1bit.NewHorizontalMSB(dev.Bounds())
	lastSecond := -1

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		now := time.Now()
		if now.Second() == lastSecond {
			continue
		}
		lastSecond = now.Second()

		drawFrame(fb, f, now, temp.get())
		if err := dev.Present(fb); err != nil {
			appLog.Error("present failed, resetting display", err)
			if rerr := dev.Reset(); rerr != nil {
				return rerr
			}
			continue
		}

		if flags.once {
			return nil
		}
	}
}

// Layout constants, in pixels. The display is 128×64; the bottom half is
// the bordered date row.
const (
	timeY     = -8 // 36pt digits overshoot upward; clip the headroom
	sideX     = 110
	amPmY     = -1
	secondsY  = 15
	dateX     = 4
	dateY     = 37
	celsiusX  = 112
	celsiusY  = 41
	borderTop = 32
	accent    = 5
)

// drawFrame composes one full screen into fb.
func drawFrame(fb *image1bit.HorizontalMSB, f *faces, now time.Time, temp string) {
	fb.Clear(image1bit.Off)

	gfx.DrawString(fb, image.Point{X: 0, Y: timeY}, f.big, now.Format("03:04"), 0, image1bit.Set)
	gfx.DrawString(fb, image.Point{X: sideX, Y: amPmY}, f.medium, now.Format("PM"), 0, image1bit.Set)
	gfx.DrawString(fb, image.Point{X: sideX, Y: secondsY}, f.medium, now.Format("05"), 0, image1bit.Set)

	date := now.Format("02 Mon") + "//" + temp
	gfx.DrawString(fb, image.Point{X: dateX, Y: dateY}, f.date, date, 0, image1bit.Set)
	gfx.DrawString(fb, image.Point{X: celsiusX, Y: celsiusY}, f.small, "°C", 0, image1bit.Set)

	gfx.Rect(fb, 0, borderTop, 127, 63, image1bit.On, image1bit.Set)
	gfx.FillTriangle(fb, 0, borderTop, accent, borderTop, 0, borderTop+accent, image1bit.On, image1bit.Set)
	gfx.FillTriangle(fb, 127, borderTop, 127-accent, borderTop, 127, borderTop+accent, image1bit.On, image1bit.Set)
	gfx.FillTriangle(fb, 0, 63, accent, 63, 0, 63-accent, image1bit.On, image1bit.Set)
	gfx.FillTriangle(fb, 127, 63, 127-accent, 63, 127, 63-accent, image1bit.On, image1bit.Set)
}

func refreshWeather(ctx context.Context, wc *weather.Client, temp *temperature) {
	fetchCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	obs, err := wc.Current(fetchCtx)
	if err != nil {
		appLog.Error("weather fetch failed", err)
		return
	}
	temp.set(strconv.Itoa(int(obs.Temperature)))
	appLog.Info("weather updated",
		"temp_c", obs.Temperature,
		"conditions", obs.Description,
	)
}

// loadFaces parses the configured fonts and renders the sizes the layout
// needs.
func loadFaces(fonts config.FontConfig) (*faces, error) {
	bold, err := parseFont(fonts.Bold)
	if err != nil {
		return nil, err
	}
	regular, err := parseFont(fonts.Regular)
	if err != nil {
		return nil, err
	}

	f := &faces{}
	sizes := []struct {
		fnt  *opentype.Font
		size float64
		dst  **gfx.FaceSource
	}{
		{bold, 36, &f.big},
		{regular, 14, &f.medium},
		{regular, 18, &f.date},
		{regular, 10, &f.small},
	}
	for _, s := range sizes {
		face, err := opentype.NewFace(s.fnt, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			f.close()
			return nil, fmt.Errorf("creating %gpt face: %w", s.size, err)
		}
		*s.dst = &gfx.FaceSource{Face: face}
		f.closers = append(f.closers, face)
	}
	return f, nil
}

func parseFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font %q: %w", path, err)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %q: %w", path, err)
	}
	return fnt, nil
}

func (f *faces) close() {
	for _, face := range f.closers {
		face.Close()
	}
}

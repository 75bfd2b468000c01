//go:build cgo

package hal

import (
	"image"
	"log/slog"

	"scratchcalc/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Width  int
	Height int
	// Scale is framebuffer pixels per display pixel. Zero uses the monitor's
	// device scale factor.
	Scale float64
	// Zoom multiplies the window size on screen.
	Zoom int
	Log  *slog.Logger
}

// RunWindow starts a desktop window that displays the framebuffer and forwards
// keyboard, mouse and touch input. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	scale := cfg.Scale
	if scale <= 0 {
		scale = 1
		if m := ebiten.Monitor(); m != nil {
			if f := m.DeviceScaleFactor(); f > 0 {
				scale = f
			}
		}
	}
	zoom := cfg.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	h := NewHost(HostConfig{Width: cfg.Width, Height: cfg.Height, Scale: scale, Log: cfg.Log})
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("Scratch & Calculate (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(cfg.Width*zoom, cfg.Height*zoom)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *Host
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	frame   uint64
	step    func() error
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.h.ptr.poll(g.h.scale)
	g.h.t.frame()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
		g.frame = 0
	}

	if frame := fb.snapshotRGB565(g.scratch); frame != g.frame {
		g.frame = frame
		src := g.scratch
		dst := g.img.Pix
		for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
			r, gg, b := RGB888(uint16(src[i]) | uint16(src[i+1])<<8)
			j := (i / 2) * 4
			dst[j+0] = r
			dst[j+1] = gg
			dst[j+2] = b
			dst[j+3] = 0xFF
		}
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}

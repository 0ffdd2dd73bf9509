package scribble

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// Screenshot queues a labeled capture of the next drawn frame.
func (g *Game) Screenshot(label string) {
	g.screenshotQueue = append(g.screenshotQueue, label)
}

// flushScreenshots writes the drawn frame once per queued label and reports
// each file through the session's notices.
func (g *Game) flushScreenshots(screen *ebiten.Image) {
	if len(g.screenshotQueue) == 0 {
		return
	}
	labels := g.screenshotQueue
	g.screenshotQueue = nil

	frame := capture(screen)
	s := g.session
	for _, label := range labels {
		g.shots++
		path := filepath.Join(g.screenshotDir, screenshotName(s.LastID(), g.shots, label))
		if err := savePNG(path, frame); err != nil {
			s.config.Logger.Error("screenshot failed", "label", label, "err", err)
			s.notify(Notice{Kind: NoticeScreenshotFailed, Message: msgScreenshotFailed, Err: err})
			continue
		}
		s.config.Logger.Info("screenshot written", "path", path, "lines", len(s.sketch.Lines))
		s.notify(Notice{Kind: NoticeScreenshot, Message: msgScreenshot, ID: s.LastID(), Path: path})
	}
}

// screenshotName names a capture after the sketch it shows: the saved ID,
// or "draft" before the first save, then the capture number and label.
func screenshotName(sketchID string, seq int, label string) string {
	if sketchID == "" {
		sketchID = "draft"
	}
	return fmt.Sprintf("%s-%03d-%s.png", labelSlug(sketchID), seq, labelSlug(label))
}

func capture(screen *ebiten.Image) *image.NRGBA {
	b := screen.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	screen.ReadPixels(pixels)
	return unpremultiply(pixels, b.Dx(), b.Dy())
}

// unpremultiply turns ebiten's premultiplied RGBA bytes into straight-alpha
// NRGBA, which is what PNG stores.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := min(len(pixels), len(img.Pix))
	for i := 0; i+3 < n; i += 4 {
		px, a := pixels[i:i+4], pixels[i+3]
		for c := 0; c < 3; c++ {
			v := px[c]
			if a > 0 && a < 255 {
				v = uint8(min(int(v)*255/int(a), 255))
			}
			img.Pix[i+c] = v
		}
		img.Pix[i+3] = a
	}
	return img
}

func savePNG(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// labelSlug keeps ASCII letters, digits, '-' and '.' and turns everything
// else into '_'. Blank labels become "unlabeled".
func labelSlug(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		}
		return '_'
	}, label)
}

// Package window shows a session in a desktop window with ebiten.
package window

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/image/colornames"

	"sradmap/internal/logging"
	"sradmap/internal/session"
	"sradmap/internal/view"
)

var _ ebiten.Game = &Viewer{}

var background = colornames.White

// Viewer draws the session surface through its zoom and pan and feeds mouse
// input back into it.
type Viewer struct {
	sess   *session.Session
	log    logging.Logger
	width  int
	height int

	texture  *ebiten.Image
	revision uint64

	status string
	hover  string
}

// NewViewer shows s, which must already be built for width x height.
func NewViewer(s *session.Session, width, height int, log logging.Logger) *Viewer {
	if log == nil {
		log = logging.Nop()
	}
	return &Viewer{
		sess:   s,
		log:    log.Named("window"),
		width:  width,
		height: height,
		status: "click a hexagon",
	}
}

// frame is the pointer input of one tick in viewer pixels.
type frame struct {
	x, y     float64
	pressed  bool
	released bool
	held     bool
	// wheel is ebiten's vertical offset, positive away from the user.
	wheel float64
}

func readFrame() frame {
	cx, cy := ebiten.CursorPosition()
	_, wy := ebiten.Wheel()
	return frame{
		x:        float64(cx),
		y:        float64(cy),
		pressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		released: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		held:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		wheel:    wy,
	}
}

// apply feeds one frame to the session.
func (v *Viewer) apply(f frame) error {
	if f.wheel != 0 {
		v.sess.Wheel(-f.wheel, f.x, f.y)
	}
	if f.pressed {
		if _, err := v.sess.Pointer(view.Down, f.x, f.y); err != nil {
			return err
		}
	}
	if f.held && !f.pressed {
		if _, err := v.sess.Pointer(view.Move, f.x, f.y); err != nil {
			return err
		}
	}
	if f.released {
		p, err := v.sess.Pointer(view.Up, f.x, f.y)
		if err != nil {
			return err
		}
		if p.Click != nil {
			if p.Click.Info == nil {
				v.status = "no hexagon here"
			} else {
				v.status = fmt.Sprintf("%d match(es)", len(p.Click.Hits))
			}
		}
	}
	if lon, lat, ok := v.sess.LonLat(f.x, f.y); ok {
		v.hover = fmt.Sprintf("lon=%.5f lat=%.5f zoom=%.3f", lon, lat, v.sess.Controller().View().ZoomScale)
	}
	return nil
}

func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	return v.apply(readFrame())
}

// refresh uploads the surface again after a click painted on it.
func (v *Viewer) refresh() {
	s := v.sess.Surface()
	if v.texture != nil && v.revision == s.Revision() {
		return
	}
	if v.texture != nil {
		v.texture.Deallocate()
	}
	v.texture = ebiten.NewImageFromImage(s.Image())
	v.revision = s.Revision()
	v.log.Debug("texture uploaded", logging.Int("revision", int(v.revision)))
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	v.refresh()

	vs := v.sess.Controller().View()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(vs.ZoomScale, vs.ZoomScale)
	op.GeoM.Translate(vs.PanX, vs.PanY)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(v.texture, op)

	if panel := v.sess.Panel(); panel != "" {
		ebitenutil.DebugPrintAt(screen, panel, 8, 8)
	}
	ebitenutil.DebugPrintAt(screen, v.status+"  "+v.hover, 8, v.height-20)
}

func (v *Viewer) Layout(_, _ int) (screenWidth, screenHeight int) {
	return v.width, v.height
}

// Run opens the window and blocks until it is closed.
func Run(s *session.Session, width, height int, title string, log logging.Logger) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(NewViewer(s, width, height, log)); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}

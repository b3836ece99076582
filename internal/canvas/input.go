package canvas

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// doubleClickWindow is how close in time and space two presses must be
// to count as a double click.
const (
	doubleClickWindow = 350 * time.Millisecond
	doubleClickSlop   = 6.0
)

// Update implements ebiten.Game. It snapshots the raw input into a frame
// and hands it to the pure gesture logic.
func (s *Surface) Update() error {
	s.step(s.readFrame())
	return nil
}

// Layout implements ebiten.Game; the surface renders at window size.
func (s *Surface) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func (s *Surface) readFrame() frame {
	px, py := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()

	f := frame{
		px:           float64(px),
		py:           float64(py),
		pressed:      ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		justPressed:  inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		justReleased: inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		wheelX:       wx,
		wheelY:       wy,
		ctrl:         modifierPressed(ebiten.KeyControlLeft, ebiten.KeyControlRight, ebiten.KeyMetaLeft, ebiten.KeyMetaRight),
		shift:        modifierPressed(ebiten.KeyShiftLeft, ebiten.KeyShiftRight),
		runes:        ebiten.AppendInputChars(nil),
		keyPan:       inpututil.IsKeyJustPressed(ebiten.KeyP),
		keySelect:    inpututil.IsKeyJustPressed(ebiten.KeyS),
		keyRect:      inpututil.IsKeyJustPressed(ebiten.KeyR),
		keyDelete:    inpututil.IsKeyJustPressed(ebiten.KeyDelete) || inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
		keyEnter:     inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		keyEscape:    inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		keyBackspace: inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
	}

	if f.justPressed {
		now := time.Now()
		if now.Sub(s.clickTime) <= doubleClickWindow &&
			abs(f.px-s.clickX)+abs(f.py-s.clickY) <= doubleClickSlop {
			f.doubleClick = true
			s.clickTime = time.Time{}
		} else {
			s.clickTime = now
			s.clickX, s.clickY = f.px, f.py
		}
	}
	return f
}

func modifierPressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

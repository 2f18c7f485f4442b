package main

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

const mouseSensitivity = 0.005

// snapKeys maps the number keys to the direction the camera is turned to look at.
var snapKeys = map[uint32]renderer.CardinalDirection{
	common.Key1: renderer.North,
	common.Key2: renderer.East,
	common.Key3: renderer.South,
	common.Key4: renderer.West,
}

// inputBindings turns window input into camera and projection changes.
// Key callbacks arrive on the window goroutine, ticks on the engine goroutine.
type inputBindings struct {
	mu       *sync.Mutex
	keyState map[uint32]bool

	dragging     bool
	lastX, lastY int32

	ctrl camera.CameraController
	proj camera.Projection
	quit func()
}

var _ window.InputHandler = &inputBindings{}

func newInputBindings(s scene.Scene, quit func()) *inputBindings {
	return &inputBindings{
		mu:       &sync.Mutex{},
		keyState: make(map[uint32]bool),
		ctrl:     orbitController(s.Camera()),
		proj:     s.Projection(),
		quit:     quit,
	}
}

// bind routes the engine window's input to in and orbits on every engine tick.
func (in *inputBindings) bind(eng engine.Engine) {
	eng.Window().SetInputHandler(in)
	eng.SetTickCallback(in.tick)
}

// KeyDown handles the one-shot keys on the first press; auto-repeat only keeps the key held.
func (in *inputBindings) KeyDown(key uint32) {
	in.mu.Lock()
	held := in.keyState[key]
	in.keyState[key] = true
	in.mu.Unlock()
	if held {
		return
	}

	switch key {
	case common.KeyEsc:
		in.quit()
	case common.KeyO:
		in.proj.SetOrthographic(!in.proj.IsOrthographic())
	default:
		if dir, ok := snapKeys[key]; ok {
			in.ctrl.LookToward(dir.Heading())
		}
	}
}

func (in *inputBindings) KeyUp(key uint32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.keyState[key] = false
}

func (in *inputBindings) Scroll(delta float32) {
	in.ctrl.Zoom(delta)
}

func (in *inputBindings) DragStart(x, y int32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.dragging = true
	in.lastX, in.lastY = x, y
}

func (in *inputBindings) DragEnd(_, _ int32) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.dragging = false
}

// MouseMove orbits the camera while the middle button is held.
func (in *inputBindings) MouseMove(x, y int32) {
	in.mu.Lock()
	if !in.dragging {
		in.mu.Unlock()
		return
	}
	dx := float32(x - in.lastX)
	dy := float32(y - in.lastY)
	in.lastX, in.lastY = x, y
	in.mu.Unlock()

	in.ctrl.SetAzimuth(in.ctrl.Azimuth() + dx*mouseSensitivity)
	in.ctrl.SetElevation(in.ctrl.Elevation() - dy*mouseSensitivity)
}

// tick orbits the camera while arrow keys are held.
func (in *inputBindings) tick(_ float32) {
	in.mu.Lock()
	left, right := in.keyState[common.KeyLeft], in.keyState[common.KeyRight]
	up, down := in.keyState[common.KeyUp], in.keyState[common.KeyDown]
	in.mu.Unlock()

	if left {
		in.ctrl.OrbitLeft()
	}
	if right {
		in.ctrl.OrbitRight()
	}
	if up {
		in.ctrl.OrbitUp()
	}
	if down {
		in.ctrl.OrbitDown()
	}
}

package game

import rl "github.com/gen2brain/raylib-go/raylib"

const maxSpeed = 10

// HandleInput processes keyboard and mouse input for one frame.
func (g *Game) HandleInput() {
	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.Step(rl.GetFrameTime())
	}

	// Ticks-per-frame control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		g.SetSpeed(g.speed - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.SetSpeed(g.speed + 1)
	}

	g.handleCameraInput()
}

// SetSpeed sets the ticks run per rendered frame, clamped to [1, 10].
func (g *Game) SetSpeed(n int) {
	if n < 1 {
		n = 1
	}
	if n > maxSpeed {
		n = maxSpeed
	}
	g.speed = n
}

// SetPaused suspends or resumes Update.
func (g *Game) SetPaused(p bool) {
	g.paused = p
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.rig == nil {
		return
	}

	if rl.IsWindowResized() {
		g.rig.SetViewport(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	}

	// Fraction of the visible half extent per frame
	const panStep = 0.03

	if rl.IsKeyDown(rl.KeyRight) {
		g.rig.Pan(panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.rig.Pan(-panStep, 0)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.rig.Pan(0, panStep)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.rig.Pan(0, -panStep)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.rig.ZoomBy(1 + wheel*0.1)
	}

	// Keyboard zoom with +/- (= and - keys)
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.rig.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.rig.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyR) || rl.IsKeyPressed(rl.KeyHome) {
		g.rig.Reset()
	}
}

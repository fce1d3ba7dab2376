// Package ui draws the heads-up display over the 3D scene.
package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Tick      int32
	Prey      int
	Predators int
	Speed     int
	FPS       int32
	Paused    bool

	// Observed predator
	Hunger  float32
	Action  string
	State   string
	Choices []string
	Scores  []float32

	PickerThreshold float32
}

// HUD renders the main heads-up display.
type HUD struct {
	x, y, width float32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{x: 10, y: 10, width: 260}
}

// Draw renders the HUD and returns the picker threshold chosen on its slider.
func (h *HUD) Draw(data HUDData) float32 {
	x, y := int32(h.x), int32(h.y)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 25

	rl.DrawText(fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS), x, y, 16, rl.LightGray)
	y += 20
	rl.DrawText(fmt.Sprintf("Prey: %d | Predators: %d", data.Prey, data.Predators), x, y, 16, rl.LightGray)
	y += 20

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, x, y, 16, rl.Yellow)
	y += 26

	gui.ProgressBar(h.bar(y), "hunger", fmt.Sprintf("%.2f", data.Hunger), data.Hunger, 0, 1)
	y += 26

	action := data.Action
	if action == "" {
		action = "idle"
	}
	rl.DrawText(fmt.Sprintf("%s [%s]", action, data.State), x, y, 16, rl.RayWhite)
	y += 24

	for i, label := range data.Choices {
		var score float32
		if i < len(data.Scores) {
			score = data.Scores[i]
		}
		gui.ProgressBar(h.bar(y), label, fmt.Sprintf("%.2f", score), score, 0, 1)
		y += 22
	}
	y += 6

	gui.Label(rl.Rectangle{X: h.x, Y: float32(y), Width: h.width, Height: 16}, "picker threshold")
	y += 18
	threshold := gui.SliderBar(h.bar(y), "0", "1", data.PickerThreshold, 0, 1)
	y += 26

	rl.DrawText("[Space] pause  [,/.] speed  [wheel] zoom  [arrows] pan  [R] reset", x, y, 12, rl.Gray)
	return threshold
}

// bar returns a full-width control rectangle at row y, leaving room for side labels.
func (h *HUD) bar(y int32) rl.Rectangle {
	return rl.Rectangle{X: h.x + 70, Y: float32(y), Width: h.width - 110, Height: 16}
}

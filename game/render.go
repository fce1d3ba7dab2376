package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/predprey/components"
	"github.com/pthm-cable/predprey/renderer"
	"github.com/pthm-cable/predprey/ui"
)

// Draw renders one frame. It is a no-op for headless games.
func (g *Game) Draw() {
	if g.scene == nil {
		return
	}

	views := g.Snapshot()

	rl.BeginDrawing()
	g.scene.Draw(g.cubes(views))

	threshold := g.hud.Draw(g.hudData(views))
	if threshold != g.PickerThreshold() {
		g.SetPickerThreshold(threshold)
	}
	rl.EndDrawing()
}

// cubes converts entity views to drawable cubes, marking targeted prey.
func (g *Game) cubes(views []EntityView) []renderer.Cube {
	targeted := make(map[ecs.Entity]bool)
	for _, v := range views {
		if v.Kind != components.KindPredator || !g.targetMap.Has(v.Entity) {
			continue
		}
		if e, ok := g.targetMap.Get(v.Entity).Get(); ok {
			targeted[e] = true
		}
	}

	cubes := make([]renderer.Cube, 0, len(views))
	for _, v := range views {
		c := renderer.Cube{
			X:    float32(v.Pos.X),
			Y:    float32(v.Pos.Y),
			Z:    float32(v.Pos.Z),
			Size: 1,
		}
		switch v.Kind {
		case components.KindPredator:
			c.Color = renderer.PredatorColor
		case components.KindPrey:
			c.Color = renderer.FadeByPoints(renderer.PreyColor, v.Points, g.cfg.Derived.PreyPoints32)
			c.Outline = targeted[v.Entity]
		}
		cubes = append(cubes, c)
	}
	return cubes
}

// hudData fills the HUD from the first predator.
func (g *Game) hudData(views []EntityView) ui.HUDData {
	data := ui.HUDData{
		Title:           "predprey",
		Tick:            g.tick,
		Speed:           g.speed,
		FPS:             rl.GetFPS(),
		Paused:          g.paused,
		PickerThreshold: g.PickerThreshold(),
	}

	observed := false
	for _, v := range views {
		switch v.Kind {
		case components.KindPredator:
			data.Predators++
			if !observed {
				observed = true
				data.Hunger = v.Hunger
				data.Action = v.Action
				data.State = v.State
				data.Scores = v.Scores
			}
		case components.KindPrey:
			data.Prey++
		}
	}

	for i := range g.spec.Choices {
		data.Choices = append(data.Choices, g.actionLabel(g.spec, i))
	}
	return data
}

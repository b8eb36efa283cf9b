// Package render draws the world with raylib. Nothing here feeds back into
// the simulation; the viewer is a pure observer plus pause/speed controls.
package render

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/calehm/pond/components"
	"github.com/calehm/pond/config"
	"github.com/calehm/pond/world"
)

// Viewer owns the interactive view state: pause, speed, and the selected
// organism for the inspector panel.
type Viewer struct {
	paused  bool
	speed   float32 // simulation ticks per frame
	showFOV bool

	selectedID  uint32
	hasSelected bool

	views []world.OrganismView
}

// NewViewer creates a viewer running at 1x speed.
func NewViewer() *Viewer {
	return &Viewer{speed: 1, showFOV: config.Cfg().Render.DrawFOV}
}

// Paused reports whether the simulation is paused.
func (v *Viewer) Paused() bool { return v.paused }

// Steps returns how many simulation ticks to run this frame.
func (v *Viewer) Steps() int {
	if v.paused {
		return 0
	}
	return int(v.speed)
}

// HandleInput processes keyboard and mouse input.
func (v *Viewer) HandleInput(w *world.World) {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		w.Reset()
		v.hasSelected = false
	}
	if rl.IsKeyPressed(rl.KeyComma) && v.speed > 1 {
		v.speed--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.speed < 10 {
		v.speed++
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		v.selectAt(w, rl.GetMousePosition())
	}
}

// selectAt picks the organism nearest the click, within a small radius.
func (v *Viewer) selectAt(w *world.World, mouse rl.Vector2) {
	const pickRadius = 14.0

	v.views = w.Organisms(v.views[:0])
	bestD2 := float32(pickRadius * pickRadius)
	v.hasSelected = false

	for i := range v.views {
		o := &v.views[i]
		dx := o.X - mouse.X
		dy := o.Y - mouse.Y
		d2 := dx*dx + dy*dy
		if d2 <= bestD2 {
			bestD2 = d2
			v.selectedID = o.ID
			v.hasSelected = true
		}
	}
}

// Draw renders one frame: world, organisms, weather tint, and HUD.
func (v *Viewer) Draw(w *world.World) {
	cfg := config.Cfg()

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(8, 12, 20, 255))

	if cfg.Render.DrawGrid {
		v.drawGrid()
	}
	v.drawFood(w)

	v.views = w.Organisms(v.views[:0])
	for i := range v.views {
		v.drawOrganism(&v.views[i])
	}

	v.drawNightTint(w)
	v.drawHUD(w)

	rl.EndDrawing()
}

func (v *Viewer) drawGrid() {
	cfg := config.Cfg()
	spacing := int32(cfg.Render.GridSpacing)
	if spacing <= 0 {
		return
	}
	w := int32(cfg.Derived.WorldW32)
	h := int32(cfg.Derived.WorldH32)
	col := rl.NewColor(255, 255, 255, 10)

	for x := int32(0); x <= w; x += spacing {
		rl.DrawLine(x, 0, x, h, col)
	}
	for y := int32(0); y <= h; y += spacing {
		rl.DrawLine(0, y, int32(cfg.Derived.WorldW32), y, col)
	}
}

func (v *Viewer) drawFood(w *world.World) {
	for _, f := range w.Foods() {
		if f.Eaten {
			continue
		}
		center := rl.Vector2{X: f.X, Y: f.Y}
		rl.DrawCircleV(center, 6, rl.Fade(rl.Green, 0.12))
		rl.DrawCircleV(center, 3, rl.NewColor(90, 220, 110, 255))
	}
}

func (v *Viewer) drawOrganism(o *world.OrganismView) {
	cfg := config.Cfg()

	body := rl.NewColor(90, 160, 255, 255) // male
	if o.Sex == components.Female {
		body = rl.NewColor(255, 120, 170, 255)
	}
	if o.Asleep {
		body = rl.Fade(body, 0.45)
	}

	// Trail, skipping torus wrap jumps.
	if o.Trail != nil && o.Trail.Len() > 1 {
		halfW := cfg.Derived.WorldW32 / 2
		halfH := cfg.Derived.WorldH32 / 2
		prev := o.Trail.At(0)
		for i := 1; i < o.Trail.Len(); i++ {
			p := o.Trail.At(i)
			if abs32(p.X-prev.X) < halfW && abs32(p.Y-prev.Y) < halfH {
				alpha := 0.25 * float32(i) / float32(o.Trail.Len())
				rl.DrawLineV(rl.Vector2{X: prev.X, Y: prev.Y}, rl.Vector2{X: p.X, Y: p.Y}, rl.Fade(body, alpha))
			}
			prev = p
		}
	}

	selected := v.hasSelected && o.ID == v.selectedID

	// Perception cone for the selected organism (or everyone if none is).
	if v.showFOV && (selected || !v.hasSelected) {
		headingDeg := o.Heading * 180 / math.Pi
		half := o.Traits.FOVDeg / 2
		center := rl.Vector2{X: o.X, Y: o.Y}
		rl.DrawCircleSector(center, o.Traits.Range, headingDeg-half, headingDeg+half, 24, rl.Fade(body, 0.05))
	}

	if o.HasTarget {
		rl.DrawLineV(rl.Vector2{X: o.X, Y: o.Y}, rl.Vector2{X: o.TargetX, Y: o.TargetY}, rl.Fade(rl.Yellow, 0.3))
	}

	if o.Home != nil && o.Home.Built {
		rl.DrawCircleLines(int32(o.Home.X), int32(o.Home.Y), float32(config.Cfg().Homes.Radius)*0.1, rl.Fade(rl.Brown, 0.8))
	}

	drawOrientedTriangle(o.X, o.Y, o.Heading, 7, body)

	if selected {
		rl.DrawCircleLines(int32(o.X), int32(o.Y), 12, rl.Yellow)
	}
	if o.Asleep {
		rl.DrawText("z", int32(o.X)+8, int32(o.Y)-14, 12, rl.Fade(rl.White, 0.7))
	}
}

// drawNightTint darkens the world as the day/night factor falls.
func (v *Viewer) drawNightTint(w *world.World) {
	cfg := config.Cfg()
	night := 1 - w.Env().DayNight()
	if night <= 0 {
		return
	}
	alpha := uint8(night * 110)
	rl.DrawRectangle(0, 0, int32(cfg.Derived.WorldW32), int32(cfg.Derived.WorldH32), rl.NewColor(4, 6, 30, alpha))
}

func (v *Viewer) drawHUD(w *world.World) {
	env := w.Env()
	births, deaths := w.Collector().Totals()

	line1 := fmt.Sprintf("t=%.0fs  pop=%d  foods=%d  gen=%d", w.Time(), w.Population(), len(w.Foods()), w.GenerationHigh())
	line2 := fmt.Sprintf("births=%d  deaths=%d  day=%.2f  precip=%.2f", births, deaths, env.DayNight(), env.Precip())
	rl.DrawText(line1, 10, 10, 18, rl.White)
	rl.DrawText(line2, 10, 32, 18, rl.White)

	// Controls panel.
	if gui.Button(rl.NewRectangle(10, 58, 70, 22), pauseLabel(v.paused)) {
		v.paused = !v.paused
	}
	v.speed = gui.SliderBar(rl.NewRectangle(130, 58, 120, 22), "1x", "10x", v.speed, 1, 10)
	v.showFOV = gui.CheckBox(rl.NewRectangle(290, 58, 22, 22), "FOV", v.showFOV)

	if v.hasSelected {
		v.drawInspector(w)
	}
	if v.paused {
		rl.DrawText("PAUSED", 10, 88, 18, rl.Yellow)
	}
}

// drawInspector shows the selected organism's state and last brain I/O.
func (v *Viewer) drawInspector(w *world.World) {
	cfg := config.Cfg()

	var sel *world.OrganismView
	for i := range v.views {
		if v.views[i].ID == v.selectedID {
			sel = &v.views[i]
			break
		}
	}
	if sel == nil {
		v.hasSelected = false
		return
	}

	x := int32(cfg.Derived.WorldW32) - 240
	rl.DrawRectangle(x-10, 10, 240, 120, rl.Fade(rl.Black, 0.6))

	rl.DrawText(fmt.Sprintf("#%d %s gen=%d", sel.ID, sel.Sex, sel.Generation), x, 16, 16, rl.White)
	rl.DrawText(fmt.Sprintf("energy=%.2f age=%.0fs", sel.Energy, sel.Age), x, 36, 14, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("fov=%.0f range=%.0f", sel.Traits.FOVDeg, sel.Traits.Range), x, 54, 14, rl.RayWhite)
	rl.DrawText(fmt.Sprintf("thrust=%.2f meta=%.2f", sel.Traits.ThrustEff, sel.Traits.MetabolismEff), x, 72, 14, rl.RayWhite)
	state := "awake"
	if sel.Asleep {
		state = "asleep"
	}
	rl.DrawText(state, x, 90, 14, rl.SkyBlue)
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	front := rl.Vector2{X: x + cos*radius*1.5, Y: y + sin*radius*1.5}

	backAngle := heading + math.Pi*0.8
	backLeft := rl.Vector2{
		X: x + float32(math.Cos(float64(backAngle)))*radius,
		Y: y + float32(math.Sin(float64(backAngle)))*radius,
	}
	backAngle = heading - math.Pi*0.8
	backRight := rl.Vector2{
		X: x + float32(math.Cos(float64(backAngle)))*radius,
		Y: y + float32(math.Sin(float64(backAngle)))*radius,
	}

	// DrawTriangle requires counter-clockwise winding.
	rl.DrawTriangle(front, backRight, backLeft, color)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

package main

import (
	"flag"
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/labstack/gommon/log"

	"pushback-sim/internal/sim"
	"pushback-sim/internal/tow"
	"pushback-sim/pkg/geom"
)

const (
	screenWidth  = 1024
	screenHeight = 768

	arcDrawStep   = 5 // degrees per arc chord when drawing turns
	cursorHdgStep = 2 // degrees per wheel click
)

type Camera struct {
	X, Y                 float64 // world position at screen center, meters
	Scale                float64 // pixels per meter
	PanStartX, PanStartY int
}

type Game struct {
	width, height int
	camera        *Camera
	sim           *sim.Sim

	cursorWorld geom.Vec2
	cursorHdg   float64
	predSegs    []*tow.Seg
	predErr     error

	running bool
}

func NewGame(s *sim.Sim) *Game {
	// One telemetry tick so the operation has a live pose to plan from.
	s.Op.Run(s.Telemetry())
	return &Game{
		width:  screenWidth,
		height: screenHeight,
		camera: &Camera{X: s.Craft.Pos.X, Y: s.Craft.Pos.Y, Scale: 4.0},
		sim:    s,
	}
}

func (g *Game) Update() error {
	if g.running {
		g.sim.Update(1.0 / g.sim.TickRate)
	}

	g.handleInput()
	g.updatePrediction()

	return nil
}

func (g *Game) handleInput() {
	mx, my := ebiten.CursorPosition()
	g.cursorWorld = g.screenToWorld(float64(mx), float64(my))

	// Plain wheel rotates the target heading; with Ctrl it zooms.
	_, wy := ebiten.Wheel()
	if wy != 0 {
		if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
			scale := g.camera.Scale
			if wy > 0 {
				scale *= 1.1
			} else {
				scale /= 1.1
			}
			g.camera.Scale = math.Max(0.5, math.Min(40.0, scale))
		} else {
			g.cursorHdg = geom.NormalizeHdg(g.cursorHdg + cursorHdgStep*wy)
		}
	}

	// Right mouse button pans.
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		dx, dy := ebiten.CursorPosition()
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		} else {
			g.camera.X -= float64(dx-g.camera.PanStartX) / g.camera.Scale
			g.camera.Y += float64(dy-g.camera.PanStartY) / g.camera.Scale
			g.camera.PanStartX, g.camera.PanStartY = dx, dy
		}
	}

	// Left click commits the previewed waypoint to the route.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if err := g.sim.Op.PlanTo(g.cursorWorld, g.cursorHdg); err != nil {
			log.Warnf("client: cannot place waypoint: %v", err)
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) || inpututil.IsKeyJustPressed(ebiten.KeyDelete) {
		if n := g.sim.Op.Queue().TrimToLastPlaced(); n > 0 {
			log.Infof("client: removed %d segments", n)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		if g.sim.Op.Queue().Len() > 0 {
			g.running = true
			log.Infof("client: operation started")
		} else {
			log.Warnf("client: place a waypoint before starting")
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.sim.Op.Abort()
		g.running = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sim.ParkBrake = !g.sim.ParkBrake
		log.Infof("client: park brake %v", g.sim.ParkBrake)
	}
}

// updatePrediction recomputes the ghost segments from the route's end
// pose to the cursor pose. Planning failures just leave the ghost empty.
func (g *Game) updatePrediction() {
	g.predSegs = nil
	startPos, startHdg, ok := g.sim.Op.StartPose()
	if !ok {
		return
	}
	g.predSegs, g.predErr = tow.ComputeSegs(g.sim.Op.Vehicle(), g.sim.Op.Tuning(),
		startPos, startHdg, g.cursorWorld, g.cursorHdg)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{20, 24, 28, 255})

	g.drawGrid(screen)

	routeCol := color.RGBA{60, 120, 255, 255}
	for _, seg := range g.sim.Op.Queue().Segs() {
		g.drawSegment(screen, seg, routeCol)
	}
	predCol := color.RGBA{90, 90, 110, 255}
	if g.predErr == nil {
		for _, seg := range g.predSegs {
			g.drawSegment(screen, seg, predCol)
		}
	}

	g.drawCursor(screen)
	g.drawAircraft(screen)
	g.drawHUD(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

func (g *Game) screenToWorld(sx, sy float64) geom.Vec2 {
	return geom.Vec2{
		X: g.camera.X + (sx-float64(g.width)/2)/g.camera.Scale,
		Y: g.camera.Y - (sy-float64(g.height)/2)/g.camera.Scale,
	}
}

func (g *Game) worldToScreen(w geom.Vec2) (float32, float32) {
	sx := float64(g.width)/2 + (w.X-g.camera.X)*g.camera.Scale
	sy := float64(g.height)/2 - (w.Y-g.camera.Y)*g.camera.Scale
	return float32(sx), float32(sy)
}

func (g *Game) drawGrid(screen *ebiten.Image) {
	const spacing = 50.0 // meters
	gridCol := color.RGBA{40, 46, 52, 255}

	topLeft := g.screenToWorld(0, 0)
	bottomRight := g.screenToWorld(float64(g.width), float64(g.height))
	for x := math.Floor(topLeft.X/spacing) * spacing; x <= bottomRight.X; x += spacing {
		x0, y0 := g.worldToScreen(geom.Vec2{X: x, Y: topLeft.Y})
		x1, y1 := g.worldToScreen(geom.Vec2{X: x, Y: bottomRight.Y})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, gridCol, false)
	}
	for y := math.Floor(bottomRight.Y/spacing) * spacing; y <= topLeft.Y; y += spacing {
		x0, y0 := g.worldToScreen(geom.Vec2{X: topLeft.X, Y: y})
		x1, y1 := g.worldToScreen(geom.Vec2{X: bottomRight.X, Y: y})
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, gridCol, false)
	}
}

func (g *Game) drawSegment(screen *ebiten.Image, seg *tow.Seg, col color.Color) {
	if seg.Kind == tow.SegStraight {
		x0, y0 := g.worldToScreen(seg.StartPos)
		x1, y1 := g.worldToScreen(seg.EndPos)
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, col, false)
		return
	}
	pts := geom.ArcPoints(seg.TurnCenter(), seg.StartPos, seg.ArcAngle(), arcDrawStep)
	for i := 1; i < len(pts); i++ {
		x0, y0 := g.worldToScreen(pts[i-1])
		x1, y1 := g.worldToScreen(pts[i])
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, col, false)
	}
}

// drawPose draws a position dot with a heading line.
func (g *Game) drawPose(screen *ebiten.Image, pos geom.Vec2, hdg, lineMeters float64, col color.Color) {
	x, y := g.worldToScreen(pos)
	tip := pos.Add(geom.Hdg2Dir(hdg).Mul(lineMeters))
	tx, ty := g.worldToScreen(tip)
	vector.DrawFilledCircle(screen, x, y, 4, col, false)
	vector.StrokeLine(screen, x, y, tx, ty, 2, col, false)
}

func (g *Game) drawAircraft(screen *ebiten.Image) {
	craft := g.sim.Craft
	g.drawPose(screen, craft.Pos, craft.Hdg, craft.Params.Wheelbase, color.RGBA{255, 220, 60, 255})

	// Nose wheel deflection indicator.
	noseDir := geom.Hdg2Dir(geom.NormalizeHdg(craft.Hdg + craft.Steer))
	nose := craft.Pos.Add(geom.Hdg2Dir(craft.Hdg).Mul(craft.Params.Wheelbase))
	tip := nose.Add(noseDir.Mul(craft.Params.Wheelbase / 3))
	x0, y0 := g.worldToScreen(nose)
	x1, y1 := g.worldToScreen(tip)
	vector.StrokeLine(screen, x0, y0, x1, y1, 2, color.RGBA{255, 120, 60, 255}, false)
}

func (g *Game) drawCursor(screen *ebiten.Image) {
	col := color.RGBA{60, 220, 120, 255}
	if g.predErr != nil {
		col = color.RGBA{220, 60, 60, 255}
	}
	g.drawPose(screen, g.cursorWorld, g.cursorHdg, 10, col)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	craft := g.sim.Craft
	state := "placing"
	if g.running {
		state = "running"
	}
	hud := fmt.Sprintf(
		"%s | t=%.1fs | pos %.1f/%.1f | hdg %.1f | spd %.2f m/s | steer %.1f | segs %d\n"+
			"wheel: rotate target  ctrl+wheel: zoom  rmb: pan  click: place  enter: start  bksp: undo  esc: abort  p: park brake",
		state, g.sim.Time, craft.Pos.X, craft.Pos.Y, craft.Hdg, craft.Spd, craft.Steer,
		g.sim.Op.Queue().Len())
	if g.predErr != nil {
		hud += fmt.Sprintf("\ntarget infeasible: %v", g.predErr)
	}
	ebitenutil.DebugPrint(screen, hud)
}

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML tuning file")
		debug      = flag.Bool("debug", false, "enable debug logging")
		useForce   = flag.Bool("force", false, "actuate through the tow-force model instead of kinematics")
		wheelbase  = flag.Float64("wheelbase", 15, "nose wheel to main gear distance, meters")
		maxSteer   = flag.Float64("max-steer", 60, "maximum nose wheel deflection, degrees")
		mass       = flag.Float64("mass", 70000, "vehicle mass, kilograms")
	)
	flag.Parse()

	if *debug {
		log.SetLevel(log.DEBUG)
	} else {
		log.SetLevel(log.INFO)
	}

	cfg := tow.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = tow.LoadConfig(*configPath)
		if err != nil {
			log.Fatal(err)
		}
	}

	params, err := tow.NewVehicle(*wheelbase, *maxSteer, *mass)
	if err != nil {
		log.Fatal(err)
	}

	s := sim.New(params, cfg, geom.Vec2{}, 0, 60.0)
	s.UseForce = *useForce

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Pushback Simulator")
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(NewGame(s)); err != nil {
		log.Fatal(err)
	}
}

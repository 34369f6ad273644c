// Package tui runs orcaswarm simulations in a terminal.
//
// It mirrors the OpenGL viewer: space pauses, right arrow steps while paused,
// tab and shift-tab cycle the focal agent, + and - zoom, r resets the view
// and Esc or q quits.
package tui

import (
	"fmt"
	"time"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/gdamore/tcell/v2"
)

// Config holds the parameters of the terminal driver.
type Config struct {
	Step       func()        // go to next step
	ForcePause bool          // step manually only?
	Frame      time.Duration // delay between steps when running

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64
}

// Run runs an interactive simulation in the terminal.
func Run(s *orcaswarm.Simulator, conf *Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	return loop(screen, s, conf)
}

var (
	agentStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	relaxedStyle = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	focalStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	wallStyle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	statusStyle  = tcell.StyleDefault.Reverse(true)
)

// A view maps simulation space to terminal cells.
type view struct {
	min, max orcaswarm.Vec2
}

func defaultView(conf *Config) view {
	return view{orcaswarm.Vec2{X: conf.Xmin, Y: conf.Ymin}, orcaswarm.Vec2{X: conf.Xmax, Y: conf.Ymax}}
}

// cell returns the column and row of p on a w x h grid, y pointing up.
func (v view) cell(p orcaswarm.Vec2, w, h int) (int, int) {
	x := (p.X - v.min.X) / (v.max.X - v.min.X) * float64(w)
	y := (v.max.Y - p.Y) / (v.max.Y - v.min.Y) * float64(h)
	return int(x), int(y)
}

// zoom scales the view by a factor 1-z around its center.
func (v *view) zoom(z float64) {
	c := v.min.Add(v.max).Scale(0.5)
	v.min = c.Add(v.min.Sub(c).Scale(1 - z))
	v.max = c.Add(v.max.Sub(c).Scale(1 - z))
}

// loop draws and steps s on an initialized screen until the user quits.
func loop(screen tcell.Screen, s *orcaswarm.Simulator, conf *Config) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	frame := conf.Frame
	if frame <= 0 {
		frame = 50 * time.Millisecond
	}
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	v := defaultView(conf)
	focal := -1
	pause := conf.ForcePause
	draw(screen, s, v, focal, pause)

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch ev.Key() {
				case tcell.KeyEscape:
					return nil
				case tcell.KeyRight:
					if pause {
						conf.Step()
					}
				case tcell.KeyTab:
					focal = nextFocal(focal, s.NumAgents(), false)
				case tcell.KeyBacktab:
					focal = nextFocal(focal, s.NumAgents(), true)
				case tcell.KeyRune:
					switch ev.Rune() {
					case 'q':
						return nil
					case ' ':
						if !conf.ForcePause {
							pause = !pause
						}
					case '+':
						v.zoom(0.1)
					case '-':
						v.zoom(-0.1)
					case 'r':
						v = defaultView(conf)
					}
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if !pause {
				conf.Step()
			}
		}
		draw(screen, s, v, focal, pause)
	}
}

// nextFocal cycles through agents then -1 (no focal agent), backward if back is set.
func nextFocal(focal, n int, back bool) int {
	if back {
		focal--
	} else {
		focal++
	}
	return (n+focal+2)%(n+1) - 1
}

// draw renders obstacles, agents and a status line.
func draw(screen tcell.Screen, s *orcaswarm.Simulator, v view, focal int, pause bool) {
	screen.Clear()
	w, h := screen.Size()
	h-- // status line
	if w <= 0 || h <= 0 {
		screen.Show()
		return
	}
	put := func(p orcaswarm.Vec2, r rune, style tcell.Style) {
		x, y := v.cell(p, w, h)
		if x >= 0 && x < w && y >= 0 && y < h {
			screen.SetContent(x, y, r, nil, style)
		}
	}

	// sample each edge at half a cell
	cellSize := (v.max.X - v.min.X) / float64(w)
	for i := 0; i < s.NumObstacleVertices(); i++ {
		a := s.ObstacleVertex(i)
		b := s.ObstacleVertex(s.NextObstacleVertexNo(i))
		n := int(b.Sub(a).Abs()/(0.5*cellSize)) + 1
		for k := 0; k <= n; k++ {
			put(a.Add(b.Sub(a).Scale(float64(k)/float64(n))), '#', wallStyle)
		}
	}

	active := 0
	for i := 0; i < s.NumAgents(); i++ {
		if s.AgentRemoved(i) {
			continue
		}
		active++
		switch {
		case i == focal:
			put(s.AgentPosition(i), '@', focalStyle)
		case s.AgentRelaxed(i):
			put(s.AgentPosition(i), 'o', relaxedStyle)
		default:
			put(s.AgentPosition(i), 'o', agentStyle)
		}
	}

	status := fmt.Sprintf(" t=%.2f agents=%d", s.GlobalTime(), active)
	if focal >= 0 && focal < s.NumAgents() {
		p, vel := s.AgentPosition(focal), s.AgentVelocity(focal)
		status += fmt.Sprintf(" focal=%d pos=(%.2f,%.2f) vel=(%.2f,%.2f) lines=%d",
			focal, p.X, p.Y, vel.X, vel.Y, s.AgentNumOrcaLines(focal))
	}
	if s.ReachedGoal() {
		status += " goals reached"
	}
	if pause {
		status += " [paused]"
	}
	for x, r := range []rune(status) {
		if x >= w {
			break
		}
		screen.SetContent(x, h, r, nil, statusStyle)
	}
	screen.Show()
}

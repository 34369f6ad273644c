//go:build !nogl
// +build !nogl

package opengl

import (
	"embed"
	"fmt"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

//go:embed shaders/*.glsl
var shaders embed.FS

// Run runs an interactive simulation in an OpenGL window.
func Run(s *orcaswarm.Simulator, conf *Config) error {
	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	const (
		width  = 800
		height = 800
	)
	title := conf.Title
	if title == "" {
		title = "orcaswarm"
	}
	w, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		return err
	}
	defer w.Destroy()
	w.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return err
	}

	// set background color and enable alpha blending
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	w.SwapBuffers()

	// initialize OpenGL objects
	d, err := newDisplay()
	if err != nil {
		return err
	}

	// handle scrolling zoom
	vp := defaultViewport(conf)
	focal := -1 // index of the agent whose ORCA lines are displayed
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), (float32(ys)-float32(yc))/float32(ys)
		vp.zoom(x, y, 0.05*float32(yo))
		d.draw(s, focal, vp)
		w.SwapBuffers()
	})

	var quit, step bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, mod glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			quit = true
		}
		if key == glfw.KeySpace && action == glfw.Press && !conf.ForcePause {
			pause = !pause
		}
		if key == glfw.KeyRight && (action == glfw.Press || action == glfw.Repeat) {
			if pause {
				pause = false
				step = true
			}
		}
		if key == glfw.KeyTab && action == glfw.Press {
			focal = nextFocal(focal, s.NumAgents(), mod&glfw.ModShift != 0)
		}
		if key == glfw.KeyR && action == glfw.Press {
			vp = defaultViewport(conf)
			d.draw(s, focal, vp)
			w.SwapBuffers()
		}
	})

	for !(quit || w.ShouldClose()) {
		if step {
			pause = true
			step = false
			conf.Step()
		}
		if !pause {
			conf.Step()
		}
		d.draw(s, focal, vp)
		w.SwapBuffers()
		glfw.PollEvents()
	}
	return nil
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	prog struct {
		disc uint32
		line uint32
	}
	vao struct {
		disc uint32
		line uint32
	}
	buf struct {
		disc uint32
		line uint32
	}
	uni struct {
		discVP int32 // viewport of the disc program
		lineVP int32 // viewport of the line program
	}
	discs []float32
	lines []float32
}

// draw updates the OpenGL buffers and draws the scene on screen.
func (d *display) draw(s *orcaswarm.Simulator, focal int, vp viewport) {
	d.updateViewport(vp)
	d.discs = discVertices(d.discs[:0], s, focal)
	d.lines = lineVertices(d.lines[:0], s, focal)

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	d.drawLines()
	d.drawDiscs()
}

// updateViewport sends the new viewport to OpenGL.
func (d *display) updateViewport(vp viewport) {
	gl.UseProgram(d.prog.disc)
	gl.Uniform2fv(d.uni.discVP, 2, &vp[0].X)
	gl.UseProgram(d.prog.line)
	gl.Uniform2fv(d.uni.lineVP, 2, &vp[0].X)
}

// drawDiscs streams the agent vertices and draws them as discs.
func (d *display) drawDiscs() {
	if len(d.discs) == 0 {
		return
	}
	gl.UseProgram(d.prog.disc)
	gl.BindVertexArray(d.vao.disc)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.disc)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(d.discs), gl.Ptr(d.discs), gl.STREAM_DRAW)
	gl.DrawArrays(gl.POINTS, 0, int32(len(d.discs)/discStride))
}

// drawLines streams the segment vertices and draws them.
func (d *display) drawLines() {
	if len(d.lines) == 0 {
		return
	}
	gl.UseProgram(d.prog.line)
	gl.BindVertexArray(d.vao.line)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.line)
	gl.BufferData(gl.ARRAY_BUFFER, 4*len(d.lines), gl.Ptr(d.lines), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(d.lines)/lineStride))
}

// newDisplay compiles shaders and initializes a display.
func newDisplay() (*display, error) {
	d := new(display)

	// compile and link shaders
	var err error
	d.prog.disc, err = makeProg([]shader{
		{"Vertex", "disc.vert.glsl", gl.CreateShader(gl.VERTEX_SHADER)},
		{"Geometry", "disc.geom.glsl", gl.CreateShader(gl.GEOMETRY_SHADER)},
		{"Fragment", "disc.frag.glsl", gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}
	d.prog.line, err = makeProg([]shader{
		{"Vertex", "line.vert.glsl", gl.CreateShader(gl.VERTEX_SHADER)},
		{"Fragment", "line.frag.glsl", gl.CreateShader(gl.FRAGMENT_SHADER)},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.discVP = gl.GetUniformLocation(d.prog.disc, gl.Str("vp\x00"))
	d.uni.lineVP = gl.GetUniformLocation(d.prog.line, gl.Str("vp\x00"))

	// attribute locations are specified in the shaders with layout(location=n)
	const f = 4 // sizeof(float32)

	gl.GenVertexArrays(1, &d.vao.disc)
	gl.BindVertexArray(d.vao.disc)
	gl.GenBuffers(1, &d.buf.disc)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.disc)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, discStride*f, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, discStride*f, gl.PtrOffset(2*f))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 4, gl.FLOAT, false, discStride*f, gl.PtrOffset(3*f))

	gl.GenVertexArrays(1, &d.vao.line)
	gl.BindVertexArray(d.vao.line)
	gl.GenBuffers(1, &d.buf.line)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.buf.line)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, lineStride*f, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, lineStride*f, gl.PtrOffset(2*f))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return d, nil
}

// A shader wraps an OpenGL shader.
type shader struct {
	name   string
	path   string
	shader uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaderList []shader) (uint32, error) {
	var fail bool
	for _, s := range shaderList {
		src, err := shaders.ReadFile("shaders/" + s.path)
		if err != nil {
			return 0, err
		}
		str, free := gl.Strs(string(src) + "\x00")
		gl.ShaderSource(s.shader, 1, str, nil)
		free()
		gl.CompileShader(s.shader)
		var status int32
		gl.GetShaderiv(s.shader, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(s.shader, gl.INFO_LOG_LENGTH, &n)
			log := make([]uint8, n+1)
			gl.GetShaderInfoLog(s.shader, n, &n, &log[0])
			fmt.Printf("### %s shader compilation error: %s ###\n\n%s\n\n", s.name, s.path, gl.GoStr(&log[0]))
			fail = true
			gl.DeleteShader(s.shader)
		}
	}
	if fail {
		return 0, fmt.Errorf("orcaswarm: GLSL errors")
	}
	prog := gl.CreateProgram()
	for _, s := range shaderList {
		gl.AttachShader(prog, s.shader)
	}
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		return 0, fmt.Errorf("orcaswarm: GLSL link error")
	}
	return prog, nil
}

package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/pendsim/internal/dynamo"
)

const (
	playerWidth  = 60
	playerHeight = 24
	trailLength  = 150
	chartWindow  = 200
)

type tickMsg time.Time

// PlayerOptions configure a Player.
type PlayerOptions struct {
	Title string
	// Energy is drawn as a live chart when it has one value per frame.
	Energy []float64
	Theme  string
	// Speed scales playback; 2 plays twice as fast as real time.
	Speed float64
	Loop  bool
	Trail bool
}

// Player replays precomputed frames at the sampling interval. It never
// integrates anything itself.
type Player struct {
	opts     PlayerOptions
	frames   []Frame
	extent   float64
	interval time.Duration
	canvas   *Canvas
	trail    []Point
	idx      int
	paused   bool
	done     bool
	theme    int
}

func NewPlayer(frames []Frame, opts PlayerOptions) (*Player, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("player: %w", dynamo.ErrNoTrajectory)
	}
	if opts.Energy != nil && len(opts.Energy) != len(frames) {
		return nil, fmt.Errorf("player: %d energy values for %d frames: %w",
			len(opts.Energy), len(frames), dynamo.ErrDimensionMismatch)
	}
	if opts.Speed == 0 {
		opts.Speed = 1
	}
	if err := dynamo.Positive("speed", opts.Speed); err != nil {
		return nil, err
	}

	interval := Interval(frames, time.Second/30)
	interval = time.Duration(float64(interval) / opts.Speed)
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	return &Player{
		opts:     opts,
		frames:   frames,
		extent:   Extent(frames),
		interval: interval,
		canvas:   NewCanvas(playerWidth, playerHeight),
		trail:    make([]Point, 0, trailLength),
		theme:    ThemeIndex(opts.Theme),
	}, nil
}

// Interval is the wall-clock delay between frames.
func (p *Player) Interval() time.Duration { return p.interval }

// Index is the frame currently shown.
func (p *Player) Index() int { return p.idx }

func (p *Player) Done() bool { return p.done }

func (p *Player) tick() tea.Cmd {
	return tea.Tick(p.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (p *Player) Init() tea.Cmd {
	return p.tick()
}

func (p *Player) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.paused = !p.paused
		case "r":
			p.restart()
		case "t":
			p.theme = (p.theme + 1) % len(Themes)
		}
	case tickMsg:
		if !p.paused && !p.done {
			p.advance()
		}
		return p, p.tick()
	}
	return p, nil
}

// advance moves to the next frame, wrapping when looping.
func (p *Player) advance() {
	if p.opts.Trail {
		p.trail = append(p.trail, p.frames[p.idx].Tip())
		if len(p.trail) > trailLength {
			p.trail = p.trail[1:]
		}
	}
	if p.idx+1 < len(p.frames) {
		p.idx++
		return
	}
	if p.opts.Loop {
		p.restart()
		return
	}
	p.done = true
}

func (p *Player) restart() {
	p.idx = 0
	p.done = false
	p.trail = p.trail[:0]
}

func (p *Player) View() string {
	st := Themes[p.theme].styles()
	f := p.frames[p.idx]

	p.canvas.Clear()
	p.canvas.DrawFrame(f, p.extent, p.trail)
	figure := st.figure.Render(p.canvas.String())

	status := "PLAYING"
	switch {
	case p.done:
		status = "FINISHED"
	case p.paused:
		status = "PAUSED"
	}

	title := p.opts.Title
	if title == "" {
		title = "pendulum"
	}

	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(status + "\n\n")
	if e := p.energyWindow(); len(e) > 1 {
		chart := asciigraph.Plot(e, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(st.chart.Render(chart) + "\n\n")
	}
	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.3fs", f.Time))
	row("Frame", fmt.Sprintf("%d/%d", p.idx+1, len(p.frames)))
	if p.opts.Energy != nil {
		row("Energy", fmt.Sprintf("%.6f", p.opts.Energy[p.idx]))
	}
	row("Theme", Themes[p.theme].Name)
	s.WriteString(st.help.Render("SP:Pause R:Restart T:Theme Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, figure, st.stats.Render(s.String()))
}

func (p *Player) energyWindow() []float64 {
	if p.opts.Energy == nil {
		return nil
	}
	lo := max(0, p.idx+1-chartWindow)
	return p.opts.Energy[lo : p.idx+1]
}

// Play runs the player full-screen until the user quits or ctx ends.
func Play(ctx context.Context, p *Player) error {
	_, err := tea.NewProgram(p, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

package apps

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	gameLoadDelay = 2 * time.Second
	matchSeconds  = 30
	hitScore      = 100
)

// ClickMsg is a mouse press inside a view, in cells relative to the view's
// top-left corner.
type ClickMsg struct {
	X, Y int
}

type gameLoaded struct{}

type gameSecond struct{}

type point struct{ x, y int }

type gameView struct {
	args     GameArgs
	loading  bool
	started  bool
	score    int
	timeLeft int
	target   point
	aim      point
	crops    int
	gold     int
	rnd      func(n int) int
}

func gameArgsFrom(args any) GameArgs {
	var a GameArgs
	switch v := args.(type) {
	case GameArgs:
		a = v
	case *GameArgs:
		if v != nil {
			a = *v
		}
	case map[string]any:
		a.GameID, _ = v["gameId"].(string)
		a.Title, _ = v["title"].(string)
	}
	if a.GameID == "" {
		a.GameID = "cs2"
	}
	if a.Title == "" {
		a.Title = "Game"
	}
	return a
}

func newGame(args any) *gameView {
	return &gameView{args: gameArgsFrom(args), loading: true, timeLeft: matchSeconds, rnd: rand.IntN}
}

func (v *gameView) Init() tea.Cmd {
	return tea.Tick(gameLoadDelay, func(time.Time) tea.Msg { return gameLoaded{} })
}

// aimTrainer reports whether the title plays as the aim trainer; the rest
// are the farming clicker.
func (v *gameView) aimTrainer() bool {
	switch v.args.GameID {
	case "cs2", "cyberpunk", "h2":
		return true
	}
	return false
}

func second() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return gameSecond{} })
}

func (v *gameView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case gameLoaded:
		v.loading = false
	case gameSecond:
		if v.started && v.timeLeft > 0 {
			v.timeLeft--
			if v.timeLeft > 0 {
				return v, second()
			}
		}
	case ClickMsg:
		if v.loading {
			return v, nil
		}
		v.aim = point{msg.X, msg.Y}
		return v, v.fire(ctx)
	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		switch msg.String() {
		case "left", "h":
			v.aim.x = max(v.aim.x-1, 0)
		case "right", "l":
			v.aim.x = min(v.aim.x+1, max(ctx.Width-1, 0))
		case "up", "k":
			v.aim.y = max(v.aim.y-1, 0)
		case "down", "j":
			v.aim.y = min(v.aim.y+1, max(ctx.Height-1, 0))
		case " ", "enter":
			return v, v.fire(ctx)
		}
	}
	return v, nil
}

func (v *gameView) fire(ctx Context) tea.Cmd {
	if !v.aimTrainer() {
		v.crops++
		v.gold += v.rnd(5) + 1
		return nil
	}
	switch {
	case !v.started:
		v.started = true
		v.moveTarget(ctx)
		return second()
	case v.timeLeft == 0:
		v.score = 0
		v.timeLeft = matchSeconds
		v.moveTarget(ctx)
		return second()
	case v.aim == v.target:
		v.score += hitScore
		v.moveTarget(ctx)
	}
	return nil
}

// moveTarget places the target inside the middle 80% of the field.
func (v *gameView) moveTarget(ctx Context) {
	w, h := max(ctx.Width, 1), max(ctx.Height-1, 1)
	v.target = point{
		x: w/10 + v.rnd(max(w*8/10, 1)),
		y: 1 + h/10 + v.rnd(max(h*8/10, 1)),
	}
}

func (v *gameView) View(ctx Context) string {
	if v.loading {
		lines := make([]string, ctx.Height/2)
		lines = append(lines, center("Launching "+v.args.Title+"...", ctx.Width), center("Initializing render context...", ctx.Width))
		return fill(lines, ctx.Width, ctx.Height)
	}
	if !v.aimTrainer() {
		lines := []string{
			v.args.Title,
			"",
			fmt.Sprintf("Crops %d   Gold %d", v.crops, v.gold),
			"",
			"[ press space to harvest ]",
		}
		return fill(lines, ctx.Width, ctx.Height)
	}
	if !v.started {
		lines := make([]string, ctx.Height/3)
		lines = append(lines,
			center(strings.ToUpper(v.args.Title), ctx.Width),
			center("Aim Trainer Mode", ctx.Width),
			"",
			center("[ ENTER MATCH ]", ctx.Width))
		return fill(lines, ctx.Width, ctx.Height)
	}
	grid := make([][]rune, max(ctx.Height, 0))
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", max(ctx.Width, 0)))
	}
	put := func(p point, r rune) {
		if p.y >= 0 && p.y < len(grid) && p.x >= 0 && p.x < len(grid[p.y]) {
			grid[p.y][p.x] = r
		}
	}
	if v.timeLeft > 0 {
		put(v.target, '◎')
	}
	put(v.aim, '+')
	lines := make([]string, len(grid))
	for i, row := range grid {
		lines[i] = string(row)
	}
	if len(lines) > 0 {
		hud := fmt.Sprintf("SCORE: %d   TIME: %d", v.score, v.timeLeft)
		lines[0] = hud + string([]rune(lines[0])[min(len(hud), len(grid[0])):])
	}
	if v.timeLeft == 0 && len(lines) > 2 {
		lines[len(lines)/2] = center(fmt.Sprintf("GAME OVER  Final score %d  [ PLAY AGAIN ]", v.score), ctx.Width)
	}
	return fill(lines, ctx.Width, ctx.Height)
}

func center(s string, width int) string {
	pad := (width - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}

func (v *gameView) Title() string { return v.args.Title }

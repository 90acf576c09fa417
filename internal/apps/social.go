package apps

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type post struct {
	author   string
	handle   string
	content  string
	likes    int
	comments int
	age      string
	liked    bool
}

func seedPosts() []post {
	return []post{
		{author: "Sarah Jenkins", handle: "@sarahj_dev", content: "Just deployed my first app on Open Door OS! The development experience is incredibly smooth. #coding #webdev", likes: 42, comments: 5, age: "2h"},
		{author: "Alex River", handle: "@ariver", content: "Does anyone know how to customize the terminal themes? I am looking for something distinct.", likes: 12, comments: 8, age: "4h", liked: true},
		{author: "Open Door Official", handle: "@opendoor_os", content: "Welcome to the future of web operating systems. Stay tuned for v2.0 updates coming next week!", likes: 1024, comments: 156, age: "1d"},
	}
}

type socialView struct {
	env      Env
	compose  textinput.Model
	posts    []post
	selected int
}

func newSocial(env Env) *socialView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "What's happening?"
	ti.CharLimit = 280
	ti.Focus()
	return &socialView{env: env, compose: ti, posts: seedPosts()}
}

func (v *socialView) Init() tea.Cmd { return nil }

func (v *socialView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch key.String() {
	case "enter":
		v.publish()
		return v, nil
	case "up":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil
	case "down":
		if v.selected < len(v.posts)-1 {
			v.selected++
		}
		return v, nil
	case "ctrl+l":
		v.toggleLike(v.selected)
		return v, nil
	}
	var cmd tea.Cmd
	v.compose, cmd = v.compose.Update(key)
	return v, cmd
}

func (v *socialView) publish() {
	text := strings.TrimSpace(v.compose.Value())
	if text == "" {
		return
	}
	user := v.env.user()
	p := post{author: user, handle: "@" + strings.ToLower(strings.ReplaceAll(user, " ", "")), content: text, age: "Just now"}
	v.posts = append([]post{p}, v.posts...)
	v.selected = 0
	v.compose.Reset()
}

func (v *socialView) toggleLike(i int) {
	if i < 0 || i >= len(v.posts) {
		return
	}
	p := &v.posts[i]
	if p.liked {
		p.likes--
	} else {
		p.likes++
	}
	p.liked = !p.liked
}

func (v *socialView) View(ctx Context) string {
	lines := []string{
		"SocialVerse",
		cursorLine("> ", v.compose.Value(), v.compose.Position(), ctx.Active),
		strings.Repeat("─", max(ctx.Width, 0)),
	}
	for i, p := range v.posts {
		marker := "  "
		if i == v.selected {
			marker = "» "
		}
		heart := "♡"
		if p.liked {
			heart = "♥"
		}
		lines = append(lines, fmt.Sprintf("%s%s %s · %s", marker, p.author, p.handle, p.age))
		for _, l := range wrap(p.content, ctx.Width-2) {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, fmt.Sprintf("  %s %d   ✉ %d", heart, p.likes, p.comments), "")
	}
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}

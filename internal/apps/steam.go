package apps

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/opendoor/internal/window"
)

// GameArgs is the payload the store passes to the game window.
type GameArgs struct {
	GameID string `json:"gameId"`
	Title  string `json:"title"`
}

type libraryGame struct {
	id         string
	title      string
	hours      int
	installed  bool
	installing bool
	progress   int
}

type storeItem struct {
	id     string
	title  string
	price  string
	tags   []string
	inCart bool
}

type steamTab int

const (
	tabLibrary steamTab = iota
	tabStore
)

const installStep = 100 * time.Millisecond

type installTick struct{ id string }

type steamView struct {
	tab     steamTab
	library []libraryGame
	store   []storeItem
	cursor  int
	cart    int
}

func newSteam() *steamView {
	return &steamView{
		library: []libraryGame{
			{id: "cs2", title: "Counter-Strike 2", hours: 1240, installed: true},
			{id: "dota2", title: "Dota 2", hours: 2500, installed: true},
			{id: "cyberpunk", title: "Cyberpunk 2077", hours: 45},
			{id: "stardew", title: "Stardew Valley", hours: 80, installed: true},
			{id: "er", title: "Elden Ring", hours: 120},
		},
		store: []storeItem{
			{id: "bg3", title: "Baldur's Gate 3", price: "$59.99", tags: []string{"RPG", "Story Rich"}},
			{id: "h2", title: "Hades II", price: "$29.99", tags: []string{"Action", "Roguelike"}},
			{id: "silksong", title: "Hollow Knight: Silksong", price: "TBA", tags: []string{"Metroidvania", "Indie"}},
			{id: "terraria", title: "Terraria", price: "$9.99", tags: []string{"Sandbox", "Survival"}},
			{id: "mc", title: "Minecraft", price: "$29.99", tags: []string{"Sandbox", "Building"}},
		},
	}
}

func (v *steamView) Init() tea.Cmd { return nil }

func tickInstall(id string) tea.Cmd {
	return tea.Tick(installStep, func(time.Time) tea.Msg { return installTick{id: id} })
}

func (v *steamView) rows() int {
	if v.tab == tabStore {
		return len(v.store)
	}
	return len(v.library)
}

func (v *steamView) Update(msg tea.Msg, ctx Context) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case installTick:
		for i := range v.library {
			g := &v.library[i]
			if g.id != msg.id || !g.installing {
				continue
			}
			g.progress += 5
			if g.progress >= 100 {
				g.installing, g.installed, g.progress = false, true, 0
				return v, nil
			}
			return v, tickInstall(g.id)
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "tab":
			v.tab = 1 - v.tab
			v.cursor = 0
		case "up", "k":
			if v.cursor > 0 {
				v.cursor--
			}
		case "down", "j":
			if v.cursor < v.rows()-1 {
				v.cursor++
			}
		case "enter":
			return v, v.activate()
		}
	}
	return v, nil
}

// activate plays or installs the selected library game, or adds the
// selected store item to the cart.
func (v *steamView) activate() tea.Cmd {
	if v.tab == tabStore {
		item := &v.store[v.cursor]
		if !item.inCart {
			item.inCart = true
			v.cart++
		}
		return nil
	}
	g := &v.library[v.cursor]
	switch {
	case g.installed:
		return launch(window.KindGame, GameArgs{GameID: g.id, Title: g.title})
	case !g.installing:
		g.installing = true
		g.progress = 0
		return tickInstall(g.id)
	}
	return nil
}

func (v *steamView) View(ctx Context) string {
	lib, store := " LIBRARY ", " STORE "
	if v.tab == tabLibrary {
		lib = "[LIBRARY]"
	} else {
		store = "[STORE]"
	}
	lines := []string{fmt.Sprintf("%s %s   cart: %d   (tab switches)", lib, store, v.cart), ""}
	if v.tab == tabLibrary {
		for i, g := range v.library {
			state := "Play"
			switch {
			case g.installing:
				state = fmt.Sprintf("Installing %d%%", g.progress)
			case !g.installed:
				state = "Install"
			}
			lines = append(lines, fmt.Sprintf("%s%-24s %5dh  %s", marker(i == v.cursor), g.title, g.hours, state))
		}
	} else {
		for i, s := range v.store {
			state := "Add to cart"
			if s.inCart {
				state = "In cart"
			}
			lines = append(lines, fmt.Sprintf("%s%-24s %-7s %s  %s", marker(i == v.cursor), s.title, s.price, strings.Join(s.tags, ", "), state))
		}
	}
	return fill(top(lines, ctx.Height), ctx.Width, ctx.Height)
}

func marker(selected bool) string {
	if selected {
		return "> "
	}
	return "  "
}

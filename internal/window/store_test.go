package window

import "testing"

func TestStoreAllReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append(Window{ID: "a", Kind: KindTerminal})

	all := s.All()
	all[0].Title = "mutated"

	got, ok := s.Lookup("a")
	if !ok {
		t.Fatalf("expected window a to exist")
	}
	if got.Title != "" {
		t.Fatalf("store leaked internal slice, title=%q", got.Title)
	}
}

func TestStoreReplaceOneKeepsOrder(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]Window{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	if !s.ReplaceOne(Window{ID: "b", Floating: true}) {
		t.Fatalf("expected ReplaceOne to find b")
	}
	if s.ReplaceOne(Window{ID: "missing"}) {
		t.Fatalf("expected ReplaceOne to report missing id")
	}

	all := s.All()
	if len(all) != 3 || all[1].ID != "b" || !all[1].Floating {
		t.Fatalf("unexpected store contents: %+v", all)
	}
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	s.ReplaceAll([]Window{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	if !s.Remove("a") {
		t.Fatalf("expected Remove to succeed")
	}
	if s.Remove("a") {
		t.Fatalf("expected second Remove to report missing")
	}
	all := s.All()
	if len(all) != 2 || all[0].ID != "b" || all[1].ID != "c" {
		t.Fatalf("unexpected order after remove: %+v", all)
	}
}

func TestStoreReplaceAllIsolatesInput(t *testing.T) {
	in := []Window{{ID: "a"}}
	s := NewStore()
	s.ReplaceAll(in)
	in[0].ID = "z"

	if _, ok := s.Lookup("a"); !ok {
		t.Fatalf("ReplaceAll kept a reference to the caller's slice")
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "terminal", want: KindTerminal},
		{in: " Steam ", want: KindSteam},
		{in: "GAME", want: KindGame},
		{in: "photoshop", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 5, Height: 5}
	if !r.Contains(10, 10) || !r.Contains(14, 14) {
		t.Fatalf("expected corners inside")
	}
	if r.Contains(15, 10) || r.Contains(10, 15) {
		t.Fatalf("expected far edges outside")
	}
}

func TestTiled(t *testing.T) {
	if !(Window{}).Tiled() {
		t.Fatalf("default window should be tiled")
	}
	if (Window{Floating: true}).Tiled() || (Window{Minimized: true}).Tiled() {
		t.Fatalf("floating or minimized windows are not tiled")
	}
	if !(Window{Maximized: true}).Tiled() {
		t.Fatalf("maximized windows stay in the tiled set")
	}
}

package geometry

import "testing"

func TestCellCenter(t *testing.T) {
	g := Grid{
		Origin:   Pos{X: 100, Y: 50},
		Margin:   Pos{X: 20, Y: 20},
		ItemSize: Size{Width: 90, Height: 90},
		Gap:      Size{Width: 10, Height: 10},
	}

	x, y := g.CellCenter(0, 0)
	if x != 100+20+45 || y != 50+20+45 {
		t.Fatalf("CellCenter(0,0) = (%v,%v), want (165,115)", x, y)
	}

	x, y = g.CellCenter(1, 2)
	wantX := float64(100 + 20 + (10+90)*2 + 45)
	wantY := float64(50 + 20 + (10+90)*1 + 45)
	if x != wantX || y != wantY {
		t.Fatalf("CellCenter(1,2) = (%v,%v), want (%v,%v)", x, y, wantX, wantY)
	}
}

func TestRectTranslate(t *testing.T) {
	r := Rect{Left: 1, Top: 2, Width: 3, Height: 4}
	got := r.Translate(Pos{X: 10, Y: 20})
	want := Rect{Left: 11, Top: 22, Width: 3, Height: 4}
	if got != want {
		t.Fatalf("Translate() = %+v, want %+v", got, want)
	}
}

func TestFlagAndPoolRectAbsolute(t *testing.T) {
	g := Grid{
		Origin:   Pos{X: 5, Y: 5},
		FlagRect: Rect{Left: 0, Top: -20, Width: 1, Height: 20},
		PoolRect: Rect{Left: 300, Top: 120, Width: 160, Height: 160},
	}
	if got := g.FlagRectAbsolute(); got != (Rect{Left: 5, Top: -15, Width: 1, Height: 20}) {
		t.Fatalf("FlagRectAbsolute() = %+v", got)
	}
	if got := g.PoolRectAbsolute(); got != (Rect{Left: 305, Top: 125, Width: 160, Height: 160}) {
		t.Fatalf("PoolRectAbsolute() = %+v", got)
	}
}

package dag

import "testing"

func build(t *testing.T, ids []string, edges [][2]string) *DAG {
	t.Helper()
	g := New(nil)
	for _, id := range ids {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestRemoveEdge(t *testing.T) {
	g := build(t, []string{"a", "b"}, [][2]string{{"a", "b"}})
	if !g.RemoveEdge("a", "b") {
		t.Fatal("RemoveEdge(a, b) = false")
	}
	if g.RemoveEdge("a", "b") {
		t.Error("second RemoveEdge should report false")
	}
	if g.EdgeCount() != 0 || len(g.Children("a")) != 0 || len(g.Parents("b")) != 0 {
		t.Errorf("edge still present: edges=%d children=%v parents=%v", g.EdgeCount(), g.Children("a"), g.Parents("b"))
	}
	if err := g.AddEdge(Edge{From: "a", To: "b"}); err != nil || g.EdgeCount() != 1 {
		t.Errorf("re-adding removed edge: %v, count %d", err, g.EdgeCount())
	}
}

func TestBreakCycles(t *testing.T) {
	tests := []struct {
		name    string
		ids     []string
		edges   [][2]string
		removed int
	}{
		{"acyclic", []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}}, 0},
		{"mutual", []string{"root", "x", "y"}, [][2]string{{"root", "x"}, {"x", "y"}, {"y", "x"}}, 1},
		{"self loop", []string{"a"}, [][2]string{{"a", "a"}}, 1},
		{"unreachable ring", []string{"a", "b"}, [][2]string{{"a", "b"}, {"b", "a"}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.ids, tt.edges)
			if got := BreakCycles(g); got != tt.removed {
				t.Errorf("BreakCycles = %d, want %d", got, tt.removed)
			}
			if err := g.Validate(); err != nil {
				t.Errorf("Validate after BreakCycles: %v", err)
			}
		})
	}
}

func TestTransitiveReduction(t *testing.T) {
	// :app declares okhttp and okio; okhttp depends on okio.
	g := build(t,
		[]string{":app", "okhttp", "okio", "kotlin"},
		[][2]string{{":app", "okhttp"}, {":app", "okio"}, {"okhttp", "okio"}, {"okio", "kotlin"}, {"okhttp", "kotlin"}},
	)
	TransitiveReduction(g)

	want := map[[2]string]bool{{":app", "okhttp"}: true, {"okhttp", "okio"}: true, {"okio", "kotlin"}: true}
	if g.EdgeCount() != len(want) {
		t.Errorf("EdgeCount = %d, want %d: %v", g.EdgeCount(), len(want), g.Edges())
	}
	for _, e := range g.Edges() {
		if !want[[2]string{e.From, e.To}] {
			t.Errorf("unexpected edge %s -> %s", e.From, e.To)
		}
	}
}

func TestTransitiveReductionEmpty(t *testing.T) {
	g := New(nil)
	TransitiveReduction(g)
	if g.NodeCount() != 0 {
		t.Error("empty graph changed")
	}
}

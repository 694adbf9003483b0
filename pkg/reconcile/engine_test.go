package reconcile

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/observability"
	"github.com/matzehuels/depsync/pkg/project"
)

func TestDedupAcrossContainers(t *testing.T) {
	app := newModule(":app", "debug", "release", "staging")
	g := newGraph().
		libs(mainOf("debug"), "com.example:lib:1.0").
		libs(mainOf("release"), "com.example:lib:1.0").
		libs(mainOf("staging"), "com.example:lib:1.0", "com.example:lib:1.0")
	d := libDecl("implementation", "com.example:lib:1.0")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{d}}, Options{})

	s, err := e.Store(context.Background(), app)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got := len(s.Libraries()); got != 1 {
		t.Fatalf("libraries = %d, want 1", got)
	}
	n, ok := s.Library("com.example:lib:1.0")
	if !ok {
		t.Fatal("node com.example:lib:1.0 missing")
	}
	if n.ContainerCount() != 3 {
		t.Errorf("containers = %d, want 3", n.ContainerCount())
	}
	if st := n.Statements(); len(st) != 1 || st[0] != project.DeclaredDependency(d) {
		t.Errorf("statements = %v, want the single declaration", st)
	}
	if n.IsPromoted() {
		t.Error("exact match must not be promoted")
	}
}

func TestPromotion(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "com.example:lib:2.0")
	d := libDecl("implementation", "com.example:lib:1.0")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{d}}, Options{})

	s, err := e.Store(context.Background(), app)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if got := len(s.Libraries()); got != 2 {
		t.Fatalf("libraries = %d, want 2", got)
	}

	req, ok := s.Library("com.example:lib:1.0")
	if !ok {
		t.Fatal("requested node missing")
	}
	if !req.IsPromoted() || !req.IsDeclared() {
		t.Errorf("requested node promoted=%v declared=%v, want both", req.IsPromoted(), req.IsDeclared())
	}
	if v, _ := req.DeclaredVersion(); v != "1.0" {
		t.Errorf("DeclaredVersion = %q, want 1.0", v)
	}
	if v, _ := req.ResolvedVersion(); v != "2.0" {
		t.Errorf("ResolvedVersion = %q, want 2.0", v)
	}
	msg, ok := PromotionMessage(req)
	if want := "Version requested: '1.0'. Version resolved: '2.0'."; !ok || msg != want {
		t.Errorf("PromotionMessage = %q, want %q", msg, want)
	}

	res, ok := s.Library("com.example:lib:2.0")
	if !ok {
		t.Fatal("resolved node missing")
	}
	if res.IsDeclared() || res.IsPromoted() {
		t.Errorf("resolved node declared=%v promoted=%v, want neither", res.IsDeclared(), res.IsPromoted())
	}
	if s.Stats().Promotions != 1 {
		t.Errorf("Promotions = %d, want 1", s.Stats().Promotions)
	}
}

func TestWildcardAcceptance(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "com.example:lib:1.9.3")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{libDecl("implementation", "com.example:lib:1.+")}}, Options{})

	s, err := e.Store(context.Background(), app)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	nodes := s.Libraries()
	if len(nodes) != 1 || nodes[0].Key() != "com.example:lib:1.9.3" {
		t.Fatalf("libraries = %v, want only com.example:lib:1.9.3", keys(nodes))
	}
	if nodes[0].IsPromoted() || !nodes[0].IsDeclared() {
		t.Errorf("promoted=%v declared=%v", nodes[0].IsPromoted(), nodes[0].IsDeclared())
	}
}

func TestScenarioUtilVersions(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		keys     []string
		promoted bool
	}{
		{"major wildcard matches", "com.example:util:3.+", []string{"com.example:util:3.2.1"}, false},
		{"micro wildcard promotes", "com.example:util:3.0.+", []string{"com.example:util:3.0.+", "com.example:util:3.2.1"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newModule(":app", "debug", "release")
			g := newGraph().
				libs(mainOf("debug"), "com.example:util:3.2.1").
				libs(mainOf("release"), "com.example:util:3.2.1")
			e := newEngine(t, Config{Graph: g, Declared: fakeIndex{libDecl("implementation", tt.declared)}}, Options{})

			s, err := e.Store(context.Background(), app)
			if err != nil {
				t.Fatalf("Store: %v", err)
			}
			got := keys(s.Libraries())
			if len(got) != len(tt.keys) {
				t.Fatalf("libraries = %v, want %v", got, tt.keys)
			}
			for i := range got {
				if got[i] != tt.keys[i] {
					t.Errorf("libraries[%d] = %s, want %s", i, got[i], tt.keys[i])
				}
			}
			resolved, _ := s.Library("com.example:util:3.2.1")
			if resolved.ContainerCount() != 2 {
				t.Errorf("resolved containers = %d, want 2", resolved.ContainerCount())
			}
			first, _ := s.Library(tt.keys[0])
			if first.IsPromoted() != tt.promoted {
				t.Errorf("%s promoted = %v, want %v", tt.keys[0], first.IsPromoted(), tt.promoted)
			}
		})
	}
}

func TestIncomparableVersions(t *testing.T) {
	tests := []struct {
		name      string
		declared  string
		resolved  string
		bound     bool // declaration bound to the resolved node
		unmatched int
	}{
		{"qualifier identical", "org.hibernate:core:5.4.2.Final", "org.hibernate:core:5.4.2.Final", true, 0},
		{"four segments identical", "com.example:lib:1.0.0.1", "com.example:lib:1.0.0.1", true, 0},
		{"range", "com.example:lib:[1.0,2.0)", "com.example:lib:1.5", false, 1},
		{"four segments differ", "com.example:lib:1.0.0.1", "com.example:lib:1.0.0.2", false, 1},
		{"qualifier differs", "org.hibernate:core:5.4.2.Final", "org.hibernate:core:5.4.3.Final", false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newModule(":app", "debug")
			g := newGraph().libs(mainOf("debug"), tt.resolved)
			var logged int
			e := newEngine(t, Config{Graph: g, Declared: fakeIndex{libDecl("implementation", tt.declared)}},
				Options{Logger: func(string, ...any) { logged++ }})

			s, err := e.Store(context.Background(), app)
			if err != nil {
				t.Fatalf("Store: %v", err)
			}
			nodes := s.Libraries()
			if len(nodes) != 1 || nodes[0].Key() != tt.resolved {
				t.Fatalf("libraries = %v, want only %s", keys(nodes), tt.resolved)
			}
			n := nodes[0]
			if n.IsDeclared() != tt.bound {
				t.Errorf("declared = %v, want %v", n.IsDeclared(), tt.bound)
			}
			if n.IsPromoted() {
				t.Error("incomparable versions must not promote")
			}
			if _, ok := PromotionMessage(n); ok {
				t.Error("unexpected promotion message")
			}
			st := s.Stats()
			if st.Promotions != 0 || st.UnmatchedVersions != tt.unmatched {
				t.Errorf("promotions = %d, unmatched = %d, want 0 and %d", st.Promotions, st.UnmatchedVersions, tt.unmatched)
			}
			if logged != tt.unmatched {
				t.Errorf("logged %d messages, want %d", logged, tt.unmatched)
			}
		})
	}
}

func TestProgressReachesTotal(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "com.example:a:1.0", "com.example:b:1.0", "com.example:c:1.0")
	var calls [][3]any
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Metadata: MapReader{}}, Options{
		Workers: 2,
		Progress: func(module string, done, total int) {
			calls = append(calls, [3]any{module, done, total})
		},
	})

	if _, err := e.Store(context.Background(), app); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if len(calls) != 3 {
		t.Fatalf("progress calls = %v, want 3", calls)
	}
	for i, c := range calls {
		if c[0] != ":app" || c[1] != i+1 || c[2] != 3 {
			t.Errorf("call %d = %v, want [:app %d 3]", i, c, i+1)
		}
	}
}

func TestTransitiveClosure(t *testing.T) {
	app := newModule(":app", "debug", "release")
	g := newGraph().
		libs(mainOf("debug"), "com.example:a:1.0", "com.example:b:1.0", "com.example:c:2.1").
		libs(mainOf("release"), "com.example:a:1.0", "com.example:b:1.0", "com.example:c:2.1")
	meta := MapReader{
		"com.example:a:1.0": specs("com.example:b:1.0", "com.example:c:2.0", "com.example:missing:1.0", "com.example:b:1.0"),
	}
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Metadata: meta}, Options{})
	ctx := context.Background()

	a, ok, err := e.FindLibrary(ctx, app, "com.example:a:1.0")
	if err != nil || !ok {
		t.Fatalf("FindLibrary(a) = %v, %v", ok, err)
	}
	deps, err := e.TransitiveDependencies(ctx, app, a)
	if err != nil {
		t.Fatalf("TransitiveDependencies: %v", err)
	}
	got := keys(deps)
	want := []string{"com.example:b:1.0", "com.example:c:2.1"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("TransitiveDependencies(a) = %v, want %v", got, want)
	}
}

func TestTransitiveAmbiguousFamily(t *testing.T) {
	app := newModule(":app", "debug", "release")
	g := newGraph().
		libs(mainOf("debug"), "com.example:a:1.0", "com.example:b:1.0").
		libs(mainOf("release"), "com.example:a:1.0", "com.example:b:1.1")
	meta := MapReader{"com.example:a:1.0": specs("com.example:b:0.9")}
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Metadata: meta}, Options{})

	s, err := e.Store(context.Background(), app)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	a, _ := s.Library("com.example:a:1.0")
	if deps := s.TransitiveDependencies(a); len(deps) != 0 {
		t.Errorf("ambiguous spec resolved to %v, want none", keys(deps))
	}
}

func TestModuleDedup(t *testing.T) {
	app := newModule(":app", "debug", "release")
	g := newGraph().
		mods(mainOf("debug"), project.ModuleDependency{Path: ":lib", Variant: "debug"}).
		mods(mainOf("release"), project.ModuleDependency{Path: ":lib", Variant: "release"}).
		mods(mainOf("release"), project.ModuleDependency{Path: ":gone"})
	d := modDecl("implementation", ":lib")
	var logged []string
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{d}, Modules: fakeDir{":lib": "lib"}},
		Options{Logger: func(format string, _ ...any) { logged = append(logged, format) }})
	ctx := context.Background()

	lib, ok, err := e.FindModule(ctx, app, ":lib")
	if err != nil || !ok {
		t.Fatalf("FindModule(:lib) = %v, %v", ok, err)
	}
	if lib.ContainerCount() != 2 {
		t.Errorf("containers = %d, want 2", lib.ContainerCount())
	}
	if !lib.IsDeclared() || lib.IsDangling() {
		t.Errorf("declared=%v dangling=%v", lib.IsDeclared(), lib.IsDangling())
	}
	if v := lib.TargetVariants(); len(v) != 2 {
		t.Errorf("TargetVariants = %v, want debug and release", v)
	}

	gone, ok, _ := e.FindModule(ctx, app, ":gone")
	if !ok || !gone.IsDangling() {
		t.Errorf("FindModule(:gone) ok=%v, want dangling node", ok)
	}
	if len(logged) != 1 {
		t.Errorf("logged %d messages, want 1 for the dangling module", len(logged))
	}
	st, _ := e.Stats(ctx, app)
	if st.DanglingModules != 1 || st.Modules != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestDeclareLibraryIdempotent(t *testing.T) {
	app := newModule(":app", "debug", "release")
	g := newGraph().libs(mainOf("debug"), "com.example:other:1.0")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}}, Options{})
	ctx := context.Background()

	c := coord.MustParse("com.example:lib:1.0")
	d := libDecl("implementation", "com.example:lib:1.0")

	first, err := e.DeclareLibrary(ctx, app, c, []project.Container{mainOf("debug")}, d)
	if err != nil {
		t.Fatalf("DeclareLibrary: %v", err)
	}
	second, err := e.DeclareLibrary(ctx, app, c, []project.Container{mainOf("debug"), mainOf("release")}, d)
	if err != nil {
		t.Fatalf("DeclareLibrary: %v", err)
	}
	if first != second {
		t.Fatal("second DeclareLibrary created a new node")
	}
	if len(second.Statements()) != 1 {
		t.Errorf("statements = %d, want 1", len(second.Statements()))
	}
	if second.ContainerCount() != 2 {
		t.Errorf("containers = %d, want 2", second.ContainerCount())
	}

	s, _ := e.Store(ctx, app)
	if got := len(s.Libraries()); got != 2 {
		t.Errorf("libraries = %d, want 2", got)
	}
	if g.calls != 2 {
		t.Errorf("resolve calls = %d, want 2 (one build)", g.calls)
	}
}

func TestDeclareModuleBindsExisting(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().mods(mainOf("debug"), project.ModuleDependency{Path: ":lib"})
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Modules: fakeDir{":lib": "lib"}}, Options{})
	ctx := context.Background()

	d := modDecl("implementation", ":lib")
	n, err := e.DeclareModule(ctx, app, ":lib", nil, d)
	if err != nil {
		t.Fatalf("DeclareModule: %v", err)
	}
	if !n.IsDeclared() || n.ContainerCount() != 1 {
		t.Errorf("declared=%v containers=%d", n.IsDeclared(), n.ContainerCount())
	}
}

func TestDeclareWithoutContainers(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().
		libs(mainOf("debug"), "com.example:lib:1.0").
		mods(mainOf("debug"), project.ModuleDependency{Path: ":lib"})
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Modules: fakeDir{":lib": "lib", ":other": "other"}}, Options{})
	ctx := context.Background()

	tests := []struct {
		name    string
		declare func() (*Node, error)
		wantErr bool
	}{
		{"new library", func() (*Node, error) {
			return e.DeclareLibrary(ctx, app, coord.MustParse("com.example:new:1.0"), nil, libDecl("releaseImplementation", "com.example:new:1.0"))
		}, true},
		{"new module", func() (*Node, error) {
			return e.DeclareModule(ctx, app, ":other", nil, modDecl("releaseImplementation", ":other"))
		}, true},
		{"existing library", func() (*Node, error) {
			return e.DeclareLibrary(ctx, app, coord.MustParse("com.example:lib:1.0"), nil, libDecl("releaseImplementation", "com.example:lib:1.0"))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.declare()
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidInput) {
					t.Errorf("err = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("declare: %v", err)
			}
			if n.ContainerCount() != 1 {
				t.Errorf("containers = %d, want 1", n.ContainerCount())
			}
		})
	}

	err := e.ForEachDependency(ctx, app, func(n *Node) {
		if n.ContainerCount() == 0 {
			t.Errorf("%s has no container", n.Key())
		}
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestMalformedCoordinateSkipped(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "not a coordinate", "com.example:lib:1.0", "only:two")
	var logged int
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}},
		Options{Logger: func(string, ...any) { logged++ }})

	s, err := e.Store(context.Background(), app)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if len(s.Libraries()) != 1 {
		t.Errorf("libraries = %v", keys(s.Libraries()))
	}
	if s.Stats().SkippedMalformed != 2 || logged != 2 {
		t.Errorf("skipped = %d, logged = %d, want 2", s.Stats().SkippedMalformed, logged)
	}
}

func TestCollaboratorFailure(t *testing.T) {
	app := newModule(":app", "debug")
	boom := stderrors.New("gradle model unavailable")
	g := newGraph().libs(mainOf("debug"), "com.example:lib:1.0")
	g.err = boom
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}}, Options{})
	ctx := context.Background()

	_, err := e.Store(ctx, app)
	if !errors.Is(err, errors.ErrCodeCollaborator) {
		t.Fatalf("err = %v, want COLLABORATOR_FAILURE", err)
	}
	if !stderrors.Is(err, boom) {
		t.Error("collaborator error should be preserved in the chain")
	}

	g.err = nil
	if _, ok, err := e.FindLibrary(ctx, app, "com.example:lib:1.0"); err != nil || !ok {
		t.Errorf("retry after failure: ok=%v err=%v", ok, err)
	}
}

func TestMetadataFailure(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "com.example:lib:1.0")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}, Metadata: failingReader{}}, Options{})

	if _, err := e.Store(context.Background(), app); !errors.Is(err, errors.ErrCodeCollaborator) {
		t.Errorf("err = %v, want COLLABORATOR_FAILURE", err)
	}
}

func TestInvalidateRebuilds(t *testing.T) {
	app := newModule(":app", "debug")
	g := newGraph().libs(mainOf("debug"), "com.example:lib:1.0")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{}}, Options{})
	ctx := context.Background()

	if _, ok, _ := e.FindLibrary(ctx, app, "com.example:lib:1.0"); !ok {
		t.Fatal("lib missing before invalidate")
	}
	g.resolved[mainOf("debug")] = project.Resolved{Libraries: []string{"com.example:lib:1.1"}}

	if _, ok, _ := e.FindLibrary(ctx, app, "com.example:lib:1.1"); ok {
		t.Fatal("store must not change before Invalidate")
	}
	e.Invalidate(app)
	if _, ok, _ := e.FindLibrary(ctx, app, "com.example:lib:1.1"); !ok {
		t.Error("lib 1.1 missing after Invalidate")
	}
	if g.calls != 2 {
		t.Errorf("resolve calls = %d, want 2", g.calls)
	}
}

func TestFindLibraryFamily(t *testing.T) {
	tests := []struct {
		name   string
		debug  string
		decl   string
		query  string
		wantOK bool
		want   string
	}{
		{"unique family", "com.example:lib:2.0", "", "com.example:lib", true, "com.example:lib:2.0"},
		{"promotion prefers resolved", "com.example:lib:2.0", "com.example:lib:1.0", "com.example:lib", true, "com.example:lib:2.0"},
		{"exact declared key", "com.example:lib:2.0", "com.example:lib:1.0", "com.example:lib:1.0", true, "com.example:lib:1.0"},
		{"ambiguous", "com.example:lib:2.0", "", "com.example:lib", false, ""},
		{"unknown", "com.example:lib:2.0", "", "com.example:nope", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newModule(":app", "debug", "release")
			g := newGraph().libs(mainOf("debug"), tt.debug)
			if tt.name == "ambiguous" {
				g.libs(mainOf("release"), "com.example:lib:2.1")
			}
			var idx fakeIndex
			if tt.decl != "" {
				idx = append(idx, libDecl("implementation", tt.decl))
			}
			e := newEngine(t, Config{Graph: g, Declared: idx}, Options{})

			n, ok, err := e.FindLibrary(context.Background(), app, tt.query)
			if err != nil {
				t.Fatalf("FindLibrary: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && n.Key() != tt.want {
				t.Errorf("node = %s, want %s", n.Key(), tt.want)
			}
		})
	}
}

func TestFindLibraryMalformedQuery(t *testing.T) {
	app := newModule(":app", "debug")
	e := newEngine(t, Config{Graph: newGraph(), Declared: fakeIndex{}}, Options{})
	_, _, err := e.FindLibrary(context.Background(), app, "no")
	if !errors.Is(err, errors.ErrCodeMalformedCoordinate) {
		t.Errorf("err = %v, want MALFORMED_COORDINATE", err)
	}
}

func TestConfigurationScoping(t *testing.T) {
	app := newModule(":app", "debug")
	app.artifacts = []project.ArtifactRef{project.ArtifactMain, project.ArtifactUnitTest}
	unit := project.Container{Variant: "debug", Artifact: project.ArtifactUnitTest}
	g := newGraph().
		libs(mainOf("debug"), "junit:junit:4.13").
		libs(unit, "junit:junit:4.13")
	d := libDecl("testImplementation", "junit:junit:4.13")
	e := newEngine(t, Config{Graph: g, Declared: fakeIndex{d}}, Options{})

	n, ok, err := e.FindLibrary(context.Background(), app, "junit:junit:4.13")
	if err != nil || !ok {
		t.Fatalf("FindLibrary = %v, %v", ok, err)
	}
	if n.ContainerCount() != 2 || !n.IsDeclared() {
		t.Errorf("containers=%d declared=%v", n.ContainerCount(), n.IsDeclared())
	}

	var declared int
	_ = e.ForEachDeclaredDependency(context.Background(), app, func(*Node) { declared++ })
	if declared != 1 {
		t.Errorf("declared nodes = %d, want 1", declared)
	}
}

func TestStoreEviction(t *testing.T) {
	app := newModule(":app", "debug")
	lib := newModule(":lib", "debug")
	hooks := &recordingHooks{}
	observability.SetReconcileHooks(hooks)
	defer observability.Reset()

	e := newEngine(t, Config{Graph: newGraph(), Declared: fakeIndex{}}, Options{MaxStores: 1})
	ctx := context.Background()
	if _, err := e.Store(ctx, app); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Store(ctx, lib); err != nil {
		t.Fatal(err)
	}
	if got := e.Resident(); len(got) != 1 || got[0] != ":lib" {
		t.Errorf("Resident = %v, want [:lib]", got)
	}
	if hooks.builds != 2 || len(hooks.invalidated) != 1 || hooks.invalidated[0] != ":app" {
		t.Errorf("hooks = %+v", hooks)
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}, Options{}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestWalkCancelled(t *testing.T) {
	app := newModule(":app", "debug")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := newEngine(t, Config{Graph: newGraph(), Declared: fakeIndex{}}, Options{})
	if _, err := e.Store(ctx, app); !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key()
	}
	return out
}

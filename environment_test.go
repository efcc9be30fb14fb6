package environment

import (
	"math"
	"slices"
	"testing"
)

func TestNew_DefaultsWithoutOverrides(t *testing.T) {
	env := New(Defaults{
		"NODE_ENV": Default(String("development")),
		"MY_BOOL":  Default(Bool(true)),
		"MY_FLOAT": Default(Number(1.0)),
		"MY_ARRAY": Default(List("a", "b", "c")),
	}, WithSource(MapSource{}))

	if s, _ := env.Value("NODE_ENV").Str(); s != "development" {
		t.Fatalf("NODE_ENV: got %q, want %q", s, "development")
	}
	if b, ok := env.Value("MY_BOOL").Truth(); !ok || !b {
		t.Fatalf("MY_BOOL: got %v (bool=%v), want true", b, ok)
	}
	if n, ok := env.Value("MY_FLOAT").Num(); !ok || n != 1.0 {
		t.Fatalf("MY_FLOAT: got %v (number=%v), want 1", n, ok)
	}
	if items, ok := env.Value("MY_ARRAY").Items(); !ok || !slices.Equal(items, []string{"a", "b", "c"}) {
		t.Fatalf("MY_ARRAY: got %v (list=%v), want [a b c]", items, ok)
	}
}

func TestNew_CoercesOverridesToDefaultKind(t *testing.T) {
	src := MapSource{
		"MY_BOOL_TRUE":  "true",
		"MY_BOOL_FALSE": "false",
		"MY_BOOL_YES":   "yes",
		"MY_FLOAT":      "1.2",
		"MY_INT":        "2",
		"MY_ARR":        "a, b, c",
	}
	env := New(Defaults{
		"MY_BOOL_TRUE":  Default(Bool(true)),
		"MY_BOOL_FALSE": Default(Bool(false)),
		"MY_BOOL_YES":   Default(Bool(true)),
		"MY_FLOAT":      Default(Number(1.2)),
		"MY_INT":        Default(Int(2)),
		"MY_ARR":        Default(List("a", "b", "c")),
	}, WithSource(src))

	want := map[string]Value{
		"MY_BOOL_TRUE":  Bool(true),
		"MY_BOOL_FALSE": Bool(false),
		"MY_BOOL_YES":   Bool(true),
		"MY_FLOAT":      Number(1.2),
		"MY_INT":        Int(2),
		"MY_ARR":        List("a", "b", "c"),
	}
	for name, w := range want {
		if got := env.Value(name); !got.Equal(w) {
			t.Fatalf("%s: got %v (%s), want %v (%s)", name, got, got.Kind(), w, w.Kind())
		}
	}
}

func TestNew_OverridePrecedence(t *testing.T) {
	env := New(Defaults{
		"MY_STRING":  Default(String("original")),
		"MY_STRING2": Default(String("original")),
	}, WithSource(MapSource{"MY_STRING": "override"}))

	if s, _ := env.Value("MY_STRING").Str(); s != "override" {
		t.Fatalf("MY_STRING: got %q, want %q", s, "override")
	}
	if s, _ := env.Value("MY_STRING2").Str(); s != "original" {
		t.Fatalf("MY_STRING2: got %q, want %q", s, "original")
	}
}

func TestNew_EmptyOverrideIsPresent(t *testing.T) {
	env := New(Defaults{
		"S": Default(String("default")),
		"N": Default(Int(5)),
	}, WithSource(MapSource{"S": "", "N": ""}))

	if s, _ := env.Value("S").Str(); s != "" {
		t.Fatalf("S: got %q, want empty override", s)
	}
	if n, ok := env.Value("N").Num(); !ok || !math.IsNaN(n) {
		t.Fatalf("N: got %v, want NaN", n)
	}
}

func TestNew_ReadsProcessEnvironmentByDefault(t *testing.T) {
	t.Setenv("ENVIRONMENT_TEST_PORT", "9090")

	env := New(Defaults{"ENVIRONMENT_TEST_PORT": Default(Int(8080))})
	if n, _ := env.Value("ENVIRONMENT_TEST_PORT").Num(); n != 9090 {
		t.Fatalf("port: got %v, want 9090", n)
	}
}

func TestNew_SnapshotIsolatedFromInput(t *testing.T) {
	defs := Defaults{"A": Default(String("a"))}
	env := New(defs, WithSource(MapSource{}))
	defs["B"] = Default(String("b"))
	delete(defs, "A")

	if !slices.Equal(env.Names(), []string{"A"}) {
		t.Fatalf("Names: got %v, want [A]", env.Names())
	}
	got := env.Defaults()
	got["C"] = Default(String("c"))
	if _, ok := env.Defaults()["C"]; ok {
		t.Fatalf("Defaults must return a copy")
	}
}

func TestNew_NilDefaults(t *testing.T) {
	env := New(nil, WithSource(MapSource{}))
	if len(env.Names()) != 0 || len(env.Variables()) != 0 {
		t.Fatalf("nil defaults must yield an empty environment")
	}
	if err := env.Check(); err != nil {
		t.Fatalf("Check on empty environment: %v", err)
	}
}

func TestGet(t *testing.T) {
	env := New(Defaults{"A": Default(Int(1))}, WithSource(MapSource{}))
	if v, ok := env.Get("A"); !ok || !v.Equal(Int(1)) {
		t.Fatalf("Get(A): got %v %v", v, ok)
	}
	if _, ok := env.Get("MISSING"); ok {
		t.Fatalf("Get(MISSING) must report false")
	}
	if v := env.Value("MISSING"); !v.Equal(Value{}) {
		t.Fatalf("Value(MISSING): got %v, want zero Value", v)
	}
}

func TestVariables(t *testing.T) {
	src := MapSource{"SET": "x", "REQ_SET": "y"}
	env := New(Defaults{
		"UNSET":     Default(String("d")),
		"SET":       Default(String("d")),
		"REQ_SET":   Required(String("d")),
		"REQ_UNSET": Required(String("d")),
	}, WithSource(src))

	want := map[string]VariableInfo{
		"UNSET":     {Value: String("d"), Required: false, Exists: false},
		"SET":       {Value: String("x"), Required: false, Exists: true},
		"REQ_SET":   {Value: String("y"), Required: true, Exists: true},
		"REQ_UNSET": {Value: String("d"), Required: true, Exists: false},
	}

	for i := 0; i < 2; i++ { // repeated calls agree
		got := env.Variables()
		if len(got) != len(want) {
			t.Fatalf("len: got %d, want %d", len(got), len(want))
		}
		for name, w := range want {
			g, ok := got[name]
			if !ok {
				t.Fatalf("%s missing from Variables", name)
			}
			if !g.Value.Equal(w.Value) || g.Required != w.Required || g.Exists != w.Exists {
				t.Fatalf("%s: got %+v, want %+v", name, g, w)
			}
		}
	}
}

func TestVariableList_DeclaredOrder(t *testing.T) {
	env := New(Defaults{
		"C": Default(String("c")),
		"A": Default(String("a")),
		"B": Default(String("b")),
	}, WithSource(MapSource{}))

	var names []string
	for _, v := range env.VariableList() {
		names = append(names, v.Name)
	}
	if !slices.Equal(names, []string{"A", "B", "C"}) {
		t.Fatalf("order: got %v, want [A B C]", names)
	}
}

func TestVariables_ExistsObservedAtCallTime(t *testing.T) {
	src := MapSource{}
	env := New(Defaults{"LATE": Default(String("d"))}, WithSource(src))

	src["LATE"] = "now"
	info := env.Variables()["LATE"]
	if !info.Exists {
		t.Fatalf("Exists: got false, want true after the source changed")
	}
	if s, _ := info.Value.Str(); s != "d" {
		t.Fatalf("Value must stay resolved at construction, got %q", s)
	}
}

func TestSourceFunc(t *testing.T) {
	calls := 0
	src := SourceFunc(func(name string) (string, bool) {
		calls++
		if name == "A" {
			return "from func", true
		}
		return "", false
	})
	env := New(Defaults{"A": Default(String("a")), "B": Default(String("b"))}, WithSource(src))
	if s, _ := env.Value("A").Str(); s != "from func" {
		t.Fatalf("A: got %q", s)
	}
	if calls != 2 {
		t.Fatalf("construction must look each name up once, got %d calls", calls)
	}
}

func TestOptions(t *testing.T) {
	env := New(nil)
	if env.dirMode != defaultDirMode {
		t.Fatalf("dirMode: got %v, want %v", env.dirMode, defaultDirMode)
	}
	if env.source == nil {
		t.Fatalf("source must default to the process environment")
	}
	if env.streams != nil {
		t.Fatalf("streams must be nil by default")
	}

	env = New(nil, WithDirMode(0o700), WithConcurrency(3))
	if env.dirMode != 0o700 {
		t.Fatalf("dirMode: got %v, want 0700", env.dirMode)
	}
	if env.concurrency != 3 {
		t.Fatalf("concurrency: got %d, want 3", env.concurrency)
	}
}

func TestOptions_Panics(t *testing.T) {
	tests := []struct {
		name string
		opt  func() Option
	}{
		{"WithSource nil", func() Option { return WithSource(nil) }},
		{"WithDirMode zero", func() Option { return WithDirMode(0) }},
		{"WithConcurrency negative", func() Option { return WithConcurrency(-1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatalf("expected panic, got none")
				}
			}()
			_ = New(nil, tt.opt())
		})
	}
}

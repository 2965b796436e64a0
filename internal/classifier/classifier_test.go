package classifier

import (
	"go/ast"
	"go/parser"
	"testing"

	"github.com/seitarof/optionalize/internal/schema"
)

func TestClassify_Verdicts(t *testing.T) {
	st := &schema.Struct{
		Name:       "Page",
		Kind:       schema.KindStruct,
		TypeParams: []schema.TypeParam{{Name: "T", Constraint: mustExpr(t, "any")}},
	}

	tests := []struct {
		name            string
		typ             string
		markers         []string
		ignored         bool
		alreadyOptional bool
		hasCounterpart  bool
	}{
		{name: "scalar", typ: "int32"},
		{name: "string", typ: "string"},
		{name: "time", typ: "time.Time"},
		{name: "local struct", typ: "Address", hasCounterpart: true},
		{name: "qualified struct", typ: "geo.Point", hasCounterpart: true},
		{name: "generic instantiation", typ: "List[int]", hasCounterpart: true},
		{name: "option", typ: "Option[string]", alreadyOptional: true},
		{name: "qualified option", typ: "optional.Option[string]", alreadyOptional: true},
		{name: "parenthesised option", typ: "(optional.Option[int])", alreadyOptional: true},
		{name: "pointer to option is not optional", typ: "*optional.Option[int]"},
		{name: "pointer", typ: "*Address"},
		{name: "slice", typ: "[]Address"},
		{name: "array", typ: "[2]Address"},
		{name: "map", typ: "map[string]Address"},
		{name: "func", typ: "func()"},
		{name: "anonymous struct", typ: "struct{ A int }"},
		{name: "type parameter", typ: "T"},
		{name: "alias of option is not recognised", typ: "MaybeString", hasCounterpart: true},
		{name: "ignored", typ: "Address", markers: []string{"ignore"}, ignored: true},
		{name: "ignored option", typ: "optional.Option[int]", markers: []string{"ignore"}, ignored: true, alreadyOptional: true},
		{name: "marker must match exactly", typ: "int", markers: []string{"ignored", "Ignore"}},
	}

	c := New(DefaultPolicy())
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := schema.Field{Name: "F", Type: mustExpr(t, tc.typ), Markers: tc.markers}
			got := c.Classify(st, f)
			if got.Ignored != tc.ignored {
				t.Fatalf("Ignored = %v, want %v", got.Ignored, tc.ignored)
			}
			if got.AlreadyOptional != tc.alreadyOptional {
				t.Fatalf("AlreadyOptional = %v, want %v", got.AlreadyOptional, tc.alreadyOptional)
			}
			if got.HasCounterpart != tc.hasCounterpart {
				t.Fatalf("HasCounterpart = %v, want %v", got.HasCounterpart, tc.hasCounterpart)
			}
		})
	}
}

func TestClassify_Idempotent(t *testing.T) {
	c := New(DefaultPolicy())
	st := &schema.Struct{Name: "User", Kind: schema.KindStruct}
	f := schema.Field{Name: "Address", Type: mustExpr(t, "Address"), Markers: []string{"x"}}

	first := c.Classify(st, f)
	second := c.Classify(st, f)
	if first.Ignored != second.Ignored ||
		first.AlreadyOptional != second.AlreadyOptional ||
		first.HasCounterpart != second.HasCounterpart ||
		first.Field.Name != second.Field.Name {
		t.Fatalf("classification is not stable: %#v vs %#v", first, second)
	}
}

func TestClassifyAll_PreservesOrder(t *testing.T) {
	c := New(DefaultPolicy())
	st := &schema.Struct{
		Name: "User",
		Kind: schema.KindStruct,
		Fields: []schema.Field{
			{Name: "C", Type: mustExpr(t, "int")},
			{Name: "A", Type: mustExpr(t, "int")},
			{Name: "B", Type: mustExpr(t, "int")},
		},
	}

	got := c.ClassifyAll(st)
	want := []string{"C", "A", "B"}
	for i, name := range want {
		if got[i].Field.Name != name {
			t.Fatalf("order[%d] = %s, want %s", i, got[i].Field.Name, name)
		}
	}
}

func TestPolicy_WithScalarsAndCustomMarker(t *testing.T) {
	p := DefaultPolicy().WithScalars("UUID", " ", "int")
	p.IgnoreMarker = "skip"
	c := New(p)
	st := &schema.Struct{Name: "User", Kind: schema.KindStruct}

	got := c.Classify(st, schema.Field{Name: "ID", Type: mustExpr(t, "uuid.UUID")})
	if got.HasCounterpart {
		t.Fatal("UUID should be treated as scalar")
	}
	got = c.Classify(st, schema.Field{Name: "ID", Type: mustExpr(t, "int"), Markers: []string{"skip"}})
	if !got.Ignored {
		t.Fatal("custom marker should ignore field")
	}
	got = c.Classify(st, schema.Field{Name: "ID", Type: mustExpr(t, "int"), Ignore: true})
	if !got.Ignored {
		t.Fatal("ignore flag should hold under a custom marker")
	}
	got = c.Classify(st, schema.Field{Name: "ID", Type: mustExpr(t, "int"), Markers: []string{"ignore"}})
	if got.Ignored {
		t.Fatal("default marker should not ignore once a custom marker is set")
	}
	if n := len(p.Scalars) - len(DefaultScalars()); n != 1 {
		t.Fatalf("expected exactly one added scalar, got %d", n)
	}
	if len(DefaultPolicy().Scalars) != len(DefaultScalars()) {
		t.Fatal("WithScalars must not modify the receiver's list")
	}
}

func TestOutermostIdent(t *testing.T) {
	tests := map[string]string{
		"Option[int]":            "Option",
		"optional.Option[int]":   "Option",
		"pair.Pair[int, string]": "Pair",
		"Name":                   "Name",
	}
	for src, want := range tests {
		got, ok := OutermostIdent(mustExpr(t, src))
		if !ok || got != want {
			t.Fatalf("OutermostIdent(%s) = %q, %v; want %q", src, got, ok, want)
		}
	}
	if _, ok := OutermostIdent(mustExpr(t, "*Name")); ok {
		t.Fatal("pointer should have no outermost identifier")
	}
	if _, ok := OutermostIdent(nil); ok {
		t.Fatal("nil expression should have no outermost identifier")
	}
}

func mustExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	expr, err := parser.ParseExpr(src)
	if err != nil {
		t.Fatalf("ParseExpr(%q) error = %v", src, err)
	}
	return expr
}

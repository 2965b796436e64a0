package generator

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seitarof/optionalize/internal/classifier"
	"github.com/seitarof/optionalize/internal/resolver"
	"github.com/seitarof/optionalize/internal/schema"
)

const modelSchema = `
package: model
pkgPath: example.com/model
imports:
  optional: github.com/seitarof/optionalize/pkg/optional
  geo: example.com/geo
structs:
  - name: User
    fields:
      - name: ID
        type: int64
        tag: 'json:"id" optionalize:"ignore"'
        ignore: true
      - name: Name
        type: string
        tag: 'json:"name"'
      - name: Nick
        type: optional.Option[string]
      - name: Home
        type: Address
      - name: Spot
        type: geo.Point
      - name: Pages
        type: Page[int]
      - name: Rev
        type: optional.Option[int]
        tag: 'json:"rev" db:"rev_col" optionalize:"ignore"'
        ignore: true
  - name: Page
    typeParams:
      - name: T
    fields:
      - name: Items
        type: '[]T'
      - name: Next
        type: optional.Option[string]
`

type testConfig struct {
	filename string
}

func (c testConfig) OutputFilename() string { return c.filename }

type recordingWriter struct {
	calls int
}

func (w *recordingWriter) Write(_ string, _ []byte) error {
	w.calls++
	return nil
}

type failingFormatter struct{}

func (failingFormatter) Format(_ string, _ []byte) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestRender_SimpleMode(t *testing.T) {
	file, plans := resolveSchema(t, resolver.ModeSimple)
	g := New(NewGoimportsFormatter(), NewFileWriter(), Options{})

	b, err := g.Render(file, plans)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := normalize(string(b))

	for _, want := range []string{
		"// Code generated by optionalize. DO NOT EDIT.",
		"package model",
		"type UserOptional struct {",
		"ID int64 `json:\"id\"`",
		"Name optional.Option[string] `json:\"name\"`",
		"Nick optional.Option[string]",
		"Home optional.Option[AddressOptional]",
		"Spot optional.Option[geo.PointOptional]",
		"Pages optional.Option[PageOptional[int]]",
		"Rev optional.Option[int] `json:\"rev\" db:\"rev_col\"`",
		"func (User) OptionalType() UserOptional { return UserOptional{} }",
		"var _ optionalize.Optionalizer[UserOptional] = User{}",
		"type PageOptional[T any] struct {",
		"Items optional.Option[[]T]",
		"Next optional.Option[string]",
		"func (Page[T]) OptionalType() PageOptional[T] { return PageOptional[T]{} }",
	} {
		if !strings.Contains(got, normalize(want)) {
			t.Fatalf("generated code should contain %q:\n%s", want, b)
		}
	}
	if strings.Contains(got, "ToActive") {
		t.Fatalf("simple mode should not emit a conversion:\n%s", b)
	}
	if strings.Contains(got, "optional.Option[optional.Option") {
		t.Fatalf("optional fields should not be wrapped twice:\n%s", b)
	}
	if strings.Contains(got, "Optionalizer[PageOptional") {
		t.Fatalf("generic structs should not get an interface assertion:\n%s", b)
	}
}

func TestRender_ActiveMode(t *testing.T) {
	file, plans := resolveSchema(t, resolver.ModeActive)
	g := New(NewGoimportsFormatter(), NewFileWriter(), Options{ActivePkg: DefaultActivePkg})

	b, err := g.Render(file, plans)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := normalize(string(b))

	for _, want := range []string{
		"Home optional.Option[Address]",
		"Spot optional.Option[geo.Point]",
		"func (o UserOptional) ToActive() ActiveModel {",
		"var m ActiveModel",
		"m.ID = activevalue.Unchanged(o.ID)",
		`if v, ok := o.Name.Get(); ok {
			m.Name = activevalue.Set(v)
		} else {
			m.Name = activevalue.NotSet[string]()
		}`,
		`if v, ok := o.Nick.Get(); ok {
			m.Nick = activevalue.Set(optional.Some(v))
		} else {
			m.Nick = activevalue.NotSet[optional.Option[string]]()
		}`,
		"m.Pages = activevalue.NotSet[Page[int]]()",
		"m.Rev = activevalue.Unchanged(o.Rev)",
		"return m }",
		"func (o PageOptional[T]) ToActive() ActiveModel {",
		"m.Items = activevalue.NotSet[[]T]()",
	} {
		if !strings.Contains(got, normalize(want)) {
			t.Fatalf("generated code should contain %q:\n%s", want, b)
		}
	}
	if strings.Contains(got, "AddressOptional") {
		t.Fatalf("active mode should not rewrite counterparts:\n%s", b)
	}
	for _, unwanted := range []string{"o.Rev.Get()", "m.Rev = activevalue.Set", "Option[optional.Option[int]]"} {
		if strings.Contains(got, unwanted) {
			t.Fatalf("ignored optional field should pass through unchanged, found %q:\n%s", unwanted, b)
		}
	}
}

func TestRender_CustomActiveModel(t *testing.T) {
	file, plans := resolveSchema(t, resolver.ModeActive)
	g := New(NewGoimportsFormatter(), NewFileWriter(), Options{ActiveModel: "Patch"})

	b, err := g.Render(file, plans)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	got := normalize(string(b))
	if !strings.Contains(got, "func (o UserOptional) ToActive() Patch {") {
		t.Fatalf("custom active model not used:\n%s", b)
	}
	if !strings.Contains(got, "m.ID = Unchanged(o.ID)") {
		t.Fatalf("an empty active package should refer to local helpers:\n%s", b)
	}
}

func TestRender_Errors(t *testing.T) {
	g := New(NewGoimportsFormatter(), NewFileWriter(), Options{})

	if _, err := g.Render(nil, nil); err == nil || !strings.Contains(err.Error(), "no target package") {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.Render(&schema.File{Package: "model"}, nil); err == nil || !strings.Contains(err.Error(), "no struct plans") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerate_WritesFile(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "user_optional_gen.go")
	file, plans := resolveSchema(t, resolver.ModeSimple)

	g := New(NewGoimportsFormatter(), NewFileWriter(), Options{})
	if err := g.Generate(testConfig{filename: filename}, file, plans); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	b, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	got := string(b)
	if !strings.HasPrefix(got, "// Code generated by optionalize. DO NOT EDIT.") {
		t.Fatalf("generated file should start with the header: %s", got)
	}
	if !strings.Contains(got, `"github.com/seitarof/optionalize/pkg/optional"`) {
		t.Fatalf("wrapper import not found: %s", got)
	}
	if !strings.Contains(got, `"example.com/geo"`) {
		t.Fatalf("qualified field import not found: %s", got)
	}
}

func TestGenerate_FormatErrorWritesNothing(t *testing.T) {
	file, plans := resolveSchema(t, resolver.ModeSimple)
	w := &recordingWriter{}

	g := New(failingFormatter{}, w, Options{})
	err := g.Generate(testConfig{filename: "x_gen.go"}, file, plans)
	if err == nil || !strings.HasPrefix(err.Error(), "format: ") {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.calls != 0 {
		t.Fatalf("writer called %d times", w.calls)
	}
}

func TestGenerate_RenderErrorWritesNothing(t *testing.T) {
	w := &recordingWriter{}

	g := New(NewGoimportsFormatter(), w, Options{})
	if err := g.Generate(testConfig{filename: "x_gen.go"}, &schema.File{Package: "model"}, nil); err == nil {
		t.Fatal("expected error, got nil")
	}
	if w.calls != 0 {
		t.Fatalf("writer called %d times", w.calls)
	}
}

func TestStripTagKey(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{tag: ``, want: ``},
		{tag: `optionalize:"ignore"`, want: ``},
		{tag: `json:"id" optionalize:"ignore"`, want: `json:"id"`},
		{tag: `json:"a" db:"a_col"`, want: `json:"a" db:"a_col"`},
		{tag: `optionalize:"ignore" json:"id,omitempty"  db:"user_id"`, want: `json:"id,omitempty" db:"user_id"`},
		{tag: `json:"a\"b" optionalize:"x"`, want: `json:"a\"b"`},
	}

	for _, tc := range tests {
		if got := stripTagKey(tc.tag, "optionalize"); got != tc.want {
			t.Fatalf("stripTagKey(%q) = %q, want %q", tc.tag, got, tc.want)
		}
	}
}

func TestRender_KeepsTagOrder(t *testing.T) {
	file, err := schema.DecodeYAML("tags.yaml", strings.NewReader(`
package: model
structs:
  - name: Row
    fields:
      - name: A
        type: int
        tag: 'json:"a" db:"a_col" optionalize:"keep"'
`))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	plan, err := resolver.NewSimple(classifier.New(classifier.DefaultPolicy())).Resolve(file.Structs[0])
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	b, err := New(NewGoimportsFormatter(), NewFileWriter(), Options{}).Render(file, []*resolver.StructPlan{plan})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := normalize("A optional.Option[int] `json:\"a\" db:\"a_col\"`")
	if !strings.Contains(normalize(string(b)), want) {
		t.Fatalf("tag order should follow the source:\n%s", b)
	}
}

func resolveSchema(t *testing.T, mode resolver.Mode) (*schema.File, []*resolver.StructPlan) {
	t.Helper()
	file, err := schema.DecodeYAML("model.yaml", strings.NewReader(modelSchema))
	if err != nil {
		t.Fatalf("DecodeYAML() error = %v", err)
	}
	r, err := resolver.New(mode, classifier.New(classifier.DefaultPolicy()))
	if err != nil {
		t.Fatalf("resolver.New() error = %v", err)
	}
	plans := make([]*resolver.StructPlan, 0, len(file.Structs))
	for _, st := range file.Structs {
		plan, err := r.Resolve(st)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", st.Name, err)
		}
		plans = append(plans, plan)
	}
	return file, plans
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

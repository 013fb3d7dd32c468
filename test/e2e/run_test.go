package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/phptype/internal/codebase"
	"github.com/you-not-fish/phptype/internal/config"
	"github.com/you-not-fish/phptype/internal/template"
	"github.com/you-not-fish/phptype/internal/typeparser"
	"github.com/you-not-fish/phptype/internal/types"
)

// scenario is a project plus the substitutions run against it.
type scenario struct {
	Project config.Config `yaml:"project"`
	Cases   []testCase    `yaml:"cases"`
}

type testCase struct {
	Name      string            `yaml:"name"`
	Function  string            `yaml:"function"`
	Templates []string          `yaml:"templates"`
	Declared  string            `yaml:"declared"`
	Input     string            `yaml:"input"`
	Mode      string            `yaml:"mode"` // infer, widen, lower or instantiate
	Bind      map[string]string `yaml:"bind"`
}

// TestE2E runs every scenario in testdata/.
// Each scenario:
//  1. Builds the project codebase, with the runtime classes
//  2. Parses the declared and input types of each case
//  3. Runs the substitution the case names
//  4. Renders the results and the bindings
//  5. Compares the rendering against the .golden file
func TestE2E(t *testing.T) {
	files, err := filepath.Glob("testdata/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no .yaml scenarios found in testdata/")
	}

	for _, file := range files {
		name := strings.TrimSuffix(filepath.Base(file), ".yaml")
		t.Run(name, func(t *testing.T) {
			runScenario(t, file)
		})
	}
}

// runScenario runs a single scenario file.
func runScenario(t *testing.T, file string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(file, ".yaml") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading scenario: %v", err)
	}
	var sc scenario
	if err := yaml.UnmarshalStrict(data, &sc); err != nil {
		t.Fatalf("decoding scenario: %v", err)
	}
	if err := sc.Project.Validate(); err != nil {
		t.Fatalf("project: %v", err)
	}
	cb, err := sc.Project.Codebase()
	if err != nil {
		t.Fatalf("codebase: %v", err)
	}

	var out strings.Builder
	for i, c := range sc.Cases {
		if i > 0 {
			out.WriteString("\n")
		}
		fmt.Fprintf(&out, "== %s\n", c.Name)
		if err := runCase(&out, &sc.Project, cb, c); err != nil {
			t.Fatalf("case %q: %v", c.Name, err)
		}
	}

	got := out.String()
	want := string(expected)
	if got != want {
		t.Errorf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// runCase runs one case and writes its rendering to out.
func runCase(out *strings.Builder, conf *config.Config, cb *codebase.Store, c testCase) error {
	fn := c.Function
	if fn == "" {
		fn = "f"
	}
	scope := "fn-" + fn

	opts := conf.ParserOptions()
	opts.Templates = make(map[string]*types.TemplateParam)
	result := template.NewTemplateResult()
	for _, spec := range c.Templates {
		name, bound, _ := strings.Cut(spec, " of ")
		as := types.Of(types.Mixed)
		if bound != "" {
			var err error
			if as, err = typeparser.Parse(bound, opts); err != nil {
				return err
			}
		}
		opts.Templates[name] = types.NewTemplateParam(name, scope, as)
		result.Declare(name, scope, as)
	}

	declared, err := typeparser.Parse(c.Declared, opts)
	if err != nil {
		return err
	}

	var got *types.Union
	switch c.Mode {
	case "instantiate":
		for name, typ := range c.Bind {
			u, err := typeparser.Parse(typ, conf.ParserOptions())
			if err != nil {
				return err
			}
			result.SetUpperBound(name, scope, template.Bound{Type: u, ArgOffset: template.NoOffset})
		}
		got = template.ReplaceWithArgTypes(declared, result, cb)
	case "", "infer", "widen", "lower":
		input, err := typeparser.Parse(c.Input, conf.ParserOptions())
		if err != nil {
			return err
		}
		replace, addUpperBound := true, c.Mode == "widen"
		if c.Mode == "lower" {
			replace, addUpperBound = false, true
		}
		ctx := template.NewContext(result, cb)
		ctx.ArgOffset = 0
		if got, err = template.ReplaceWithStandins(ctx, declared, input, replace, addUpperBound, 0); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}

	display := conf.DisplayContext()
	fmt.Fprintf(out, "result:   %s\n", got.ID())
	fmt.Fprintf(out, "docblock: %s\n", got.NamespacedString(display))
	for _, k := range result.Templates() {
		if b, ok := result.UpperBound(k.Name, k.Scope); ok {
			fmt.Fprintf(out, "%s <: %s\n", k, b.Type.ID())
		} else {
			fmt.Fprintf(out, "%s unbound\n", k)
		}
		if b, ok := result.LowerBound(k.Name, k.Scope); ok {
			fmt.Fprintf(out, "%s :> %s\n", k, b.Type.ID())
		}
	}
	return nil
}

// Package main implements phptype, a command line front end for the
// docblock type engine: it parses and renders types, infers template
// bindings and instantiates templated types.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/you-not-fish/phptype/internal/codebase"
	"github.com/you-not-fish/phptype/internal/config"
	"github.com/you-not-fish/phptype/internal/template"
	"github.com/you-not-fish/phptype/internal/typeparser"
	"github.com/you-not-fish/phptype/internal/types"
)

// Version information
const Version = "0.1.0-dev"

func main() {
	os.Exit(run(os.Args))
}

// run executes the command line args and returns the exit code.
func run(args []string) int {
	logger := log.New(os.Stderr, "phptype: ", 0)
	failed := false

	app := &cli.App{
		Name:    "phptype",
		Usage:   "parse, render and instantiate PHP docblock types",
		Version: Version,
		Writer:  os.Stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "project file"},
			&cli.StringFlag{Name: "namespace", Usage: "current namespace"},
			&cli.StringFlag{Name: "php", Usage: "target PHP version, such as 8.1"},
			&cli.BoolFlag{Name: "phpdoc", Usage: "render plain phpdoc instead of long-form types"},
			&cli.BoolFlag{Name: "dump", Usage: "dump type structures"},
			&cli.BoolFlag{Name: "trace", Usage: "print error stack traces"},
		},
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil || failed {
				return
			}
			failed = true
			if c.Bool("trace") {
				tracerr.PrintSourceColor(err)
			}
			logger.Printf("error: %v", err)
		},
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "parse types and print their renderings",
				ArgsUsage: "TYPE...",
				Action:    withProject(runShow),
			},
			{
				Name:      "standin",
				Usage:     "infer template bindings by aligning a declared type with an input type",
				ArgsUsage: "DECLARED INPUT",
				Flags: append(templateFlags(),
					&cli.BoolFlag{Name: "widen", Usage: "replace templates with the input instead of binding them"},
					&cli.BoolFlag{Name: "lower", Usage: "record lower bounds and keep the templates in place"},
				),
				Action: withProject(runStandin),
			},
			{
				Name:      "instantiate",
				Usage:     "replace the templates of a type with bound types",
				ArgsUsage: "TYPE",
				Flags: append(templateFlags(), &cli.StringSliceFlag{
					Name:    "bind",
					Aliases: []string{"b"},
					Usage:   "binding NAME=TYPE",
				}),
				Action: withProject(runInstantiate),
			},
			{
				Name:      "classes",
				Usage:     "list declared classes, or the ancestors of one class",
				ArgsUsage: "[CLASS]",
				Action:    withProject(runClasses),
			},
		},
	}

	if err := app.Run(args); err != nil || failed {
		return 1
	}
	return 0
}

func templateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "template",
			Aliases: []string{"t"},
			Usage:   "template parameter NAME or NAME of BOUND",
		},
		&cli.StringFlag{
			Name:  "function",
			Value: "f",
			Usage: "function declaring the templates",
		},
	}
}

// project is the loaded configuration with the command line overrides.
type project struct {
	conf *config.Config
	ctx  *types.DisplayContext
	cb   *codebase.Store
	out  io.Writer
	dump bool
}

func withProject(action func(*cli.Context, *project) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		p, err := loadProject(c)
		if err != nil {
			return err
		}
		return action(c, p)
	}
}

func loadProject(c *cli.Context) (*project, error) {
	conf := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if conf, err = config.Load(path); err != nil {
			return nil, err
		}
	}
	if c.IsSet("namespace") {
		conf.Namespace = strings.Trim(c.String("namespace"), `\`)
	}
	if c.IsSet("php") {
		if _, _, err := config.ParseVersion(c.String("php")); err != nil {
			return nil, err
		}
		conf.PHPVersion = c.String("php")
	}
	if c.IsSet("phpdoc") {
		conf.Phpdoc = c.Bool("phpdoc")
	}
	cb, err := conf.Codebase()
	if err != nil {
		return nil, err
	}
	return &project{
		conf: conf,
		ctx:  conf.DisplayContext(),
		cb:   cb,
		out:  c.App.Writer,
		dump: c.Bool("dump"),
	}, nil
}

func (p *project) parse(s string, opts *typeparser.Options) (*types.Union, error) {
	u, err := typeparser.Parse(s, opts)
	if err != nil {
		return nil, err
	}
	if p.dump {
		fmt.Fprintln(p.out, repr.String(u, repr.Indent("  ")))
	}
	return u, nil
}

func runShow(c *cli.Context, p *project) error {
	if c.NArg() == 0 {
		return fmt.Errorf("show: no type given")
	}
	for i, s := range c.Args().Slice() {
		u, err := p.parse(s, p.conf.ParserOptions())
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		native, ok := u.NativeString(p.ctx)
		if !ok {
			native = "-"
		}
		fmt.Fprintf(p.out, "id:       %s\n", u.ID())
		fmt.Fprintf(p.out, "key:      %s\n", u.Key())
		fmt.Fprintf(p.out, "docblock: %s\n", u.NamespacedString(p.ctx))
		fmt.Fprintf(p.out, "native:   %s\n", native)
	}
	return nil
}

// templates parses the --template flags into placeholders of fn-NAME.
// A bound may refer to earlier templates.
func (p *project) templates(c *cli.Context) (*typeparser.Options, *template.TemplateResult, error) {
	scope := "fn-" + c.String("function")
	opts := p.conf.ParserOptions()
	opts.Templates = make(map[string]*types.TemplateParam)
	result := template.NewTemplateResult()
	for _, spec := range c.StringSlice("template") {
		name, bound := splitTemplate(spec)
		as := types.Of(types.Mixed)
		if bound != "" {
			var err error
			if as, err = p.parse(bound, opts); err != nil {
				return nil, nil, err
			}
		}
		opts.Templates[name] = types.NewTemplateParam(name, scope, as)
		result.Declare(name, scope, as)
	}
	return opts, result, nil
}

// splitTemplate splits "T of Foo" or "T as Foo" into its name and bound.
func splitTemplate(spec string) (name, bound string) {
	fields := strings.Fields(spec)
	if len(fields) >= 3 && (fields[1] == "of" || fields[1] == "as") {
		return fields[0], strings.Join(fields[2:], " ")
	}
	return strings.TrimSpace(spec), ""
}

func runStandin(c *cli.Context, p *project) error {
	if c.NArg() != 2 {
		return fmt.Errorf("standin: want DECLARED and INPUT, got %d arguments", c.NArg())
	}
	opts, result, err := p.templates(c)
	if err != nil {
		return err
	}
	declared, err := p.parse(c.Args().Get(0), opts)
	if err != nil {
		return err
	}
	input, err := p.parse(c.Args().Get(1), p.conf.ParserOptions())
	if err != nil {
		return err
	}

	ctx := template.NewContext(result, p.cb)
	ctx.ArgOffset = 0
	replace, addUpperBound := true, c.Bool("widen")
	if c.Bool("lower") {
		replace, addUpperBound = false, true
	}
	got, err := template.ReplaceWithStandins(ctx, declared, input, replace, addUpperBound, 0)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.out, "result: %s\n", got.ID())
	p.printBindings(result)
	return nil
}

func (p *project) printBindings(r *template.TemplateResult) {
	for _, k := range r.Templates() {
		if b, ok := r.UpperBound(k.Name, k.Scope); ok {
			fmt.Fprintf(p.out, "%s <: %s\n", k, b.Type.ID())
		} else {
			fmt.Fprintf(p.out, "%s unbound\n", k)
		}
		if b, ok := r.LowerBound(k.Name, k.Scope); ok {
			fmt.Fprintf(p.out, "%s :> %s\n", k, b.Type.ID())
		}
	}
}

func runInstantiate(c *cli.Context, p *project) error {
	if c.NArg() != 1 {
		return fmt.Errorf("instantiate: want one TYPE, got %d arguments", c.NArg())
	}
	opts, result, err := p.templates(c)
	if err != nil {
		return err
	}
	declared, err := p.parse(c.Args().First(), opts)
	if err != nil {
		return err
	}
	for _, b := range c.StringSlice("bind") {
		name, typ, ok := strings.Cut(b, "=")
		name = strings.TrimSpace(name)
		tp, known := opts.Templates[name]
		if !ok || !known {
			return fmt.Errorf("instantiate: bad binding %q", b)
		}
		u, err := p.parse(typ, p.conf.ParserOptions())
		if err != nil {
			return err
		}
		result.SetUpperBound(tp.Name, tp.Scope, template.Bound{Type: u, ArgOffset: template.NoOffset})
	}

	got := template.ReplaceWithArgTypes(declared, result, p.cb)
	fmt.Fprintf(p.out, "id:       %s\n", got.ID())
	fmt.Fprintf(p.out, "docblock: %s\n", got.NamespacedString(p.ctx))
	return nil
}

func runClasses(c *cli.Context, p *project) error {
	if c.NArg() == 0 {
		for _, cl := range p.cb.Classes() {
			fmt.Fprintln(p.out, declaration(cl, p.ctx))
		}
		return nil
	}
	name := c.Args().First()
	if p.conf.Namespace != "" && !strings.HasPrefix(name, `\`) {
		if _, ok := p.cb.Class(name); !ok {
			name = p.conf.Namespace + `\` + name
		}
	}
	cl, ok := p.cb.Class(strings.TrimPrefix(name, `\`))
	if !ok {
		return fmt.Errorf("classes: unknown class %s", c.Args().First())
	}
	fmt.Fprintln(p.out, declaration(cl, p.ctx))
	for _, a := range p.cb.Ancestors(cl.Name) {
		fmt.Fprintf(p.out, "  %s\n", reference(a, p.ctx))
	}
	return nil
}

// declaration renders a class as "Name<T of Bound> extends Parent<T>".
func declaration(cl *codebase.Class, ctx *types.DisplayContext) string {
	var b strings.Builder
	b.WriteString(ctx.ClassName(cl.Name, false))
	if len(cl.Templates) > 0 {
		b.WriteByte('<')
		for i, tp := range cl.Templates {
			if i > 0 {
				b.WriteString(", ")
			}
			if tp.Covariant {
				b.WriteString("+")
			}
			b.WriteString(tp.Name)
			if !tp.As.IsMixed() {
				b.WriteString(" of " + tp.As.NamespacedString(ctx))
			}
		}
		b.WriteByte('>')
	}
	for i, parent := range cl.Parents {
		if i == 0 {
			b.WriteString(" extends ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(reference(parent, ctx))
	}
	return b.String()
}

func reference(p codebase.Parent, ctx *types.DisplayContext) string {
	name := ctx.ClassName(p.Name, false)
	if len(p.Args) == 0 {
		return name
	}
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.NamespacedString(ctx)
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

package codebase

import (
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/phptype/internal/template"
	"github.com/you-not-fish/phptype/internal/typeparser"
	"github.com/you-not-fish/phptype/internal/types"
)

// Decl is the textual form of a class declaration, as found in a project
// file:
//
//	- name: ArrayCollection
//	  templates:
//	    - {name: TKey, as: array-key}
//	    - {name: TValue}
//	  implements: [Collection<TValue>]
type Decl struct {
	Name       string         `yaml:"name"`
	Templates  []TemplateDecl `yaml:"templates"`
	Extends    []string       `yaml:"extends"`
	Implements []string       `yaml:"implements"`
}

// TemplateDecl declares one template parameter. An empty As is mixed.
type TemplateDecl struct {
	Name      string `yaml:"name"`
	As        string `yaml:"as"`
	Covariant bool   `yaml:"covariant"`
}

// ParseDecls decodes a YAML list of class declarations.
func ParseDecls(data []byte) ([]Decl, error) {
	var decls []Decl
	if err := yaml.UnmarshalStrict(data, &decls); err != nil {
		return nil, err
	}
	return decls, nil
}

// Class builds the class d declares. Names are resolved through opts;
// its Templates and Self are ignored.
func (d Decl) Class(opts *typeparser.Options) (*Class, error) {
	var base typeparser.Options
	if opts != nil {
		base = *opts
	}
	base.Templates = nil
	base.Self = ""

	name, err := d.className(&base)
	if err != nil {
		return nil, err
	}
	c := &Class{Name: name}

	base.Self = name
	base.Templates = make(map[string]*types.TemplateParam, len(d.Templates))
	for _, td := range d.Templates {
		if td.Name == "" {
			return nil, declErrorf(name, "template without a name")
		}
		if _, dup := base.Templates[td.Name]; dup {
			return nil, declErrorf(name, "template %s declared twice", td.Name)
		}
		as := types.Of(types.Mixed)
		if strings.TrimSpace(td.As) != "" {
			// earlier templates may appear in later bounds
			if as, err = typeparser.Parse(td.As, &base); err != nil {
				return nil, err
			}
		}
		base.Templates[td.Name] = types.NewTemplateParam(td.Name, name, as)
		c.Templates = append(c.Templates, template.Param{Name: td.Name, As: as, Covariant: td.Covariant})
	}

	for _, src := range append(append([]string(nil), d.Extends...), d.Implements...) {
		p, err := parent(src, &base)
		if err != nil {
			return nil, err
		}
		c.Parents = append(c.Parents, p)
	}
	return c, nil
}

func (d Decl) className(opts *typeparser.Options) (string, error) {
	if strings.TrimSpace(d.Name) == "" {
		return "", declErrorf("?", "class without a name")
	}
	u, err := typeparser.Parse(d.Name, opts)
	if err != nil {
		return "", err
	}
	n, ok := u.Single().(*types.NamedObject)
	if !ok || len(n.Facets()) > 0 {
		return "", declErrorf(d.Name, "not a class name")
	}
	return n.Name, nil
}

// parent parses a parent reference such as Collection<TValue>.
func parent(src string, opts *typeparser.Options) (Parent, error) {
	u, err := typeparser.Parse(src, opts)
	if err != nil {
		return Parent{}, err
	}
	switch t := u.Single().(type) {
	case *types.NamedObject:
		if len(t.Facets()) == 0 {
			return Parent{Name: t.Name}, nil
		}
	case *types.GenericObject:
		if len(t.Facets()) == 0 {
			return Parent{Name: t.Name, Args: t.Params}, nil
		}
	}
	return Parent{}, declErrorf(opts.Self, "%s is not a class", src)
}

// Declare builds the classes of decls and adds them to s.
func (s *Store) Declare(decls []Decl, opts *typeparser.Options) error {
	for _, d := range decls {
		c, err := d.Class(opts)
		if err != nil {
			return err
		}
		s.Add(c)
	}
	return nil
}

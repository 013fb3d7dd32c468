// Package config loads phptype project files.
//
// A project file is YAML:
//
//	namespace: App\Model
//	aliases:
//	  Collection: Doctrine\Common\Collections\Collection
//	php_version: "8.1"
//	phpdoc: false
//	classes:
//	  - name: Repository
//	    templates:
//	      - {name: T, as: Entity}
package config

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"

	"github.com/you-not-fish/phptype/internal/codebase"
	"github.com/you-not-fish/phptype/internal/typeparser"
	"github.com/you-not-fish/phptype/internal/types"
)

// DefaultPHPVersion is the target version when none is configured.
const DefaultPHPVersion = "8.1"

// Config is a project configuration.
type Config struct {
	Namespace  string            `yaml:"namespace"`
	Aliases    map[string]string `yaml:"aliases"`
	PHPVersion string            `yaml:"php_version"`
	Phpdoc     bool              `yaml:"phpdoc"`
	NoBuiltins bool              `yaml:"no_builtins"`
	Classes    []codebase.Decl   `yaml:"classes"`
}

// Default returns the configuration used without a project file.
func Default() *Config {
	return &Config{PHPVersion: DefaultPHPVersion}
}

// Load reads and validates the project file at path.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, tracerr.Wrap(err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a project file.
func Parse(data []byte) (*Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(data, c); err != nil {
		return nil, tracerr.Wrap(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate normalizes the namespace and checks the PHP version of a
// configuration decoded by other means, such as a larger document.
func (c *Config) Validate() error {
	c.Namespace = strings.Trim(c.Namespace, `\`)
	if c.PHPVersion == "" {
		c.PHPVersion = DefaultPHPVersion
	}
	_, _, err := c.Version()
	return err
}

// Version returns the configured PHP version as major and minor numbers.
func (c *Config) Version() (major, minor int, err error) {
	return ParseVersion(c.PHPVersion)
}

// ParseVersion parses a PHP version such as "8.1" or "7".
func ParseVersion(v string) (major, minor int, err error) {
	majorPart, minorPart, hasMinor := strings.Cut(strings.TrimSpace(v), ".")
	if major, err = strconv.Atoi(majorPart); err != nil || major < 5 {
		return 0, 0, tracerr.Errorf("bad php_version %q", v)
	}
	if hasMinor {
		if minor, err = strconv.Atoi(minorPart); err != nil || minor < 0 {
			return 0, 0, tracerr.Errorf("bad php_version %q", v)
		}
	}
	return major, minor, nil
}

// ParserOptions returns the name resolution options of the project.
func (c *Config) ParserOptions() *typeparser.Options {
	return &typeparser.Options{Namespace: c.Namespace, Aliases: c.Aliases}
}

// DisplayContext returns the rendering context of the project.
func (c *Config) DisplayContext() *types.DisplayContext {
	major, minor, _ := c.Version()
	return &types.DisplayContext{
		Namespace:    c.Namespace,
		Aliases:      c.Aliases,
		PhpdocFormat: c.Phpdoc,
		PHPMajor:     major,
		PHPMinor:     minor,
	}
}

// Codebase builds the class store of the project, with the runtime
// classes unless NoBuiltins is set.
func (c *Config) Codebase() (*codebase.Store, error) {
	s := codebase.New()
	if !c.NoBuiltins {
		s.AddBuiltins()
	}
	if err := s.Declare(c.Classes, c.ParserOptions()); err != nil {
		return nil, err
	}
	if err := s.Resolve(); err != nil {
		return nil, err
	}
	return s, nil
}

package batch

import (
	"fmt"

	"github.com/gogpu/glslcode/configs"
	"github.com/gogpu/glslcode/encode"
	"github.com/gogpu/glslcode/internal/vars"
)

// Schema is the closed CUE schema of configuration files.
const Schema = `
glslc?: {
	root?:               string
	out?:                string
	extensions?:         [...string]
	include_extensions?: [...string]
	concurrency?:        int & >0
	format?:             "yaml" | "cue"
	alias_script?:       string
	link?:               bool
	log_level?:          "debug" | "info" | "warn" | "error"
}
`

// Config controls a batch run.
type Config struct {
	Root              string   `json:"root"`
	Out               string   `json:"out"`
	Extensions        []string `json:"extensions"`
	IncludeExtensions []string `json:"include_extensions"`
	Concurrency       int      `json:"concurrency"`
	Format            string   `json:"format"`
	AliasScript       string   `json:"alias_script"`
	Link              bool     `json:"link"`
	LogLevel          string   `json:"log_level"`
}

// DefaultConfig returns sensible default options.
func DefaultConfig() Config {
	return Config{
		Root:              ".",
		Extensions:        []string{".vsh", ".fsh", ".vert", ".frag", ".geom", ".glsl"},
		IncludeExtensions: []string{".glsl"},
		Concurrency:       4,
		Format:            "yaml",
		LogLevel:          "info",
	}
}

// Merge returns c with every unset field taken from fallback.
func (c Config) Merge(fallback Config) Config {
	return Config{
		Root:              vars.FirstNonZero(c.Root, fallback.Root),
		Out:               vars.FirstNonZero(c.Out, fallback.Out),
		Extensions:        vars.FirstNonEmpty(c.Extensions, fallback.Extensions),
		IncludeExtensions: vars.FirstNonEmpty(c.IncludeExtensions, fallback.IncludeExtensions),
		Concurrency:       vars.FirstNonZero(c.Concurrency, fallback.Concurrency),
		Format:            vars.FirstNonZero(c.Format, fallback.Format),
		AliasScript:       vars.FirstNonZero(c.AliasScript, fallback.AliasScript),
		Link:              c.Link || fallback.Link,
		LogLevel:          vars.FirstNonZero(c.LogLevel, fallback.LogLevel),
	}
}

// Validate checks values a schema cannot express.
func (c Config) Validate() error {
	if _, err := encode.ByName(c.Format); err != nil {
		return err
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("no source extensions configured")
	}
	return nil
}

// ConfigFiles lists the CUE files to read. A setting in an earlier file
// takes precedence over the same setting in a later one.
type ConfigFiles []string

// Overrides are settings that take precedence over configuration files,
// usually from the command line.
type Overrides Config

// ConfigFiles provides no files by default.
func (Module) ConfigFiles() ConfigFiles {
	return nil
}

// Overrides provides no overrides by default.
func (Module) Overrides() Overrides {
	return Overrides{}
}

// Loader reads ConfigFiles against Schema.
func (Module) Loader(
	files ConfigFiles,
) configs.Loader {
	return configs.NewLoader(files, Schema)
}

// Config fills unset override fields from each config file in order, then
// from DefaultConfig. Files are already validated against Schema.
func (Module) Config(
	loader configs.Loader,
	overrides Overrides,
) Config {
	config := Config(overrides)
	for fromFile, err := range configs.All[Config](loader, "glslc") {
		if err != nil {
			panic(err)
		}
		config = config.Merge(fromFile)
	}
	return config.Merge(DefaultConfig())
}

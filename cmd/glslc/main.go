// Command glslc extracts vertex inputs, uniforms and includes from GLSL
// shader sources.
//
// Usage:
//
//	glslc [options] [dir | file]
//
// Examples:
//
//	glslc shader.vsh                     # Print the parsed shader
//	glslc -o build shaders               # Compile a directory tree
//	glslc -config glslc.cue -link        # Use a config file and link includes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/reusee/dscope"

	"github.com/gogpu/glslcode"
	"github.com/gogpu/glslcode/aliases"
	"github.com/gogpu/glslcode/batch"
	"github.com/gogpu/glslcode/configs"
	"github.com/gogpu/glslcode/glslsrc"
	"github.com/gogpu/glslcode/internal/vars"
	"github.com/gogpu/glslcode/logs"
)

var (
	configFiles []string

	output      = flag.String("o", "", "output directory (default: no output files)")
	format      = flag.String("format", "", "document format: yaml or cue")
	concurrency = flag.Int("j", 0, "number of units parsed at once")
	link        = flag.Bool("link", false, "write linked program text")
	aliasScript = flag.String("alias-script", "", "Starlark script assigning aliases")
	logLevel    = flag.String("log-level", "", "debug, info, warn or error")
	version     = flag.Bool("version", false, "print version")
)

const glslcVersion = "0.1.0-dev"

func main() {
	flag.Func("config", "CUE config file (repeatable)", func(s string) error {
		configFiles = append(configFiles, s)
		return nil
	})
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("glslc version %s\n", glslcVersion)
		return
	}

	var root string
	if args := flag.Args(); len(args) > 0 {
		root = args[0]
		info, err := os.Stat(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if !info.IsDir() {
			if err := printFile(root); err != nil {
				os.Exit(1)
			}
			return
		}
	}

	scope := dscope.New(new(batch.Module)).Fork(
		dscope.Provide(batch.ConfigFiles(configFiles)),
		dscope.Provide(batch.Overrides{
			Root:        root,
			Out:         *output,
			Format:      *format,
			Concurrency: *concurrency,
			Link:        *link,
			AliasScript: *aliasScript,
			LogLevel:    *logLevel,
		}),
	)

	scope.Call(func(
		loader configs.Loader,
	) {
		if err := loader.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	})

	scope.Call(func(
		config batch.Config,
		driver *batch.Driver,
	) {
		level, ok := logs.ParseLevel(config.LogLevel)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: unknown log level %q\n", config.LogLevel)
			os.Exit(1)
		}
		logs.SetLevel(level)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if _, err := driver.Run(ctx, os.DirFS(config.Root)); err != nil {
			printError(err)
			stop()
			os.Exit(1)
		}
	})
}

// printFile compiles a single unit and writes the result to stdout.
// Includes are resolved from the directory of the file.
func printFile(file string) error {
	fsys := os.DirFS(filepath.Dir(file))
	name := filepath.Base(file)

	var out []byte
	var err error
	if *link {
		var program string
		program, err = glslcode.LinkFile(fsys, name)
		out = []byte(program)
	} else {
		opts := glslcode.DefaultOptions()
		opts.Format = vars.FirstNonZero(*format, opts.Format)
		if *aliasScript != "" {
			opts.Rules, err = aliases.Load(*aliasScript, nil)
		}
		if err == nil {
			out, err = glslcode.CompileWithOptions(fsys, name, opts)
		}
	}
	if err != nil {
		printError(err)
		return err
	}

	if _, err := os.Stdout.Write(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return err
	}
	return nil
}

func printError(err error) {
	var srcErr *glslsrc.SourceError
	if errors.As(err, &srcErr) {
		fmt.Fprintln(os.Stderr, srcErr.FormatWithContext())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: glslc [options] [dir | file]\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  glslc shader.vsh                Print the parsed shader\n")
	fmt.Fprintf(os.Stderr, "  glslc -o build shaders          Compile a directory tree\n")
	fmt.Fprintf(os.Stderr, "  glslc -format cue -o build .    Write CUE documents\n")
}

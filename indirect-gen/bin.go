package main

import (
	"errors"
	"fmt"
	"go/token"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/ZenLiuCN/indirect/generator"
	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		log.Fatalf("failure %s", err)
	}
}

func app() *cli.App {
	app := cli.NewApp()
	app.Usage = "once-resolved function generator"
	app.Name = "indirect-gen"
	app.Description = "rewrites functions annotated with //indirect:resolver into a dispatch through a function resolved on first call"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, EnvVars: []string{"INDIRECT_DEBUG"}},
		&cli.StringFlag{Name: "tag", Value: generator.DefaultTag, EnvVars: []string{"INDIRECT_TAG"}, Usage: "build tag guarding generator sources"},
		&cli.StringFlag{Name: "suffix", Value: generator.DefaultSuffix, EnvVars: []string{"INDIRECT_SUFFIX"}, Usage: "suffix of generated files"},
		&cli.StringFlag{Name: "mode", Value: string(generator.ModeShim), EnvVars: []string{"INDIRECT_MODE"}, Usage: "once primitive: shim or sync, a //indirect:mode= line before the package clause overrides it per file"},
		&cli.StringFlag{Name: "go", EnvVars: []string{"INDIRECT_GO"}, Usage: "go version of the target module, read from go.mod when empty"},
	}
	app.Commands = []*cli.Command{
		{
			Name:   "generate",
			Action: generate,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "scan sub directories"},
			},
			Args:  true,
			Usage: "generate the outputs of sources. the arguments can be list of go sources or directories, default '.' for the working directory.",
		},
		{
			Name:   "check",
			Action: check,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "scan sub directories"},
			},
			Args:  true,
			Usage: "fail with a diff when generated outputs are stale",
		},
		{
			Name:   "watch",
			Action: watch,
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "recursive", Aliases: []string{"r"}, Usage: "watch sub directories"},
			},
			Args:  true,
			Usage: "generate a directory on every change until interrupted",
		},
		{
			Name:   "fn",
			Action: literal,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "resolver", Aliases: []string{"r"}, Required: true, Usage: "resolver function name"},
				&cli.StringFlag{Name: "package", Aliases: []string{"p"}, Value: "main", Usage: "package of the generated file"},
				&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, default <name>_indirect.go, '-' for stdout"},
			},
			Args:  true,
			Usage: "generate one function from its header, such as 'dog(param int32) int32'",
		},
		{
			Name:   "inspect",
			Action: inspect,
			Args:   true,
			Usage:  "dump the annotated functions of go sources",
		},
	}
	return app
}

func logger(ctx *cli.Context) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if ctx.Bool("debug") {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func options(ctx *cli.Context, dir string) (o generator.Options, err error) {
	o.Logger = logger(ctx)
	o.Tag = ctx.String("tag")
	o.Suffix = ctx.String("suffix")
	if o.Mode, err = generator.ParseMode(ctx.String("mode")); err != nil {
		return
	}
	if o.GoVersion = ctx.String("go"); o.GoVersion == "" {
		if o.GoVersion, err = generator.ModuleGoVersion(dir); err != nil {
			return
		}
	}
	o.Logger.Debug("options", zap.String("tag", o.Tag), zap.String("suffix", o.Suffix), zap.String("mode", string(o.Mode)), zap.String("go", o.GoVersion))
	return
}

// lookup expands the arguments into generator sources, directories are scanned for tagged files.
func lookup(ctx *cli.Context, tag string) (v []string, err error) {
	args := ctx.Args().Slice()
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, arg := range args {
		var fi os.FileInfo
		if fi, err = os.Stat(arg); err != nil {
			return
		}
		if !fi.IsDir() {
			var src []byte
			if src, err = os.ReadFile(arg); err != nil {
				return
			}
			if !generator.IsSource(src, tag) {
				return nil, fmt.Errorf("%w: %s requires build tag %q", generator.ErrNotSource, arg, tag)
			}
			v = append(v, arg)
			continue
		}
		var files []string
		if files, err = generator.Discover(arg, ctx.Bool("recursive"), tag); err != nil {
			return
		}
		v = append(v, files...)
	}
	return
}

func report(w io.Writer, err error) error {
	// diagnostics are printed here, the exit code alone reaches cli.
	if err == nil {
		return nil
	}
	red := color.New(color.FgRed)
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		red.DisableColor()
	}
	for _, e := range multierr.Errors(err) {
		_, _ = red.Fprintln(w, e.Error())
	}
	return cli.Exit("", 1)
}

func prepare(ctx *cli.Context) (files []string, o generator.Options, err error) {
	dir := "."
	if ctx.NArg() > 0 {
		dir = ctx.Args().First()
		if fi, e := os.Stat(dir); e == nil && !fi.IsDir() {
			dir = filepath.Dir(dir)
		}
	}
	if o, err = options(ctx, dir); err != nil {
		return
	}
	files, err = lookup(ctx, o.Tag)
	if err == nil && len(files) == 0 {
		o.Logger.Warn("no generator sources found", zap.Strings("paths", ctx.Args().Slice()), zap.String("tag", o.Tag))
	}
	return
}

func generate(ctx *cli.Context) error {
	files, o, err := prepare(ctx)
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	defer func() { _ = o.Logger.Sync() }()
	rs, err := generator.Files(files, o)
	for _, r := range rs {
		written, e := r.Write()
		if e != nil {
			err = multierr.Append(err, e)
			continue
		}
		if written {
			o.Logger.Info("written", zap.String("output", r.Output), zap.Int("functions", len(r.Transforms)))
		}
	}
	return report(ctx.App.ErrWriter, err)
}

func check(ctx *cli.Context) error {
	files, o, err := prepare(ctx)
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	rs, err := generator.Files(files, o)
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	out := ctx.App.Writer
	add, del := color.New(color.FgGreen), color.New(color.FgRed)
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		add.DisableColor()
		del.DisableColor()
	}
	var stale error
	for _, r := range rs {
		d, e := r.Diff()
		if e == nil {
			continue
		}
		if !errors.Is(e, generator.ErrStale) {
			return report(ctx.App.ErrWriter, e)
		}
		stale = multierr.Append(stale, e)
		_, _ = fmt.Fprintf(out, "--- %s\n", r.Output)
		for _, line := range strings.SplitAfter(d, "\n") {
			switch {
			case strings.HasPrefix(line, "+ "):
				_, _ = add.Fprint(out, line)
			case strings.HasPrefix(line, "- "):
				_, _ = del.Fprint(out, line)
			}
		}
	}
	return report(ctx.App.ErrWriter, stale)
}

func watch(ctx *cli.Context) error {
	dir := "."
	if ctx.NArg() > 0 {
		dir = ctx.Args().First()
	}
	o, err := options(ctx, dir)
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	c, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
	defer stop()
	o.Logger.Info("watching", zap.String("dir", dir))
	return generator.Watch(c, dir, ctx.Bool("recursive"), o, func(_ []*generator.Result, err error) {
		_ = report(ctx.App.ErrWriter, err)
	})
}

func literal(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return report(ctx.App.ErrWriter, fmt.Errorf("expected exactly one function header, got %d arguments", ctx.NArg()))
	}
	o, err := options(ctx, ".")
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	r, err := generator.Literal{
		Package:  ctx.String("package"),
		Decl:     ctx.Args().First(),
		Resolver: ctx.String("resolver"),
	}.Generate(o)
	if err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	switch out := ctx.String("output"); out {
	case "-":
		_, err = ctx.App.Writer.Write(r.Code)
		return report(ctx.App.ErrWriter, err)
	case "":
	default:
		r.Output = out
	}
	if _, err = r.Write(); err != nil {
		return report(ctx.App.ErrWriter, err)
	}
	o.Logger.Info("written", zap.String("output", r.Output))
	return nil
}

func inspect(ctx *cli.Context) (err error) {
	fset := token.NewFileSet()
	cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableMethods: true}
	for _, s := range ctx.Args().Slice() {
		var src []byte
		if src, err = os.ReadFile(s); err != nil {
			return report(ctx.App.ErrWriter, err)
		}
		var found []*generator.Found
		found, err = generator.Inspect(fset, s, src)
		for _, f := range found {
			_, _ = fmt.Fprintf(ctx.App.Writer, "%s: %s resolver=%s\n", f.Directive.Pos, f.Func, f.Directive.Source)
			f.Directive.Resolver = nil
			cfg.Fdump(ctx.App.Writer, f)
		}
		if err != nil {
			return report(ctx.App.ErrWriter, err)
		}
	}
	return
}

// Command bench builds the fractal scenes, renders them and verifies the render host.
//
//	bench [-v] [-config path] benchmark [-quick]
//	bench render [-quick] <script...|all>
//	bench verify
//	bench scenes
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"runtime"
	"strings"
	"syscall"

	"fractal-bench/internal/bench"
	"fractal-bench/internal/commands"
	"fractal-bench/internal/config"
	"fractal-bench/internal/env"
	"fractal-bench/internal/gpu"
	"fractal-bench/internal/logger"
	"fractal-bench/internal/output"
	"fractal-bench/internal/render"
	"fractal-bench/internal/render/raster"
	"fractal-bench/internal/render/trace"
	"fractal-bench/internal/report"
	"fractal-bench/internal/scene"
	"fractal-bench/internal/scenes"
	"fractal-bench/internal/verify"
	"fractal-bench/internal/version"
)

// raylib must stay on the main OS thread.
func init() { runtime.LockOSThread() }

var errChecksFailed = errors.New("verification failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand shares.
type app struct {
	prefs config.Prefs
	store *output.Store
	out   io.Writer
	gpu   *raster.Engine
	cpu   *trace.Engine
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := env.Load(".env"); err != nil {
		fmt.Fprintf(stderr, "bench: .env: %v\n", err)
	}

	global := flag.NewFlagSet("bench", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "debug logging")
	cfgPath := global.String("config", config.Path, "preferences file")
	if err := global.Parse(args); err != nil {
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	a := &app{store: output.NewOS(), out: stdout}
	prefs, err := config.Load(a.store, *cfgPath)
	if err != nil {
		slog.Warn("bench: preferences ignored", "path", *cfgPath, "err", err)
	}
	a.prefs = prefs.WithEnv(os.Getenv)
	a.gpu = raster.New(raster.Options{Supersample: a.prefs.Supersample})
	defer a.gpu.Close()
	a.cpu = trace.New(trace.Options{Workers: a.prefs.Workers})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := commands.NewRegistry("bench")
	a.register(ctx, reg, stderr)
	err = reg.Execute(global.Args())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, commands.ErrUsage):
		fmt.Fprintf(stderr, "bench: %v\n", err)
		reg.Usage(stderr)
		return 2
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errChecksFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "bench: %v\n", err)
		return 1
	}
}

func flags(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func (a *app) register(ctx context.Context, reg *commands.Registry, stderr io.Writer) {
	fs := flags("benchmark", stderr)
	quick := fs.Bool("quick", false, "scaled-down resolutions and samples")
	reg.Register("benchmark", "render the Menger sponge benchmark", fs, func([]string) error {
		return a.benchmark(ctx, *quick)
	})

	fs = flags("render", stderr)
	quickRender := fs.Bool("quick", false, "quarter resolution, an eighth of the samples")
	reg.Register("render", "render scripts by name, or all", fs, func(args []string) error {
		return a.render(ctx, args, *quickRender)
	})

	reg.Register("verify", "check the render host's capabilities", flags("verify", stderr), func([]string) error {
		return a.verify(ctx)
	})

	reg.Register("scenes", "list the render scripts", flags("scenes", stderr), func([]string) error {
		for _, n := range scenes.Names() {
			sc, _ := scenes.Lookup(n)
			fmt.Fprintf(a.out, "%-18s %s -> %s\n", n, sc.Title, path.Join(a.prefs.RenderDir, sc.Output))
		}
		return nil
	})
}

// engine returns the engine for the configured device. GPU runs fall back to the
// tracer when no GL context is available.
func (a *app) engine() render.Engine {
	if a.prefs.Device == scene.DeviceCPU {
		return a.cpu
	}
	return &render.Fallback{Primary: a.gpu, Secondary: a.cpu}
}

func (a *app) logger(dir string) *logger.Logger {
	return logger.New(a.out, a.store, path.Join(dir, logger.LogFile))
}

// gpuName describes the enabled GPUs for reports.
func gpuName(ctx context.Context) string {
	devs, err := gpu.WebGPU{}.Devices(ctx)
	if err != nil {
		slog.Debug("bench: device enumeration failed", "err", err)
		return "none"
	}
	gpus := gpu.Select(gpu.GPUs(devs))
	for _, d := range gpus {
		slog.Debug("bench: device", "device", d.String())
	}
	if len(gpus) == 0 {
		return "none"
	}
	return strings.Join(gpu.Names(gpus), ", ")
}

func (a *app) benchmark(ctx context.Context, quick bool) error {
	dir := a.prefs.OutputDir
	if err := a.store.MkdirAll(dir); err != nil {
		return err
	}
	_, err := bench.Run(ctx, bench.Env{
		Log:     a.logger(dir),
		Store:   a.store,
		Engine:  a.engine(),
		Dir:     dir,
		Version: version.Version,
		GPU:     gpuName(ctx),
		Quick:   quick,
	})
	return err
}

func (a *app) render(ctx context.Context, names []string, quick bool) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: render needs a script name or all (have %s)", commands.ErrUsage,
			strings.Join(scenes.Names(), ", "))
	}
	if len(names) == 1 && names[0] == "all" {
		names = scenes.Names()
	}
	var list []*scenes.Script
	for _, n := range names {
		sc, err := scenes.Lookup(n)
		if err != nil {
			return err
		}
		list = append(list, sc)
	}

	dir := a.prefs.RenderDir
	if err := a.store.MkdirAll(dir); err != nil {
		return err
	}
	e := scenes.Env{Log: a.logger(dir), Store: a.store, Engine: a.engine(), Dir: dir}
	if quick {
		e.Adjust = func(rs *scene.RenderSettings) {
			rs.ResolutionX = max(rs.ResolutionX/4, 1)
			rs.ResolutionY = max(rs.ResolutionY/4, 1)
			rs.Samples = max(rs.Samples/8, 1)
		}
	}
	for _, sc := range list {
		if _, err := scenes.Run(ctx, sc, e); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) verify(ctx context.Context) error {
	dir := a.prefs.TestDir
	res := verify.Run(ctx, verify.Env{
		Log:     logger.New(a.out, nil, ""),
		Styler:  report.NewStyler(a.out),
		Store:   a.store,
		Devices: gpu.WebGPU{},
		GPU:     a.gpu,
		CPU:     a.cpu,
		Dir:     dir,
		Build:   version.Build(),
	})
	if !res.OK() {
		return errChecksFailed
	}
	return nil
}

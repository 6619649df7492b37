// Package cli implements the tagedge command line: load an image, run the
// threshold engine and write the edge map plus optional debug renderings.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tagedge/internal/config"
	"tagedge/internal/imaging"
	"tagedge/internal/logger"
	"tagedge/internal/pipeline"
)

// Wiring supplies extra pipeline options once the logger exists, such as
// the OpenCV codec.
type Wiring func(log logger.Logger) []pipeline.Option

type flags struct {
	configPath string
	threads    int
	debug      string
	offset     int
	scaleType  int
	scaleSize  int
	window     int
	output     string
	overlay    string
	debugOut   string
	classOut   string
}

// NewCommand builds the root command. stdout receives the run summary,
// stderr the log.
func NewCommand(stdout, stderr io.Writer, wiring Wiring) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   "tagedge <image>",
		Short: "Adaptive mean thresholding and edge extraction",
		Long: `tagedge thresholds an image against the mean of a square window around
each pixel, minus an offset, and writes the boundary pixels of the
resulting filled regions as an edge map.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(f, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			return run(cmd.Context(), args[0], cfg, f, stdout, stderr, wiring)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "TOML file applied over the defaults")
	fs.IntVarP(&f.threads, "threads", "t", 1, "worker count; 2 splits the image in halves")
	fs.StringVarP(&f.debug, "debug", "d", "", "l: debug log, v: visual debug, d: both, t: timing")
	fs.IntVar(&f.offset, "offset", 10, "subtracted from the window mean")
	fs.IntVar(&f.scaleType, "scale-type", 0, "0 fast, 1 averaging, 2 native")
	fs.IntVar(&f.scaleSize, "scale-size", 320, "longest side of the working grid; non-positive is ignored")
	fs.IntVarP(&f.window, "window", "w", 48, "window side; non-positive is ignored")
	fs.StringVarP(&f.output, "output", "o", "", "edge map path (default <image>_edges.png)")
	fs.StringVar(&f.overlay, "overlay", "", "write edges drawn over the source to this path")
	fs.StringVar(&f.debugOut, "debug-out", "", "visual debug path (default <image>_debug.png)")
	fs.StringVar(&f.classOut, "classification", "", "write the filled/blank map to this path")

	return cmd
}

// loadConfig starts from the defaults or the config file and applies the
// flags the user set.
func loadConfig(f *flags, changed func(string) bool) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if changed("threads") {
		cfg.Workers = f.threads
	}
	if changed("debug") {
		switch f.debug {
		case "l":
			cfg.Debug = true
		case "v":
			cfg.VisualDebug = true
		case "d":
			cfg.Debug = true
			cfg.VisualDebug = true
		case "t":
		default:
			return cfg, fmt.Errorf("unknown debug mode %q (want l, v, d or t)", f.debug)
		}
	}
	if changed("offset") {
		cfg.Offset = f.offset
	}
	if changed("scale-type") {
		cfg.SetScaleType(config.ParseScaleType(f.scaleType))
	}
	if changed("scale-size") && f.scaleSize > 0 {
		cfg.ScaleSize = f.scaleSize
	}
	if changed("window") && f.window > 0 {
		cfg.WindowSize = f.window
	}
	if changed("classification") && f.classOut != "" {
		cfg.KeepClassification = true
	}

	return cfg, cfg.Validate()
}

func newLogger(stderr io.Writer, cfg config.Config) logger.Logger {
	level := logger.LevelFromEnv()
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	return logger.NewZerolog(zerolog.ConsoleWriter{Out: stderr, TimeFormat: "15:04:05"}, level)
}

func run(ctx context.Context, input string, cfg config.Config, f *flags, stdout, stderr io.Writer, wiring Wiring) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := newLogger(stderr, cfg)

	var opts []pipeline.Option
	if wiring != nil {
		opts = wiring(log)
	}
	coordinator, err := pipeline.NewCoordinator(cfg, log, opts...)
	if err != nil {
		return err
	}
	defer coordinator.Shutdown()

	if _, err := coordinator.LoadFile(input); err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	data, err := coordinator.Process(ctx)
	if err != nil {
		return fmt.Errorf("process %s: %w", input, err)
	}

	outputs := []output{
		{pathOr(f.output, input, "edges"), coordinator.SaveEdges},
		{f.overlay, coordinator.SaveOverlay},
		{f.classOut, coordinator.SaveClassification},
	}
	if cfg.VisualDebug {
		outputs = append(outputs, output{pathOr(f.debugOut, input, "debug"), coordinator.SaveDebug})
	}

	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.save); err != nil {
			return err
		}
	}

	res := data.Result
	fmt.Fprintf(stdout, "%s: grid %dx%d scale %.3f edges %d\n",
		filepath.Base(input), res.Width, res.Height, res.Scale, res.EdgeCount())
	if f.debug == "t" || cfg.Debug {
		fmt.Fprintf(stdout, "threshold time: %s\n", data.Duration)
	}
	return nil
}

type output struct {
	path string
	save func(io.Writer, string) error
}

// pathOr returns path, or <input stem>_<suffix>.png beside the input.
func pathOr(path, input, suffix string) string {
	if path != "" {
		return path
	}
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	return stem + "_" + suffix + ".png"
}

func writeFile(path string, save func(io.Writer, string) error) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := save(file, imaging.FormatFromPath(path)); err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

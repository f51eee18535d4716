// Command pixbuf inspects and converts raster images with the pixbuf
// library.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/internal/parallel"
)

var version = "0.1.0"

var (
	verbose    bool
	workers    int
	outPath    string
	outFormat  string
	outQuality int
)

var rootCmd = &cobra.Command{
	Use:   "pixbuf",
	Short: "Inspect and convert raster images",
	Long: `pixbuf loads images into native pixel formats, converts between
formats and color spaces, applies geometric transforms and writes masks.

Commands that produce images take inputs followed by -o. With one input
-o names the output file; with several it names a directory. The form
"pixbuf convert in.png out.webp" is accepted as well.`,
	Version:          version,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		pixbuf.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log conversion decisions")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "parallel workers (0 = GOMAXPROCS)")
	rootCmd.SetVersionTemplate(fmt.Sprintf("pixbuf %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version()))
}

// addOutputFlags registers the flags shared by commands that write images.
func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outPath, "output", "o", "", "output file, or directory for several inputs")
	c.Flags().StringVar(&outFormat, "format", "", "output codec (default: from the output extension)")
	c.Flags().IntVarP(&outQuality, "quality", "q", -1, "quality 0-100 for lossy codecs (-1 = codec default)")
}

type task struct {
	in, out string
}

// plan pairs inputs with output paths.
func plan(args []string) ([]task, error) {
	if outPath == "" {
		if len(args) != 2 {
			return nil, errors.New("need -o or exactly one input and one output")
		}
		return []task{{args[0], args[1]}}, nil
	}
	if len(args) == 1 {
		return []task{{args[0], outPath}}, nil
	}
	if err := os.MkdirAll(outPath, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	tasks := make([]task, len(args))
	for i, in := range args {
		name := filepath.Base(in)
		if outFormat != "" {
			name = strings.TrimSuffix(name, filepath.Ext(name)) + "." + outFormat
		}
		tasks[i] = task{in, filepath.Join(outPath, name)}
	}
	return tasks, nil
}

// runEach loads every input, applies fn and saves the result, running the
// inputs on a worker pool.
func runEach(args []string, fn func(*pixbuf.Image) (*pixbuf.Image, error)) error {
	tasks, err := plan(args)
	if err != nil {
		return err
	}
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	jobs := make([]parallel.Job, len(tasks))
	for i, t := range tasks {
		jobs[i] = func() error {
			img, err := pixbuf.LoadFile(t.in, pixbuf.LoadOptions{AutoTransform: true})
			if err != nil {
				return err
			}
			defer img.Release()
			res, err := fn(img)
			if err != nil {
				return fmt.Errorf("%s: %w", t.in, err)
			}
			if res.IsNull() {
				return fmt.Errorf("%s: operation produced no image", t.in)
			}
			defer res.Release()
			if err := res.SaveFile(t.out, pixbuf.SaveOptions{Format: outFormat, Quality: outQuality}); err != nil {
				return fmt.Errorf("%s: %w", t.out, err)
			}
			pixbuf.Logger().Debug("wrote", "in", t.in, "out", t.out, "image", res)
			return nil
		}
	}
	return errors.Join(pool.Run(jobs)...)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pixbuf:", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/internal/parallel"
)

var infoCmd = &cobra.Command{
	Use:   "info <files...>",
	Short: "Print format, size and content digest of images",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

type imageInfo struct {
	path    string
	format  pixbuf.Format
	w, h    int
	depth   int
	alpha   bool
	gray    bool
	digest  string
	loadErr error
}

func runInfo(_ *cobra.Command, args []string) error {
	infos := make([]imageInfo, len(args))
	pool := parallel.NewWorkerPool(workers)
	defer pool.Close()

	jobs := make([]parallel.Job, len(args))
	for i, path := range args {
		jobs[i] = func() error {
			info := imageInfo{path: path}
			img, err := pixbuf.LoadFile(path, pixbuf.LoadOptions{})
			if err != nil {
				info.loadErr = err
				infos[i] = info
				return nil
			}
			defer img.Release()
			info.format = img.Format()
			info.w, info.h = img.Width(), img.Height()
			info.depth = img.Depth()
			info.alpha = img.HasAlphaPixels()
			info.gray = img.IsGrayscale()
			info.digest = img.DigestHex()
			infos[i] = info
			return nil
		}
	}
	pool.Run(jobs)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tFORMAT\tSIZE\tDEPTH\tALPHA\tGRAY\tDIGEST")
	failed := 0
	for _, in := range infos {
		if in.loadErr != nil {
			fmt.Fprintf(os.Stderr, "pixbuf: %v\n", in.loadErr)
			failed++
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%dx%d\t%d\t%t\t%t\t%s\n",
			in.path, in.format, in.w, in.h, in.depth, in.alpha, in.gray, in.digest)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be read", failed, len(args))
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixbuf"
)

var (
	maskAlpha     bool
	maskHeuristic bool
	maskLoose     bool
	maskColor     string
	maskOut       bool
)

var maskCmd = &cobra.Command{
	Use:   "mask <in...> [out]",
	Short: "Write a 1-bit mask of each image",
	Long: `Write a 1-bit mask derived from the alpha channel (--alpha), a guessed
background color (--heuristic) or an exact color (--color #RRGGBB).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMask,
}

func init() {
	maskCmd.Flags().BoolVar(&maskAlpha, "alpha", false, "mask from the alpha channel")
	maskCmd.Flags().BoolVar(&maskHeuristic, "heuristic", false, "mask out the background color found in the corners")
	maskCmd.Flags().BoolVar(&maskLoose, "loose", false, "grow the heuristic mask by one pixel")
	maskCmd.Flags().StringVar(&maskColor, "color", "", "mask pixels of this color, #RRGGBB or #AARRGGBB")
	maskCmd.Flags().BoolVar(&maskOut, "invert", false, "with --color, mask everything but the color")
	maskCmd.MarkFlagsMutuallyExclusive("alpha", "heuristic", "color")
	addOutputFlags(maskCmd)
	rootCmd.AddCommand(maskCmd)
}

func parseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad color %q: %w", s, err)
	}
	switch len(hex) {
	case 6:
		return uint32(v) | 0xff000000, nil
	case 8:
		return uint32(v), nil
	}
	return 0, fmt.Errorf("bad color %q: want #RRGGBB or #AARRGGBB", s)
}

func runMask(_ *cobra.Command, args []string) error {
	var op func(*pixbuf.Image) *pixbuf.Image
	switch {
	case maskAlpha:
		op = func(img *pixbuf.Image) *pixbuf.Image { return img.CreateAlphaMask(0) }
	case maskHeuristic:
		op = func(img *pixbuf.Image) *pixbuf.Image { return img.CreateHeuristicMask(!maskLoose) }
	case maskColor != "":
		c, err := parseColor(maskColor)
		if err != nil {
			return err
		}
		mode := pixbuf.MaskInColor
		if maskOut {
			mode = pixbuf.MaskOutColor
		}
		op = func(img *pixbuf.Image) *pixbuf.Image {
			// Compare in ARGB32 so the color means the same for every format.
			argb := img.ConvertToFormat(pixbuf.FormatARGB32, 0)
			defer argb.Release()
			return argb.CreateMaskFromColor(c, mode)
		}
	default:
		return fmt.Errorf("give --alpha, --heuristic or --color")
	}
	return runEach(args, func(img *pixbuf.Image) (*pixbuf.Image, error) {
		m := op(img)
		if m.IsNull() {
			return nil, fmt.Errorf("%s has no mask of this kind", img.Format())
		}
		return m, nil
	})
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/pixbuf"
	"github.com/gogpu/pixbuf/colorspace"
)

var (
	convertTo         string
	convertColorSpace string
	convertDither     string
)

var convertCmd = &cobra.Command{
	Use:     "convert <in...> [out]",
	Short:   "Convert images to another pixel format or color space",
	Example: `  pixbuf convert --to Indexed8 --dither ordered in.png out.png
  pixbuf convert --colorspace displayp3 -o out/ a.png b.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "target pixel format, e.g. RGB888, Grayscale8, Indexed8")
	convertCmd.Flags().StringVar(&convertColorSpace, "colorspace", "", "target color space ("+strings.Join(colorSpaceNames(), ", ")+")")
	convertCmd.Flags().StringVar(&convertDither, "dither", "", "dithering for reduced formats: diffuse, ordered, threshold")
	addOutputFlags(convertCmd)
	rootCmd.AddCommand(convertCmd)
}

var colorSpaces = map[string]colorspace.ColorSpace{
	"srgb":        colorspace.SRGB,
	"srgb-linear": colorspace.SRGBLinear,
	"adobergb":    colorspace.AdobeRGB,
	"displayp3":   colorspace.DisplayP3,
	"prophoto":    colorspace.ProPhotoRGB,
	"bt2020":      colorspace.BT2020,
	"bt2100-pq":   colorspace.BT2100PQ,
	"bt2100-hlg":  colorspace.BT2100HLG,
}

func colorSpaceNames() []string {
	return []string{"srgb", "srgb-linear", "adobergb", "displayp3", "prophoto", "bt2020", "bt2100-pq", "bt2100-hlg"}
}

func parseDither(s string) (pixbuf.ConversionFlags, error) {
	switch strings.ToLower(s) {
	case "", "diffuse":
		return pixbuf.DiffuseDither | pixbuf.DiffuseAlphaDither, nil
	case "ordered":
		return pixbuf.OrderedDither | pixbuf.OrderedAlphaDither | pixbuf.PreferDither, nil
	case "threshold":
		return pixbuf.ThresholdDither | pixbuf.ThresholdAlphaDither, nil
	}
	return 0, fmt.Errorf("unknown dither mode %q", s)
}

func runConvert(_ *cobra.Command, args []string) error {
	if convertTo == "" && convertColorSpace == "" {
		return fmt.Errorf("nothing to do: give --to or --colorspace")
	}
	to := pixbuf.FormatInvalid
	if convertTo != "" {
		if to = pixbuf.ParseFormat(convertTo); to == pixbuf.FormatInvalid {
			return fmt.Errorf("unknown pixel format %q", convertTo)
		}
	}
	var cs colorspace.ColorSpace
	if convertColorSpace != "" {
		var ok bool
		if cs, ok = colorSpaces[strings.ToLower(convertColorSpace)]; !ok {
			return fmt.Errorf("unknown color space %q", convertColorSpace)
		}
	}
	flags, err := parseDither(convertDither)
	if err != nil {
		return err
	}

	return runEach(args, func(img *pixbuf.Image) (*pixbuf.Image, error) {
		res := img.Share()
		if cs.IsValid() {
			if !img.ColorSpace().IsValid() {
				// Untagged data is assumed to be sRGB.
				res.SetColorSpace(colorspace.SRGB)
			}
			res.ConvertToColorSpace(cs)
		}
		if to != pixbuf.FormatInvalid {
			res.ConvertTo(to, flags)
		}
		return res, nil
	})
}

// Package pixbuf provides an in-memory raster image in any of several
// dozen native pixel formats, with conversions between them.
//
// # Overview
//
// An [Image] is a handle to a reference-counted pixel buffer. Copies made
// with [Image.Share] are cheap and share the buffer until one of them is
// written to, at which point the writer gets a private copy. Operations
// that fail return a null image (see [Image.IsNull]) and log a warning
// rather than returning an error; only the I/O boundary returns errors.
//
// # Quick Start
//
//	img := pixbuf.New(640, 480, pixbuf.FormatARGB32)
//	img.Fill(pixbuf.RGB(200, 30, 30))
//
//	gray := img.ConvertToFormat(pixbuf.FormatGrayscale8, 0)
//	small := gray.Scaled(160, 120, pixbuf.KeepAspectRatio, pixbuf.SmoothTransformation)
//
//	if err := small.SaveFile("small.png", pixbuf.SaveOptions{Quality: -1}); err != nil {
//		log.Fatal(err)
//	}
//
// # Formats
//
// Formats cover 1-bit and 8-bit indexed data, packed 16 and 24-bit RGB,
// 32-bit RGB in both byte orders, 10-bit RGB30 variants, 16-bit and
// floating point channels, grayscale, alpha-only and CMYK. Each [Format]
// has a [PixelFormat] descriptor with its channel sizes and alpha
// semantics. Conversions between any two formats are available; pairs
// without a direct kernel go through a generic path at 8, 16 or 32-bit
// float precision, picked from the two formats.
//
// # Color spaces
//
// Images can be tagged with a [colorspace.ColorSpace] and converted
// between spaces with [Image.ConvertToColorSpace] and
// [Image.ColorTransformed]. Large images are transformed in parallel row
// bands.
//
// # Interop
//
// [Image.View] adapts any image to [image/draw.Image], [FromImage] imports
// standard library images, and [Load] and [Image.Save] read and write PNG,
// JPEG, GIF, BMP, TIFF and WebP.
//
// # Logging
//
// Nothing is logged by default. Install a logger with [SetLogger] to see
// warnings about invalid arguments and, at debug level, conversion
// routing decisions.
package pixbuf

package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"runtime"

	"github.com/esimov/ttficon"
	"github.com/esimov/ttficon/utils"
	"golang.org/x/image/font"
)

const helpBanner = `
┌┬┐┌┬┐┌─┐┬┌─┐┌─┐┌┐┌
 │  │ ├┤ ││  │ ││││
 ┴  ┴ └  ┴└─┘└─┘┘└┘

Render font glyphs into bitmap icons.
    Version: %s

`

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

// Version indicates the current build version.
var Version string

func main() {
	log.SetFlags(0)

	var (
		// Flags
		fontName  = flag.String("font", "Go", "Font file, URL or a bundled font family")
		style     = flag.String("style", "", "Font style used with a font family (Regular, Bold, Italic...)")
		chars     = flag.String("char", "", "Character(s) to render")
		source    = flag.String("in", "", "Source image, rendered as a bitmap icon instead of a glyph")
		dest      = flag.String("out", pipeName, "Destination file or directory")
		hexColor  = flag.String("color", "", "Icon color in hexadecimal notation (#rrggbb[aa])")
		size      = flag.Float64("size", 0, "Icon size in points; defaults to 24 for glyphs and to the original height for images")
		format    = flag.String("format", "", "Output format: png, jpg, bmp, gif, ico")
		dpi       = flag.Float64("dpi", ttficon.DefaultDPI, "Rendering resolution")
		hinting   = flag.String("hinting", "full", "Glyph hinting: none, vertical, full")
		engine    = flag.String("engine", "sfnt", "Rasterizer engine: sfnt, freetype")
		workers   = flag.Int("conc", runtime.NumCPU(), "Number of glyphs to render concurrently")
		listFonts = flag.Bool("list", false, "List the bundled font families")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, helpBanner, Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listFonts {
		for _, family := range ttficon.DefaultRegistry().Families() {
			fmt.Println(family)
		}
		return
	}

	if *chars == "" && *source == "" {
		flag.Usage()
		log.Fatal(utils.DecorateText("\nPlease provide a character or a source image!", utils.ErrorMessage))
	}

	eng, err := ttficon.ParseEngine(*engine)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}
	hint, err := parseHinting(*hinting)
	if err != nil {
		log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
	}

	var col color.Color
	if *hexColor != "" {
		c, err := utils.HexToNRGBA(*hexColor)
		if err != nil {
			log.Fatal(utils.DecorateText(err.Error(), utils.ErrorMessage))
		}
		col = c
	}

	op := &ttficon.Ops{
		Font:     *fontName,
		Style:    *style,
		Chars:    *chars,
		Src:      *source,
		Dst:      *dest,
		PipeName: pipeName,
		Format:   *format,
		Color:    col,
		Size:     *size,
		Workers:  *workers,
	}
	rast := &ttficon.Rasterizer{
		DPI:     *dpi,
		Hinting: hint,
		Engine:  eng,
	}

	if err := op.Execute(rast); err != nil {
		log.Fatalf("%s %s",
			utils.DecorateText("\nError rendering the icon:", utils.ErrorMessage),
			utils.DecorateText(err.Error(), utils.DefaultMessage),
		)
	}
}

func parseHinting(h string) (font.Hinting, error) {
	switch h {
	case "none":
		return font.HintingNone, nil
	case "vertical":
		return font.HintingVertical, nil
	case "full", "":
		return font.HintingFull, nil
	}
	return font.HintingNone, fmt.Errorf("unsupported hinting: %q", h)
}

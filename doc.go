/*
Package ttficon renders single characters of a TrueType or OpenType font into bitmap icons
of a given color and size, and wraps them into derivable icons, which can produce
re-colored or re-sized variants of themselves by rasterizing the glyph again.

The package provides a command line interface too, which supports rendering one or more
glyphs into PNG, JPEG, BMP, GIF or ICO files. To check the supported flags type:

	$ ttficon --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"image/color"

		"github.com/esimov/ttficon"
	)

	func main() {
		font, err := ttficon.DefaultRegistry().Lookup("Go", "Regular")
		if err != nil {
			fmt.Printf("Error resolving the font: %s", err.Error())
		}

		icon, err := ttficon.NewIcon(font, 'A')
		if err != nil {
			fmt.Printf("Error rendering the icon: %s", err.Error())
		}

		red, err := icon.WithColor(color.NRGBA{R: 0xff, A: 0xff})
		if err != nil {
			fmt.Printf("Error deriving the icon: %s", err.Error())
		}
		_ = red.Image()
	}
*/
package ttficon

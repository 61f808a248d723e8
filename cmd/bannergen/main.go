// Command bannergen renders the project banner and badge PNGs.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/martinemde/tinagent/banner"
)

func main() {
	var (
		out      string
		title    string
		subtitle string
	)
	pflag.StringVarP(&out, "out", "o", "assets", "output directory")
	pflag.StringVar(&title, "title", "TINAGENT", "banner title text")
	pflag.StringVar(&subtitle, "subtitle", "A minimal agent loop in Go", "banner subtitle text")
	pflag.Parse()

	if err := banner.WriteAll(out, title, subtitle); err != nil {
		fmt.Fprintf(os.Stderr, "bannergen: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s/banner.png and %s/badge.png\n", out, out)
}

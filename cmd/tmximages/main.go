package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/retroblast-engine/tmx"
	"go.uber.org/zap"
)

func printUsage() {
	fmt.Println("Usage: tmximages [flags] <mapfile>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}

func listLayers(mapfile string, decode bool, log *zap.Logger) error {
	layers, err := tmx.LoadImageLayers(mapfile, tmx.WithLogger(log))
	if err != nil {
		return err
	}

	for _, l := range layers {
		fmt.Printf("%d %q visible=%t repeatx=%t repeaty=%t\n", l.ID, l.Name, l.Visible, l.RepeatX, l.RepeatY)

		if l.Image == nil {
			fmt.Println("  no image")
		} else {
			src := l.Image.Source
			if src == "" {
				src = fmt.Sprintf("embedded %s, %d bytes", l.Image.Format, len(l.Image.Data))
			}
			fmt.Printf("  image %s %dx%d\n", src, l.Image.Width, l.Image.Height)

			if decode {
				m, err := l.Image.Decode()
				if err != nil {
					return err
				}
				fmt.Println("  decoded bounds", m.Bounds())
			}
		}

		names := make([]string, 0, len(l.Properties))
		for name := range l.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := l.Properties[name]
			fmt.Printf("  property %s (%s) = %v\n", name, v.Type(), v)
		}
	}

	return nil
}

func main() {
	verbose := flag.Bool("v", false, "Log skipped elements")
	decode := flag.Bool("decode", false, "Decode each image and print its bounds")

	flag.Parse()

	if flag.NArg() != 1 {
		printUsage()
		os.Exit(2)
	}

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error creating logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := listLayers(flag.Arg(0), *decode, log); err != nil {
		log.Error("Failed to list image layers", zap.String("map", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/unixpickle/dialmesh"
	"github.com/unixpickle/dialmesh/export"
	"github.com/unixpickle/dialmesh/glyph"
	"github.com/unixpickle/dialmesh/layout"
	"github.com/unixpickle/dialmesh/preview"
)

func main() {
	fontPath := flag.String("font", "", "path to TTF/OTF font file")
	configPath := flag.String("config", "", "path to TOML config file")
	outPath := flag.String("out", "", "output ZIP archive path")
	stlPath := flag.String("stl", "", "output path for the combined STL")
	previewPath := flag.String("preview", "", "output path for a dial preview PNG")

	inner := flag.Float64("inner", 0, "inner dial radius in mm (overrides config)")
	outer := flag.Float64("outer", 0, "outer dial radius in mm (overrides config)")
	depth := flag.Float64("depth", 0, "extrusion depth in mm (overrides config)")
	roman := flag.Bool("roman", false, "use Roman numerals")
	cardinals := flag.Bool("cardinals", false, "generate only 12, 3, 6 and 9")
	upright := flag.Bool("upright", false, "keep numerals upright instead of rotating toward center")
	seed := flag.Int64("seed", 0, "override distortion seeds (0 keeps config seeds)")
	segs := flag.Int("segs", 0, "curve segments per quadratic (overrides config)")
	kerning := flag.Bool("kerning", true, "enable kerning")
	spacing := flag.Float64("spacing", 1.0, "letter spacing multiplier")
	allowUnrepaired := flag.Bool("allow-unrepaired", false, "export meshes whose repair failed")
	flag.Parse()

	if *fontPath == "" || (*outPath == "" && *stlPath == "" && *previewPath == "") {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := dialmesh.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = dialmesh.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *inner > 0 {
		cfg.InnerRadius = *inner
	}
	if *outer > 0 {
		cfg.OuterRadius = *outer
	}
	if *depth > 0 {
		cfg.ExtrusionDepth = *depth
	}
	if *roman {
		cfg.Numbering = layout.Roman
	}
	if *cardinals {
		cfg.Slots = layout.Cardinals
	}
	if *upright {
		cfg.Upright = true
	}
	if *segs > 0 {
		cfg.CurveSegments = *segs
	}
	if *seed != 0 {
		// Distinct per spec so stacked distortions stay decorrelated.
		for i := range cfg.Distortion.Specs {
			cfg.Distortion.Specs[i].Seed = *seed + int64(i)
		}
	}

	font, err := glyph.LoadFont(*fontPath)
	if err != nil {
		log.Fatalf("load font: %v", err)
	}
	src := &glyph.Source{
		Font: font,
		Options: glyph.Options{
			CurveSegments: cfg.CurveSegments,
			Kerning:       *kerning,
			Spacing:       *spacing,
		},
	}

	results, err := dialmesh.Generate(ctx, cfg, src)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("warning: %v", r.Err)
		}
	}
	if failed > 0 {
		log.Printf("%d of %d slots failed", failed, len(results))
	}

	asm := dialmesh.Assemble(results, *allowUnrepaired)
	if len(asm.Entries()) == 0 {
		log.Fatalf("no numerals generated")
	}

	if *previewPath != "" {
		opts := preview.Options{InnerRadius: cfg.InnerRadius, OuterRadius: cfg.OuterRadius}
		if err := preview.Render(*previewPath, results, opts); err != nil {
			log.Fatalf("render preview: %v", err)
		}
		fmt.Printf("wrote %s\n", *previewPath)
	}

	if *stlPath != "" {
		if err := export.SaveSTL(*stlPath, asm.Combined()); err != nil {
			log.Fatalf("write STL: %v", err)
		}
		fmt.Printf("wrote %s\n", *stlPath)
	}

	if *outPath != "" {
		var previewBytes []byte
		if *previewPath != "" {
			previewBytes, err = os.ReadFile(*previewPath)
			if err != nil {
				log.Fatalf("read preview: %v", err)
			}
		}
		fontName := filepath.Base(*fontPath)
		if err := export.WriteArchive(*outPath, asm, cfg, fontName, previewBytes); err != nil {
			log.Fatalf("write archive: %v", err)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
}

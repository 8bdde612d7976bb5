package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"rectseg/pkg/config"
	"rectseg/pkg/reconstruction"
	"rectseg/pkg/segment"
)

// report is the YAML document printed with -format yaml
type report struct {
	Input   string                           `yaml:"input"`
	Width   int                              `yaml:"width"`
	Height  int                              `yaml:"height"`
	Result  segment.Result                   `yaml:"result"`
	Metrics reconstruction.ValidationMetrics `yaml:"metrics"`
	Seconds float64                          `yaml:"seconds"`
}

func main() {
	// Parse command line arguments
	inputPath := flag.String("input", "", "Image to segment (png, jpeg, gif, bmp, tiff, webp)")
	configPath := flag.String("config", "rectseg.yaml", "YAML configuration file (defaults are used if it does not exist)")
	workers := flag.Int("workers", -1, "Goroutines scoring rectangles (overrides config; 1 runs sequentially)")
	format := flag.String("format", "", "Output format: text or yaml (overrides config)")
	renderPath := flag.String("render", "", "Save the two-color reconstruction to this file")
	overlayPath := flag.String("overlay", "", "Save the input with the best rectangle outlined to this file")
	maxPixels := flag.Int("max-pixels", -1, "Refuse images with more pixels, 0 for no limit (overrides config)")
	verbose := flag.Bool("v", false, "Enable debug logging")
	writeConfig := flag.String("write-config", "", "Write the default configuration to this path and exit")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *writeConfig != "" {
		if err := config.CreateDefaultConfigFile(*writeConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		log.WithField("path", *writeConfig).Info("default configuration written")
		return
	}

	if *inputPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags override the configuration file
	if *workers >= 0 {
		cfg.Search.Workers = *workers
	}
	if *format != "" {
		cfg.Output.Format = *format
	}
	if *renderPath != "" {
		cfg.Output.RenderPath = *renderPath
	}
	if *overlayPath != "" {
		cfg.Output.OverlayPath = *overlayPath
	}
	if *maxPixels >= 0 {
		cfg.Input.MaxPixels = *maxPixels
	}
	if *verbose {
		cfg.Output.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	params := &reconstruction.Params{
		InputPath:       *inputPath,
		Scale:           cfg.Input.Scale,
		MaxPixels:       cfg.Input.MaxPixels,
		Workers:         cfg.Search.Workers,
		RejectNonFinite: cfg.Search.RejectNonFinite,
		RenderPath:      cfg.Output.RenderPath,
		OverlayPath:     cfg.Output.OverlayPath,
		Logger:          log,
	}

	reconstructor := reconstruction.NewReconstructor(params)
	if err := reconstructor.Process(); err != nil {
		log.Fatalf("Segmentation failed: %v", err)
	}

	if err := printReport(os.Stdout, cfg.Output.Format, *inputPath, reconstructor); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}

func printReport(w io.Writer, format, input string, r *reconstruction.Reconstructor) error {
	res := r.GetResult()
	m := r.GetMetrics()
	approx := r.GetApproximation()

	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(report{
			Input:   input,
			Width:   approx.Width,
			Height:  approx.Height,
			Result:  res,
			Metrics: m,
			Seconds: r.Elapsed().Seconds(),
		})
	}

	fmt.Fprintf(w, "Input: %s (%dx%d)\n", input, approx.Width, approx.Height)
	fmt.Fprintf(w, "Rectangle: x0=%d y0=%d x1=%d y1=%d\n", res.X0, res.Y0, res.X1, res.Y1)
	fmt.Fprintf(w, "Inner color: %.6f %.6f %.6f\n", res.Inner[0], res.Inner[1], res.Inner[2])
	fmt.Fprintf(w, "Outer color: %.6f %.6f %.6f\n", res.Outer[0], res.Outer[1], res.Outer[2])
	fmt.Fprintf(w, "SSE: %.6f\n", res.SSE)
	fmt.Fprintf(w, "\nReconstruction metrics:\n")
	fmt.Fprintf(w, "- RMSE: %.6f\n", m.RMSE)
	fmt.Fprintf(w, "- PSNR: %.2f dB\n", m.PSNR)
	fmt.Fprintf(w, "- Explained variance: %.4f\n", m.ExplainedVariance)
	fmt.Fprintf(w, "Search time: %.3f seconds\n", r.Elapsed().Seconds())
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gompdf/cvpdf"
	"github.com/gompdf/cvpdf/internal/res"
	"github.com/gompdf/cvpdf/logging"
)

func main() {
	var (
		inputFile  string
		outputBase string
		templateID int
		singlePass bool
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Rendered CV preview HTML file path or URL")
	flag.StringVar(&outputBase, "output", "", "Output base path (writes <base>.html and <base>.css)")
	flag.IntVar(&templateID, "template", 1, "Template id")
	flag.BoolVar(&singlePass, "single-pass", false, "Pack every page by accumulated height")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}

	if outputBase == "" {
		ext := filepath.Ext(inputFile)
		outputBase = strings.TrimSuffix(inputFile, ext) + ".print"
	}

	if verbose {
		logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	ctx := context.Background()
	input, err := res.NewLoader("").LoadHTML(ctx, inputFile)
	if err != nil {
		fmt.Printf("Error reading input: %v\n", err)
		os.Exit(1)
	}

	opts := []cvpdf.Option{
		cvpdf.WithDebug(verbose),
		cvpdf.WithResourcePath(filepath.Dir(inputFile)),
		cvpdf.WithExternalResources(true),
	}
	if singlePass {
		opts = append(opts, cvpdf.WithPackMode(cvpdf.PackSinglePass))
	}
	creator := cvpdf.New(nil, opts...)

	bundle, err := creator.CreatePdfDataFromHTML(ctx, templateID, input.String())
	if err != nil {
		fmt.Printf("Error creating PDF data: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputBase+".html", []byte(bundle.HTML), 0o644); err != nil {
		fmt.Printf("Error writing HTML: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outputBase+".css", []byte(bundle.CSS), 0o644); err != nil {
		fmt.Printf("Error writing CSS: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Successfully paginated %s into %d page(s): %s.html, %s.css\n",
			inputFile, bundle.Pages, outputBase, outputBase)
	}
}

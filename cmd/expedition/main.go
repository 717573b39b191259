package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marquage/expedition"
	"github.com/marquage/expedition/internal/logging"
	"github.com/marquage/expedition/internal/source"
)

func main() {
	var (
		inputFile  string
		outputFile string
		variant    string
		format     string
		dateStart  string
		dateEnd    string
		logoPath   string
		fontPath   string
		verbose    bool
	)

	flag.StringVar(&inputFile, "input", "", "Input rows JSON file path")
	flag.StringVar(&outputFile, "output", "", "Output file path")
	flag.StringVar(&variant, "variant", "", "Report variant")
	flag.StringVar(&format, "format", "pdf", "Output format (pdf or html)")
	flag.StringVar(&dateStart, "start", "", "Period start date")
	flag.StringVar(&dateEnd, "end", "", "Period end date")
	flag.StringVar(&logoPath, "logo", "", "Logo image path")
	flag.StringVar(&fontPath, "font", "", "TrueType font path")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if inputFile == "" {
		fmt.Println("Error: input file is required")
		flag.Usage()
		os.Exit(1)
	}
	if format != "pdf" && format != "html" {
		fmt.Printf("Error: unknown format %q\n", format)
		os.Exit(1)
	}

	if outputFile == "" {
		ext := filepath.Ext(inputFile)
		outputFile = inputFile[:len(inputFile)-len(ext)] + "." + format
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logging.SetLogger(logging.New(os.Stderr, level, "text"))

	ctx := context.Background()
	rows, err := source.File{Path: inputFile}.Rows(ctx, source.Query{})
	if err != nil {
		fmt.Printf("Error reading rows: %v\n", err)
		os.Exit(1)
	}

	options := expedition.DefaultOptions()
	for _, opt := range []expedition.Option{
		expedition.WithVariant(variant),
		expedition.WithLogo(logoPath),
		expedition.WithFont(fontPath),
		expedition.WithDebug(verbose),
		expedition.WithResourcePath(filepath.Dir(inputFile)),
	} {
		opt(&options)
	}
	generator, err := expedition.NewWithOptions(options)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	period := expedition.Period{Start: dateStart, End: dateEnd}
	if format == "html" {
		err = writeHTML(ctx, generator, outputFile, rows, period)
	} else {
		err = generator.GenerateFile(ctx, outputFile, rows, period)
	}
	if err != nil {
		fmt.Printf("Error generating report: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Printf("Successfully wrote %d rows to %s (%d pages)\n",
			len(rows), outputFile, generator.PageCount(len(rows)))
	}
}

func writeHTML(ctx context.Context, g *expedition.Generator, path string, rows []expedition.Row, period expedition.Period) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.GenerateHTML(ctx, f, rows, period); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

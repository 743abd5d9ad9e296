package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paisawise/transaction-intelligence/internal/api"
	"github.com/paisawise/transaction-intelligence/internal/config"
	"github.com/paisawise/transaction-intelligence/internal/extractor"
	"github.com/paisawise/transaction-intelligence/internal/rules"
	"github.com/paisawise/transaction-intelligence/internal/writer"
)

func main() {
	sourceFlag := flag.String("source", "", "Label recorded as the source of parsed transactions (defaults to the input filename)")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	rulesFlag := flag.String("rules", "", "Path to a JSON file of categorization rules")
	headerFlag := flag.Bool("header", true, "Include the header row in CSV output")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Analyzer

Parses bank statement PDFs or plain-text exports into structured
transactions, redacts personal data, detects recurring subscriptions
and flags anomalous spending.

Usage:
  analyze [flags] <statement.pdf|statement.txt> [more files ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze a PDF statement
  analyze statement.pdf

  # Analyze a plain-text export with categorization rules
  analyze --rules=rules.json statement.txt

  # Custom output path
  analyze --output=transactions.csv statement.pdf
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("analyze v%s\n", api.Version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.Load()

	var ruleset []rules.Rule
	if *rulesFlag != "" {
		data, err := os.ReadFile(*rulesFlag)
		if err != nil {
			fatalf("Failed to read rules file: %v\n", err)
		}
		if err := json.Unmarshal(data, &ruleset); err != nil {
			fatalf("Failed to parse rules file: %v\n", err)
		}
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(cfg, inputPath, *sourceFlag, *outputFlag, ruleset, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(cfg *config.AppConfig, inputPath, source, outputPath string, ruleset []rules.Rule, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	var text string
	if strings.EqualFold(filepath.Ext(inputPath), ".pdf") {
		extracted, err := extractor.ExtractTextCombined(inputPath)
		if err != nil {
			return fmt.Errorf("PDF extraction failed: %w", err)
		}
		text = extracted
	} else {
		data, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = string(data)
	}

	if source == "" {
		source = filepath.Base(inputPath)
	}

	result, err := api.Analyze(cfg, text, source, ruleset, false)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Printf("  Found %d transaction(s)\n", result.Count)
	if result.Count == 0 {
		fmt.Println("  Warning: no transactions found. The statement format may not match expected patterns.")
	}

	for _, sub := range result.Subscriptions {
		fmt.Printf("  Subscription: %s, %.2f INR monthly, next expected %s\n",
			sub.VendorName, float64(sub.AverageAmount)/100, sub.NextExpectedDate.Format("2006-01-02"))
	}
	for _, a := range result.Anomalies {
		fmt.Printf("  Anomaly [%s/%s]: %s\n", a.Type, a.Severity, a.Title)
	}

	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, result.Transactions); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("  Done.")
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

// Command csvprobe samples the first N bytes of a CSV export and prints
// header names with inferred types, or a starter pipeline config.
//
// Example:
//
//	csvprobe -url="https://example.com/layoffs.csv" -bytes=8192 -name=layoffs -json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"layoffs/internal/probe"
)

var (
	flagURL       = flag.String("url", "", "URL or path of the CSV file to sample")
	flagFile      = flag.String("file", "", "local CSV path to sample (alias for -url with a bare path)")
	flagBytes     = flag.Int("bytes", 20000, "number of bytes to sample from the start of the file")
	flagDelimiter = flag.String("delimiter", ",", "CSV field delimiter (single character)")
	flagName      = flag.String("name", "layoffs", "dataset name (used in table and file names)")
	flagJSON      = flag.Bool("json", false, "output a starter pipeline config instead of summary lines")
	flagSave      = flag.Bool("save", false, "write sampled bytes to [name].csv")
)

func main() {
	flag.Parse()

	url := *flagURL
	if url == "" {
		url = *flagFile
	}
	if url == "" {
		fmt.Fprintln(os.Stderr, "csvprobe: -url or -file is required")
		os.Exit(2)
	}

	res, err := probe.Probe(context.Background(), probe.Options{
		URL:        url,
		MaxBytes:   *flagBytes,
		Delimiter:  probe.DecodeDelimiter(*flagDelimiter),
		Name:       *flagName,
		OutputJSON: *flagJSON,
		SaveSample: *flagSave,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "csvprobe: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(string(res.Body))
}

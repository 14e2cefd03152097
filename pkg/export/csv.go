// Package export renders crawl and probe results as CSV or Excel files for
// downstream consumers; the core pipeline itself renders nothing.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"sitemap-audit/pkg/models"
)

var probeHeader = []string{
	"url", "final_status", "redirect_location", "canonical",
	"canonical_match", "noindex", "noindex_source", "fetch_error",
}

var leafHeader = []string{"url", "source_sitemap"}

func probeRow(r models.SeoProbeResult) []string {
	status := ""
	if r.FinalStatus != nil {
		status = strconv.Itoa(*r.FinalStatus)
	}
	return []string{
		r.URL,
		status,
		r.RedirectLocation,
		r.Canonical,
		strconv.FormatBool(r.CanonicalMatch),
		strconv.FormatBool(r.Noindex),
		string(r.NoindexSource),
		r.FetchError,
	}
}

// WriteProbeCSV writes probe results as CSV, one row per probed URL.
func WriteProbeCSV(w io.Writer, results []models.SeoProbeResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(probeHeader); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(probeRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteLeafCSV writes discovered leaf URL records as CSV.
func WriteLeafCSV(w io.Writer, records []models.LeafURLRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(leafHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write([]string{rec.URL, rec.SourceSitemap}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteProbeCSVFile writes probe results to a CSV file at path.
func WriteProbeCSVFile(path string, results []models.SeoProbeResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteProbeCSV(f, results); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteLeafCSVFile writes leaf URL records to a CSV file at path.
func WriteLeafCSVFile(path string, records []models.LeafURLRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteLeafCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

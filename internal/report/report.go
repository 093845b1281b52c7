package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"babynames/internal/engine"
	"babynames/internal/models"

	json "github.com/goccy/go-json"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasttemplate"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// maxPeakYears caps how many tied peak years a text line shows.
const maxPeakYears = 3

const (
	heading  = "Your liked names:"
	lineTmpl = "{name}, {gender}, {total} occurrences, Most popular in: {years}\n"
)

var line = fasttemplate.New(lineTmpl, "{", "}")

// Build resolves liked pairs against the index, sorted by (name, gender).
func Build(liked []models.NameKey, idx *engine.Index) []models.SummaryEntry {
	entries := make([]models.SummaryEntry, 0, len(liked))
	for _, key := range liked {
		entries = append(entries, models.SummaryEntry{
			Name:      key.Name,
			Gender:    key.Gender,
			Total:     idx.Total(key),
			PeakYears: idx.PeakYears(key),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].Gender < entries[j].Gender
	})
	return entries
}

// Write renders entries; nothing is written for an empty summary.
func Write(w io.Writer, entries []models.SummaryEntry, format Format) error {
	if len(entries) == 0 {
		return nil
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		return nil
	case FormatText, "":
		return writeText(w, entries)
	}
	return fmt.Errorf("unknown summary format %q", format)
}

func writeText(w io.Writer, entries []models.SummaryEntry) error {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	buf.WriteString("\n" + heading + "\n")
	for _, e := range entries {
		if _, err := line.Execute(buf, map[string]interface{}{
			"name":   e.Name,
			"gender": string(e.Gender),
			"total":  strconv.FormatInt(e.Total, 10),
			"years":  FormatYears(e.PeakYears),
		}); err != nil {
			return fmt.Errorf("render %s: %w", e.Name, err)
		}
	}
	if _, err := w.Write(buf.B); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// FormatYears joins up to three years and appends ", ..." when more were tied.
func FormatYears(years []int) string {
	shown := years
	if len(shown) > maxPeakYears {
		shown = shown[:maxPeakYears]
	}
	parts := make([]string, len(shown))
	for i, y := range shown {
		parts[i] = strconv.Itoa(y)
	}
	out := strings.Join(parts, ", ")
	if len(years) > maxPeakYears {
		out += ", ..."
	}
	return out
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fabrii324/Hojadevida-Fabricio/internal/cv"
)

// CSVOptions configures CSV export behavior
type CSVOptions struct {
	Delimiter     rune // Field delimiter (default: comma)
	UseCRLF       bool // Use \r\n for line terminator
	IncludeHeader bool
	DateFormat    string
	NullValue     string
}

// DefaultCSVOptions returns default CSV export options
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{
		Delimiter:     ',',
		IncludeHeader: true,
		DateFormat:    "2006-01-02",
	}
}

// CSVWriter writes rows of loosely typed values as CSV records.
type CSVWriter struct {
	writer  *csv.Writer
	options CSVOptions
}

// NewCSVWriter creates a new CSV writer
func NewCSVWriter(w io.Writer, options CSVOptions) *CSVWriter {
	writer := csv.NewWriter(w)
	writer.Comma = options.Delimiter
	writer.UseCRLF = options.UseCRLF

	return &CSVWriter{writer: writer, options: options}
}

// WriteHeader writes the CSV header row
func (e *CSVWriter) WriteHeader(columns []string) error {
	if !e.options.IncludeHeader {
		return nil
	}
	if err := e.writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	return nil
}

// WriteRow writes a single row of data
func (e *CSVWriter) WriteRow(row []interface{}) error {
	record := make([]string, len(row))
	for i, val := range row {
		record[i] = e.formatValue(val)
	}

	if err := e.writer.Write(record); err != nil {
		return fmt.Errorf("failed to write row: %w", err)
	}
	return nil
}

// Flush writes any buffered data to the underlying writer
func (e *CSVWriter) Flush() error {
	e.writer.Flush()
	return e.writer.Error()
}

func (e *CSVWriter) formatValue(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return e.options.NullValue
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		if v.IsZero() {
			return e.options.NullValue
		}
		return v.Format(e.options.DateFormat)
	case *time.Time:
		if v == nil || v.IsZero() {
			return e.options.NullValue
		}
		return v.Format(e.options.DateFormat)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// CatalogueExporter writes the certificate catalogue of a portfolio as CSV, one row per
// attachable certificate in catalogue order.
type CatalogueExporter struct {
	options CSVOptions
}

// NewCatalogueExporter creates an exporter with the default options.
func NewCatalogueExporter() *CatalogueExporter {
	return &CatalogueExporter{options: DefaultCSVOptions()}
}

// Export writes the catalogue of p to w. A nil portfolio yields the header only.
func (e *CatalogueExporter) Export(w io.Writer, p *cv.Portfolio) error {
	cw := NewCSVWriter(w, e.options)
	if err := cw.WriteHeader([]string{"token", "name", "type", "date"}); err != nil {
		return err
	}

	if p != nil {
		for _, c := range p.Certificates {
			if err := cw.WriteRow([]interface{}{c.Value, c.Name, c.Type, c.Date}); err != nil {
				return err
			}
		}
	}

	return cw.Flush()
}

// Package export writes the published portfolio as downloadable spreadsheets.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/fabrii324/Hojadevida-Fabricio/internal/cv"
)

// ExcelOptions configures Excel export behavior
type ExcelOptions struct {
	FreezeHeader bool
	AutoFilter   bool
	AutoWidth    bool
	DateFormat   string
	NumberFormat string
	HeaderStyle  *ExcelStyleConfig
	DataStyle    *ExcelStyleConfig
}

// ExcelStyleConfig defines style for cells
type ExcelStyleConfig struct {
	FontBold  bool
	FontSize  int
	FontColor string
	FillColor string
	Alignment string // left, center, right
	Border    bool
	WrapText  bool
}

// DefaultExcelOptions returns default Excel export options
func DefaultExcelOptions() ExcelOptions {
	return ExcelOptions{
		FreezeHeader: true,
		AutoFilter:   true,
		AutoWidth:    true,
		DateFormat:   "yyyy-mm-dd",
		NumberFormat: "#,##0.00",
		HeaderStyle: &ExcelStyleConfig{
			FontBold:  true,
			FontSize:  11,
			FillColor: "1F2937",
			FontColor: "FFFFFF",
			Alignment: "center",
			Border:    true,
		},
		DataStyle: &ExcelStyleConfig{
			FontSize:  11,
			Alignment: "left",
			Border:    true,
		},
	}
}

// Workbook builds a multi-sheet Excel file. Sheets appear in the order they are added.
type Workbook struct {
	file    *excelize.File
	options ExcelOptions
	sheets  int

	headerStyle int
	dataStyle   int
	dateStyle   int
	numberStyle int
}

// NewWorkbook creates an empty workbook
func NewWorkbook(options ExcelOptions) (*Workbook, error) {
	wb := &Workbook{file: excelize.NewFile(), options: options}

	var err error
	if options.HeaderStyle != nil {
		if wb.headerStyle, err = wb.createStyle(options.HeaderStyle, nil); err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}
	}
	if options.DataStyle != nil {
		if wb.dataStyle, err = wb.createStyle(options.DataStyle, nil); err != nil {
			return nil, fmt.Errorf("failed to create data style: %w", err)
		}
	}
	if options.DateFormat != "" {
		if wb.dateStyle, err = wb.createStyle(options.DataStyle, &options.DateFormat); err != nil {
			return nil, fmt.Errorf("failed to create date style: %w", err)
		}
	}
	if options.NumberFormat != "" {
		if wb.numberStyle, err = wb.createStyle(options.DataStyle, &options.NumberFormat); err != nil {
			return nil, fmt.Errorf("failed to create number style: %w", err)
		}
	}

	return wb, nil
}

// AddSheet adds a sheet with a header row and one row per entry of rows.
func (wb *Workbook) AddSheet(name string, columns []string, rows [][]interface{}) error {
	if wb.sheets == 0 {
		if err := wb.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	} else if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	wb.sheets++

	widths := make([]float64, len(columns))

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := wb.file.SetCellValue(name, cell, col); err != nil {
			return fmt.Errorf("failed to set header: %w", err)
		}
		if wb.headerStyle > 0 {
			wb.file.SetCellStyle(name, cell, cell, wb.headerStyle)
		}
		widths[i] = estimateCellWidth(col)
	}

	for r, row := range rows {
		for i := range columns {
			var val interface{}
			if i < len(row) {
				val = row[i]
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			if err := wb.setCellValue(name, cell, val); err != nil {
				return fmt.Errorf("failed to set cell value: %w", err)
			}
			if w := estimateCellWidth(val); w > widths[i] {
				widths[i] = w
			}
		}
	}

	if wb.options.FreezeHeader {
		wb.file.SetPanes(name, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}

	if wb.options.AutoFilter && len(rows) > 0 {
		lastCol, _ := excelize.CoordinatesToCellName(len(columns), 1)
		wb.file.AutoFilter(name, "A1:"+lastCol, nil)
	}

	if wb.options.AutoWidth {
		for i, width := range widths {
			col, _ := excelize.ColumnNumberToName(i + 1)
			// Min width 10, max width 60
			if width < 10 {
				width = 10
			}
			if width > 60 {
				width = 60
			}
			wb.file.SetColWidth(name, col, col, width)
		}
	}

	return nil
}

// WriteTo writes the Excel file to a writer
func (wb *Workbook) WriteTo(w io.Writer) error {
	return wb.file.Write(w)
}

// Close closes the Excel file
func (wb *Workbook) Close() error {
	return wb.file.Close()
}

func (wb *Workbook) createStyle(config *ExcelStyleConfig, numFmt *string) (int, error) {
	style := &excelize.Style{CustomNumFmt: numFmt}
	if config == nil {
		return wb.file.NewStyle(style)
	}

	style.Font = &excelize.Font{
		Bold:  config.FontBold,
		Size:  float64(config.FontSize),
		Color: config.FontColor,
	}

	if config.FillColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{config.FillColor},
		}
	}

	if config.Alignment != "" || config.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: config.Alignment,
			WrapText:   config.WrapText,
		}
	}

	if config.Border {
		style.Border = []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		}
	}

	return wb.file.NewStyle(style)
}

func (wb *Workbook) setCellValue(sheet, cell string, val interface{}) error {
	style := wb.dataStyle

	switch v := val.(type) {
	case nil:
		val = ""
	case *string:
		if v == nil {
			val = ""
		} else {
			val = *v
		}
	case time.Time:
		if v.IsZero() {
			val = ""
		} else if wb.dateStyle > 0 {
			style = wb.dateStyle
		}
	case *time.Time:
		if v == nil || v.IsZero() {
			val = ""
		} else {
			val = *v
			if wb.dateStyle > 0 {
				style = wb.dateStyle
			}
		}
	case float32, float64:
		if wb.numberStyle > 0 {
			style = wb.numberStyle
		}
	}

	if err := wb.file.SetCellValue(sheet, cell, val); err != nil {
		return err
	}
	if style > 0 {
		return wb.file.SetCellStyle(sheet, cell, cell, style)
	}
	return nil
}

// estimateCellWidth estimates the display width of a cell value
func estimateCellWidth(val interface{}) float64 {
	switch v := val.(type) {
	case nil:
		return 0
	case time.Time, *time.Time:
		return 12
	case *string:
		if v == nil {
			return 0
		}
		return float64(len([]rune(*v))) * 1.2
	}
	return float64(len([]rune(fmt.Sprintf("%v", val)))) * 1.2
}

// PortfolioExporter writes one sheet per record kind of a portfolio.
type PortfolioExporter struct {
	options ExcelOptions
}

// NewPortfolioExporter creates an exporter with the default options.
func NewPortfolioExporter() *PortfolioExporter {
	return &PortfolioExporter{options: DefaultExcelOptions()}
}

// Export writes p as an XLSX workbook to w.
func (e *PortfolioExporter) Export(w io.Writer, p *cv.Portfolio) error {
	wb, err := NewWorkbook(e.options)
	if err != nil {
		return err
	}
	defer wb.Close()

	for _, s := range portfolioSheets(p) {
		if err := wb.AddSheet(s.name, s.columns, s.rows); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	return wb.WriteTo(w)
}

type sheet struct {
	name    string
	columns []string
	rows    [][]interface{}
}

func portfolioSheets(p *cv.Portfolio) []sheet {
	profile := sheet{name: "Profile", columns: []string{"Field", "Value"}}
	if p != nil && p.Profile != nil {
		pr := p.Profile
		profile.rows = [][]interface{}{
			{"Name", pr.FullName()},
			{"Summary", pr.Summary},
			{"ID Number", pr.IDNumber},
			{"Nationality", pr.Nationality},
			{"Birth place", pr.BirthPlace},
			{"Birth date", pr.BirthDate},
			{"Marital status", pr.MaritalStatus},
			{"Address", pr.HomeAddress},
			{"Mobile", pr.Mobile},
			{"Website", pr.Website},
		}
	}
	if p == nil {
		return []sheet{profile}
	}

	work := sheet{name: "Work Experience", columns: []string{"Role", "Company", "Location", "Start", "End", "Description"}}
	for _, e := range p.WorkExperience {
		work.rows = append(work.rows, []interface{}{e.Role, e.Company, e.Location, e.StartDate, e.EndDate, e.Description})
	}

	courses := sheet{name: "Courses", columns: []string{"Name", "Hours", "Start", "End", "Sponsor", "Description"}}
	for _, c := range p.Courses {
		courses.rows = append(courses.rows, []interface{}{c.Name, c.TotalHours, c.StartDate, c.EndDate, c.Sponsor, c.Description})
	}

	awards := sheet{name: "Awards", columns: []string{"Type", "Date", "Description", "Sponsor"}}
	for _, a := range p.Awards {
		awards.rows = append(awards.rows, []interface{}{string(a.Type), a.Date, a.Description, a.Sponsor})
	}

	academic := sheet{name: "Academic Outputs", columns: []string{"Name", "Classifier", "Description"}}
	for _, o := range p.AcademicOutputs {
		academic.rows = append(academic.rows, []interface{}{o.Name, o.Classifier, o.Description})
	}

	labor := sheet{name: "Labor Outputs", columns: []string{"Name", "Date", "Description"}}
	for _, o := range p.LaborOutputs {
		labor.rows = append(labor.rows, []interface{}{o.Name, o.Date, o.Description})
	}

	certs := sheet{name: "Certificates", columns: []string{"Token", "Name", "Type", "Date"}}
	for _, c := range p.Certificates {
		certs.rows = append(certs.rows, []interface{}{c.Value, c.Name, c.Type, c.Date})
	}

	return []sheet{profile, work, courses, awards, academic, labor, certs}
}

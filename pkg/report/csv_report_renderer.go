package report

import (
	"bytes"
	"encoding/csv"

	log "github.com/sirupsen/logrus"
)

// utf8BOM lets spreadsheet tools detect the encoding.
const utf8BOM = "\ufeff"

type ReportRenderer interface {
	RenderReport(report Report) (string, error)
}

type CsvReportRendererImpl struct {
}

func NewCsvReportRenderer() *CsvReportRendererImpl {
	return &CsvReportRendererImpl{}
}

func (t *CsvReportRendererImpl) RenderReport(report Report) (string, error) {
	table := report.Table()

	var b bytes.Buffer
	b.WriteString(utf8BOM)
	writer := csv.NewWriter(&b)
	if err := writer.Write(table.Header); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

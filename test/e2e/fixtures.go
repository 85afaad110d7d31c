package e2e

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/sentaku/internal/models"
)

// WriteCatalog writes records as the JSON array the catalog loader reads.
func WriteCatalog(path string, recs []models.AssessmentRecord) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// WriteLabelsXLSX writes Query,Assessment_url rows to the first sheet of a new workbook.
func WriteLabelsXLSX(path string, rows [][2]string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "Query"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", "Assessment_url"); err != nil {
		return err
	}
	for i, r := range rows {
		for j, v := range r {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// MinimalDocx returns a DOCX holding text as a single paragraph.
func MinimalDocx(text string) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	fw, _ := w.Create("word/document.xml")
	_, _ = fw.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body></w:document>`))
	_ = w.Close()
	return buf.Bytes()
}

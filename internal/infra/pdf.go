package infra

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ShoppingListRow is one low-stock line on the generated list.
type ShoppingListRow struct {
	Name     string
	Location string
	Quantity int
	ParLevel int
}

// GenerateShoppingListPDF renders the low-stock items as a printable list.
// Returns the PDF bytes; callers decide whether to stream or store them.
func GenerateShoppingListPDF(rows []ShoppingListRow, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Shopping List", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Shopping List")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, generatedAt.Format("January 2, 2006 15:04"))
	pdf.Ln(10)

	// Header row
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Location", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "On hand", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, "Par", "1", 0, "R", true, 0, "")
	pdf.CellFormat(20, 8, "Need", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		name := row.Name
		if name == "" {
			name = "(Unnamed Item)"
		}
		pdf.CellFormat(90, 8, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, row.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", row.ParLevel), "1", 0, "R", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", row.ParLevel-row.Quantity), "1", 1, "R", false, 0, "")
	}

	if len(rows) == 0 {
		pdf.Cell(0, 10, "Nothing below par — pantry is stocked.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render shopping list: %w", err)
	}
	return buf.Bytes(), nil
}

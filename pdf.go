package cattery

import (
	"net/http"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/labstack/echo/v4"
)

// handleContractPDF renders the kitten sales contract that adopters sign
// at pickup. It is generated on the fly so the breeder name and cattery
// name always match the current configuration.
func (a *App) handleContractPDF(c echo.Context) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(a.Config.Name+" Kitten Sales Contract", false)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, a.Config.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Kitten Sales Contract", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 11)
	intro := "This agreement is made between " + a.Config.Breeder + " (the Breeder), acting on behalf of " +
		a.Config.Name + ", and the undersigned Buyer, regarding the sale of the kitten described below."
	pdf.MultiCell(0, 6, intro, "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "1. Kitten", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	for _, field := range []string{"Name:", "Breed:", "Date of birth:", "Litter code:", "Microchip number:"} {
		pdf.CellFormat(50, 8, field, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 8, "_________________________________", "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "2. Health and vaccinations", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "The kitten is sold healthy, dewormed and vaccinated according to age, "+
		"including rabies vaccination where applicable. A veterinary passport is handed over with the kitten. "+
		"The Buyer agrees to have the kitten examined by a veterinarian within 5 days of pickup.", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "3. Buyer's obligations", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, "The Buyer agrees to keep the kitten indoors, provide appropriate nutrition and "+
		"veterinary care, and never to sell or give the kitten to a shelter, laboratory or pet store. "+
		"If the Buyer can no longer keep the cat, the Breeder must be offered the cat back first.", "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, "4. Price and transfer", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(50, 8, "Purchase price:", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "_________________________________", "", 1, "L", false, 0, "")
	pdf.MultiCell(0, 6, "Ownership transfers to the Buyer upon full payment and pickup. "+
		"Until then the kitten remains the property of the Breeder.", "", "L", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(90, 8, "Breeder signature: ______________________", "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Buyer signature: ______________________", "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.CellFormat(0, 8, "Date: "+time.Now().Format("2006-01-02"), "", 1, "L", false, 0, "")

	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().Header().Set(echo.HeaderContentDisposition, `inline; filename="contract.pdf"`)
	c.Response().WriteHeader(http.StatusOK)
	return pdf.Output(c.Response().Writer)
}

package orders

import (
	"bytes"
	"fmt"
	"net/http"

	"solemart/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

// Receipt returns a PDF receipt for the order, with the order number as a
// QR code. Owner or admin only.
func (h *Handlers) Receipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	order, err := h.ledger.Get(r.Context(), ps.ByName("id"), utils.GetUserIDFromRequest(r), utils.IsAdminRequest(r))
	if err != nil {
		utils.RespondWithAppError(w, err)
		return
	}

	qrPNG, err := qrcode.Encode(order.OrderNumber, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Order Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Order Number: %s", order.OrderNumber))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", order.Status))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Ship to: %s, %s, %s %s",
		order.ShippingAddress.FullName, order.ShippingAddress.City,
		order.ShippingAddress.Province, order.ShippingAddress.PostalCode))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, "Items")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		pdf.Cell(0, 7, fmt.Sprintf("%s (%s) size %d x%d - %s",
			item.Name, item.Brand, item.Size, item.Quantity, formatRupiah(item.Price*float64(item.Quantity))))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.Cell(0, 7, fmt.Sprintf("Items: %s", formatRupiah(order.ItemsPrice)))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Shipping (%s): %s", order.ShippingService.Name, formatRupiah(order.ShippingPrice)))
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %s", formatRupiah(order.TotalPrice)))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 155, 20, 40, 40, false, imageOpts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+order.OrderNumber+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func formatRupiah(v float64) string {
	return fmt.Sprintf("Rp %.0f", v)
}

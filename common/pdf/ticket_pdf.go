package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// TicketPDFData holds everything printed on an e-ticket
type TicketPDFData struct {
	TicketCode    string
	EventTitle    string
	EventDate     string // YYYY-MM-DD
	StartTime     string // HH:MM
	EndTime       string // HH:MM
	Venue         string
	Location      string
	AttendeeName  string
	AttendeeEmail string
	GuestCount    int
	QRCodePNG     []byte
}

// foldASCII replaces common accented Latin characters with ASCII
// equivalents. The built-in PDF fonts are CP1252-only, so anything outside
// that range would render as garbage.
func foldASCII(text string) string {
	replacer := strings.NewReplacer(
		"á", "a", "à", "a", "â", "a", "ä", "a", "ã", "a", "å", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"í", "i", "ì", "i", "î", "i", "ï", "i",
		"ó", "o", "ò", "o", "ô", "o", "ö", "o", "õ", "o",
		"ú", "u", "ù", "u", "û", "u", "ü", "u",
		"ñ", "n", "ç", "c", "ý", "y",
		"Á", "A", "À", "A", "Â", "A", "Ä", "A", "Ã", "A", "Å", "A",
		"É", "E", "È", "E", "Ê", "E", "Ë", "E",
		"Í", "I", "Ì", "I", "Î", "I", "Ï", "I",
		"Ó", "O", "Ò", "O", "Ô", "O", "Ö", "O", "Õ", "O",
		"Ú", "U", "Ù", "U", "Û", "U", "Ü", "U",
		"Ñ", "N", "Ç", "C", "Ý", "Y",
	)
	return replacer.Replace(text)
}

const pageWidth = 210.0 // A4 portrait, mm

// GenerateTicketPDF renders a printable e-ticket with the QR code on top.
// Returns PDF bytes suitable for saving to disk or attaching to email.
func GenerateTicketPDF(data TicketPDFData) ([]byte, error) {
	if data.TicketCode == "" {
		return nil, fmt.Errorf("ticket code is required")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// QR code centered at the top so gate staff can scan without
	// unfolding the whole page
	if len(data.QRCodePNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		imgName := "qr_" + data.TicketCode
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(data.QRCodePNG))

		qrSize := 90.0
		qrX := (pageWidth - qrSize) / 2
		pdf.ImageOptions(imgName, qrX, 15, qrSize, qrSize, false, opts, 0, "")
		pdf.SetY(15 + qrSize + 8)
	} else {
		pdf.SetY(20)
	}

	// Ticket code under the QR, large and selectable
	pdf.SetFont("Courier", "B", 16)
	pdf.CellFormat(0, 10, data.TicketCode, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Event title
	pdf.SetFont("Arial", "B", 18)
	pdf.MultiCell(0, 9, foldASCII(data.EventTitle), "", "C", false)
	pdf.Ln(6)

	// Detail rows
	pdf.SetFont("Arial", "", 12)
	rows := [][2]string{
		{"Date", data.EventDate},
		{"Time", fmt.Sprintf("%s - %s", data.StartTime, data.EndTime)},
		{"Venue", foldASCII(data.Venue)},
		{"Location", foldASCII(data.Location)},
		{"Attendee", foldASCII(data.AttendeeName)},
		{"Email", data.AttendeeEmail},
	}
	if data.GuestCount > 0 {
		rows = append(rows, [2]string{"Guests", fmt.Sprintf("%d", data.GuestCount)})
	}

	for _, row := range rows {
		if row[1] == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.MultiCell(0, 8, row[1], "", "L", false)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5,
		"Present this ticket at the event entrance. The QR code is scanned once; duplicates will be rejected at the door.",
		"", "C", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket PDF: %w", err)
	}
	return buf.Bytes(), nil
}

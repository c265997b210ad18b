package handlers

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/abrezinsky/beastreader/internal/models"
)

// receiptLanguages are the locales a receipt can be printed in
var receiptLanguages = []language.Tag{
	language.AmericanEnglish,
	language.LatinAmericanSpanish,
}

var receiptMatcher = language.NewMatcher(receiptLanguages)

// receiptFuncs are placeholders replaced per request in renderReceipt
var receiptFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return "$" + d.StringFixed(2) },
	"join":  strings.Join,
}

// ReceiptPageData holds the data passed to the receipt template
type ReceiptPageData struct {
	Ticket   *models.Ticket
	IssuedAt string
	QRURL    string
	Lang     string
}

// printerFor picks the receipt locale from the Accept-Language header
func printerFor(r *http.Request) (*message.Printer, language.Tag) {
	tags, _, _ := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	_, idx, _ := receiptMatcher.Match(tags...)
	tag := receiptLanguages[idx]
	return message.NewPrinter(tag), tag
}

// formatMoney renders an amount to the cent with the printer's digit grouping.
// The whole part goes through the printer as an integer so cents stay exact.
func formatMoney(p *message.Printer, d decimal.Decimal) string {
	d = d.Round(2)
	whole, cents, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + d.StringFixed(2)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + p.Sprint(number.Decimal(n)) + decimalSeparator(p) + cents
}

// decimalSeparator is the printer's separator between whole and fractional digits
func decimalSeparator(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	if len(s) < 3 {
		return "."
	}
	return s[1 : len(s)-1]
}

func (h *Handlers) renderReceipt(w http.ResponseWriter, r *http.Request, ticket *models.Ticket) error {
	p, tag := printerFor(r)
	tmpl, err := h.templates.Receipt.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string { return formatMoney(p, d) },
	})

	issued := ticket.IssuedAt
	if loc := h.Builder.Catalog().Location(); loc != nil {
		issued = issued.In(loc)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.Execute(w, ReceiptPageData{
		Ticket:   ticket,
		IssuedAt: issued.Format(time.DateTime),
		QRURL:    "/api/tickets/" + ticket.Number + "/qr",
		Lang:     tag.String(),
	})
}

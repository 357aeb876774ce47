package admin

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"github.com/rgimusa/storefront/internal/storefront"
)

const isoMillis = "2006-01-02T15:04:05.000Z07:00"

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// exportRow one order as it appears in the spreadsheet export
type exportRow struct {
	Fecha    string `csv:"Fecha"`
	Nombre   string `csv:"Nombre"`
	WhatsApp string `csv:"WhatsApp"`
	Envio    string `csv:"Envio"`
	Total    string `csv:"Total"`
	Items    string `csv:"Items"`
	Estado   string `csv:"Estado"`
}

var exportHeader = []string{"Fecha", "Nombre", "WhatsApp", "Envio", "Total", "Items", "Estado"}

// ItemSummary renders "<name> x <qty>" pairs joined with " | "
func ItemSummary(items []domain.CartLineItem, nameOf func(id string) string) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x %d", nameOf(it.ID), it.Qty))
	}
	return strings.Join(parts, " | ")
}

func toRows(orders []domain.Order, nameOf func(id string) string) []*exportRow {
	rows := make([]*exportRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, &exportRow{
			Fecha:    o.Date.UTC().Format(isoMillis),
			Nombre:   o.Buyer.Name,
			WhatsApp: o.Buyer.Phone,
			Envio:    string(o.Shipping),
			Total:    strconv.FormatFloat(o.Total, 'f', -1, 64),
			Items:    ItemSummary(o.Items, nameOf),
			Estado:   string(o.Status),
		})
	}
	return rows
}

// quotedWriter a gocsv writer that quotes every field, doubles embedded
// quotes and separates records with \n without a trailing newline
type quotedWriter struct {
	w       io.Writer
	started bool
	err     error
}

func (q *quotedWriter) Write(row []string) error {
	if q.err != nil {
		return q.err
	}
	var sb strings.Builder
	if q.started {
		sb.WriteByte('\n')
	}
	for i, field := range row {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('"')
		sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
		sb.WriteByte('"')
	}
	q.started = true
	_, q.err = io.WriteString(q.w, sb.String())
	return q.err
}

func (q *quotedWriter) Flush() {}

func (q *quotedWriter) Error() error {
	return q.err
}

// WriteCSV writes the header and one record per order
func WriteCSV(w io.Writer, orders []domain.Order, nameOf func(id string) string) error {
	qw := &quotedWriter{w: w}
	if len(orders) == 0 {
		return qw.Write(exportHeader)
	}
	if err := gocsv.MarshalCSV(toRows(orders, nameOf), qw); err != nil {
		return errors.Wrap(err, "marshal csv")
	}
	return nil
}

func colName(i int) string {
	return string(rune('A' + i))
}

// WriteXLSX writes the same table as WriteCSV into a single sheet workbook
func WriteXLSX(w io.Writer, orders []domain.Order, nameOf func(id string) string) error {
	const sheet = "Sheet1"
	xlsx := excelize.NewFile()
	for i, h := range exportHeader {
		xlsx.SetCellValue(sheet, colName(i)+"1", h)
	}
	for r, o := range orders {
		line := strconv.Itoa(r + 2)
		xlsx.SetCellValue(sheet, colName(0)+line, o.Date.UTC().Format(isoMillis))
		xlsx.SetCellValue(sheet, colName(1)+line, o.Buyer.Name)
		xlsx.SetCellValue(sheet, colName(2)+line, o.Buyer.Phone)
		xlsx.SetCellValue(sheet, colName(3)+line, o.Shipping.Label())
		xlsx.SetCellValue(sheet, colName(4)+line, o.Total)
		xlsx.SetCellValue(sheet, colName(5)+line, ItemSummary(o.Items, nameOf))
		xlsx.SetCellValue(sheet, colName(6)+line, string(o.Status))
	}
	if err := xlsx.Write(w); err != nil {
		return errors.Wrap(err, "write xlsx")
	}
	return nil
}

// ExportCSV exports the filtered view and returns the number of orders written
func (w *Workflow) ExportCSV(out io.Writer, f storefront.OrderFilter) (int, error) {
	orders, err := w.ListOrders(f)
	if err != nil {
		return 0, err
	}
	return len(orders), WriteCSV(out, orders, w.state.ProductName)
}

func (w *Workflow) ExportXLSX(out io.Writer, f storefront.OrderFilter) (int, error) {
	orders, err := w.ListOrders(f)
	if err != nil {
		return 0, err
	}
	return len(orders), WriteXLSX(out, orders, w.state.ProductName)
}

// ExportAs checks the credentials and writes the filtered view in the given
// format. The stored admin session is neither created nor cleared.
func (w *Workflow) ExportAs(username, password, format string, out io.Writer, f storefront.OrderFilter) (int, error) {
	if format != FormatCSV && format != FormatXLSX {
		return 0, errors.Errorf("unknown export format %q", format)
	}
	if err := w.Verify(username, password); err != nil {
		return 0, err
	}
	orders := w.state.FilterOrders(f)
	if format == FormatXLSX {
		return len(orders), WriteXLSX(out, orders, w.state.ProductName)
	}
	return len(orders), WriteCSV(out, orders, w.state.ProductName)
}

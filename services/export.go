package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
)

var exportHeader = []string{"Order Number", "Date", "Amount", "Payment Method", "Order Type", "Table", "Status"}

// ExportFileName is transactions-YYYY-MM-DD.csv for the given day.
func ExportFileName(day time.Time) string {
	return "transactions-" + day.Format("2006-01-02") + ".csv"
}

// ExportTransactionsCSV writes one row per transaction after the header row.
func ExportTransactionsCSV(w io.Writer, txs []entity.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, t := range txs {
		table := ""
		if t.TableNumber != nil {
			table = strconv.Itoa(*t.TableNumber)
		}
		row := []string{
			t.OrderNumber,
			t.CreatedAt.Format("2006-01-02 15:04:05"),
			t.Amount.StringFixed(2),
			t.PaymentMethod,
			string(t.OrderType),
			table,
			string(t.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Package output provides utilities for formatting and displaying payment reports.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/site-payouts/internal/allocation"
	"github.com/iwvelando/site-payouts/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, report allocation.Report) error {
	p := message.NewPrinter(language.English)
	currency := report.Config.Currency

	var b strings.Builder
	fmt.Fprintf(&b, "--- Payments (%s) ---\n", currencyLabel(currency))
	fmt.Fprintf(&b, "Member | Salvager | Sites | Total\n")
	fmt.Fprintf(&b, "______ | ________ | _____ | _____\n")
	for _, payment := range report.Payments {
		salvager := "no"
		if payment.IsSalvager {
			salvager = "yes"
		}
		_, _ = p.Fprintf(&b, "%s | %s | %d | %s\n",
			payment.Name, salvager, payment.SitesCount, format.Amount(payment.Total))
		for _, site := range payment.Sites {
			_, _ = p.Fprintf(&b, "    %s (level %d) | %s\n", site.SiteName, site.Level, format.Amount(site.Amount))
		}
	}
	_, _ = p.Fprintf(&b, "\nSites: %d\n", report.TotalSites)
	fmt.Fprintf(&b, "Total paid: %s\n", format.Currency(report.TotalPaid, currency))

	_, err := io.WriteString(w, b.String())
	return err
}

// CSVFormat writes one row per member with the total rounded to cents.
func CSVFormat(w io.Writer, report allocation.Report) error {
	writer := csv.NewWriter(w)
	header := []string{"member_id", "name", "salvager", "sites", "total"}
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, payment := range report.Payments {
		row := []string{
			payment.MemberID,
			payment.Name,
			strconv.FormatBool(payment.IsSalvager),
			strconv.Itoa(payment.SitesCount),
			format.Plain(payment.Total),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// CSVString returns the CSVFormat output as a string.
func CSVString(report allocation.Report) string {
	var b strings.Builder
	if err := CSVFormat(&b, report); err != nil {
		return ""
	}
	return b.String()
}

// JSONFormat writes the report unrounded, indented.
func JSONFormat(w io.Writer, report allocation.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func currencyLabel(code string) string {
	if strings.TrimSpace(code) == "" {
		return "no currency"
	}
	return code
}

package views

import (
	"fmt"
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wildwoodlodge/lodge/markdown"
)

var funcs = template.FuncMap{
	"markdown":   markdown.HTML,
	"jsonld":     func(s string) template.JS { return template.JS(s) },
	"date":       Date,
	"day":        Day,
	"price":      Price,
	"join":       strings.Join,
	"pathEscape": url.PathEscape,
	"kb":         func(n int) string { return strconv.Itoa((n+1023)/1024) + " KB" },
	"inc":        func(i int) int { return i + 1 },
	"year":       func() int { return time.Now().Year() },
}

// Day formats a YYYY-MM-DD catalog date for display ("12 June 2025").
// Unparseable input is returned unchanged.
func Day(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("2 January 2006")
}

// Date formats a timestamp for the admin inbox.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2 Jan 2006 15:04")
}

// Price formats whole currency units with thousands separators.
func Price(amount int, currency string) string {
	s := strconv.Itoa(amount)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	switch currency {
	case "INR", "":
		return "₹" + b.String()
	default:
		return fmt.Sprintf("%s %s", currency, b.String())
	}
}

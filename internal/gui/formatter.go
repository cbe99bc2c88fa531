package gui

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talonwallet/talon-desktop/internal/chainparams"
)

// FormatNumber formats a number with thousand separators (commas) using golang.org/x/text
func FormatNumber(n int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", n)
}

// FormatHeight formats a block height with thousand separators
func FormatHeight(height uint32) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%d", height)
}

// FormatAmountWithUnit renders an amount in the wallet's display unit, with
// thousand separators when showing raw sats.
func FormatAmountWithUnit(sats int64, unit string) string {
	if unit == chainparams.SatsUnit {
		p := message.NewPrinter(language.English)
		return p.Sprintf("%d %s", sats, chainparams.SatsUnit)
	}
	return chainparams.FormatAmount(sats, unit)
}

// FormatTime renders a timestamp for list rows.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "pending"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// ShortenID truncates a transaction id or address for table cells.
func ShortenID(id string) string {
	if len(id) <= 16 {
		return id
	}
	return id[:8] + "..." + id[len(id)-8:]
}

// ParseFormattedNumber parses a number string that may contain commas
func ParseFormattedNumber(str string) (int64, error) {
	cleanStr := strings.ReplaceAll(str, ",", "")
	return strconv.ParseInt(cleanStr, 10, 64)
}

// ParseFormattedUint32 parses a block height string that may contain commas
func ParseFormattedUint32(str string) (uint32, error) {
	cleanStr := strings.ReplaceAll(str, ",", "")
	v, err := strconv.ParseUint(cleanStr, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

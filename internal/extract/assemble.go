package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// Assemble pairs scanned candidates into line items. A name first claims the
// unclaimed price and quantity from its own source line, so a stray token
// elsewhere in the document cannot displace a line's own fields. Names whose
// line carried no numeric fields then claim the next unclaimed candidate in
// document order, which pairs up OCR output that wrapped values onto the
// following line. Only when nothing remains do the defaults of price 0.0 and
// quantity 1 apply.
//
// The delivery date is the first parseable date candidate in document order;
// when no date parses, processedAt is used.
func (e *Extractor) Assemble(c Candidates, processedAt time.Time) []model.LineItem {
	deliveryDate := e.deliveryDate(c.Dates, processedAt)

	prices := make([]model.PriceCandidate, len(c.Prices))
	copy(prices, c.Prices)
	sort.SliceStable(prices, func(i, j int) bool {
		return prices[i].Position < prices[j].Position
	})

	quantities := make([]model.QuantityCandidate, len(c.Quantities))
	copy(quantities, c.Quantities)
	sort.SliceStable(quantities, func(i, j int) bool {
		return quantities[i].Position < quantities[j].Position
	})

	names := make([]model.NameCandidate, len(c.Names))
	copy(names, c.Names)
	sort.SliceStable(names, func(i, j int) bool {
		return names[i].Position < names[j].Position
	})

	priceUsed := make([]bool, len(prices))
	quantityUsed := make([]bool, len(quantities))

	items := make([]model.LineItem, len(names))
	hasPrice := make([]bool, len(names))
	hasQuantity := make([]bool, len(names))

	// First pass: fields from the name's own line.
	for i, name := range names {
		items[i] = model.LineItem{
			DeliveryDate: deliveryDate,
			Name:         name.Text,
			PackSize:     name.PackSize,
			Category:     name.CategoryHint,
			Quantity:     1,
		}
		for j := range prices {
			if !priceUsed[j] && prices[j].Line == name.Line {
				items[i].Price = prices[j].Amount
				priceUsed[j] = true
				hasPrice[i] = true
				break
			}
		}
		for j := range quantities {
			if !quantityUsed[j] && quantities[j].Line == name.Line {
				items[i].Quantity = quantities[j].Value
				quantityUsed[j] = true
				hasQuantity[i] = true
				break
			}
		}
	}

	// Second pass: unfilled names claim leftover candidates by document
	// position.
	for i := range items {
		if !hasPrice[i] {
			for j := range prices {
				if !priceUsed[j] {
					items[i].Price = prices[j].Amount
					priceUsed[j] = true
					break
				}
			}
		}
		if !hasQuantity[i] {
			for j := range quantities {
				if !quantityUsed[j] {
					items[i].Quantity = quantities[j].Value
					quantityUsed[j] = true
					break
				}
			}
		}
	}

	return items
}

func (e *Extractor) deliveryDate(dates []model.DateCandidate, fallback time.Time) time.Time {
	sorted := make([]model.DateCandidate, len(dates))
	copy(sorted, dates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	for _, d := range sorted {
		if d.Type == "labeled" {
			if t, ok := parseFlexibleDate(d.Text, fallback); ok {
				return t
			}
			continue
		}
		for _, dp := range e.datePatterns {
			if dp.family != d.Type {
				continue
			}
			if t, err := time.Parse(dp.layout, d.Text); err == nil {
				return t
			}
		}
	}
	return fallback
}

var flexibleDateLayouts = []string{"2006-01-02", "1/2/2006", "02-01-2006", "1/2/06"}

var monthDayRe = regexp.MustCompile(`^([A-Za-z]{3,9})\.?\s+(\d{1,2})(?:,\s*(\d{4}))?$`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// parseFlexibleDate handles labeled date text, including month-name forms
// with no year. "Sept 1" resolves against the fallback's year.
func parseFlexibleDate(text string, fallback time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range flexibleDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}

	m := monthDayRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	year := fallback.Year()
	if m[3] != "" {
		year, err = strconv.Atoi(m[3])
		if err != nil {
			return time.Time{}, false
		}
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

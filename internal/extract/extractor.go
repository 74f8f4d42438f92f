// Package extract scans OCR text for date, price, quantity, and name
// candidates and assembles them into invoice line items.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/TechsNtheCity940/stockflow/internal/model"
)

// Config controls candidate scanning. Zero-value fields fall back to the
// defaults from DefaultConfig.
type Config struct {
	BoilerplateMarkers []string
	FoodKeywords       []string
	AlcoholKeywords    []string
	UnitWords          []string
	QuantityUnits      []string
	MinNameLen         int
	MaxNameLen         int
}

// DefaultConfig returns the scanning configuration used when nothing is
// overridden.
func DefaultConfig() Config {
	return Config{
		BoilerplateMarkers: []string{
			"invoice", "total", "subtotal", "tax", "page", "account",
			"customer", "ship to", "bill to", "thank you", "terms",
			"payment", "balance", "amount due", "remit",
		},
		FoodKeywords: []string{
			"beef", "chicken", "pork", "fish", "salmon", "shrimp", "cheese",
			"milk", "cream", "butter", "egg", "bread", "flour", "sugar",
			"rice", "pasta", "sauce", "oil", "tomato", "onion", "potato",
			"lettuce", "pepper", "mustard", "ketchup", "mayo", "bacon",
			"sausage", "ham", "turkey", "fruit", "vegetable", "bean",
			"salt", "spice", "dressing", "syrup", "juice",
		},
		AlcoholKeywords: []string{
			"beer", "wine", "vodka", "whiskey", "whisky", "bourbon", "rum",
			"gin", "tequila", "liqueur", "brandy", "champagne", "cider",
			"ale", "lager", "stout", "ipa", "merlot", "cabernet",
			"chardonnay", "pinot", "scotch",
		},
		UnitWords: []string{
			"case", "cs", "each", "ea", "lb", "lbs", "oz", "gal", "qt",
			"pt", "dz", "dozen", "pack", "pk", "box", "bag", "jar", "can",
			"bottle", "btl", "keg", "ctn", "qty", "quantity",
		},
		QuantityUnits: []string{
			"case", "cs", "each", "ea", "box", "bag", "pack", "pk", "ctn",
			"dz", "dozen", "btl", "keg",
		},
		MinNameLen: 3,
		MaxNameLen: 60,
	}
}

// Candidates holds everything one scan found, in document order.
type Candidates struct {
	Dates      []model.DateCandidate
	Prices     []model.PriceCandidate
	Quantities []model.QuantityCandidate
	Names      []model.NameCandidate
}

// Extractor scans raw text for typed candidates. It compiles its patterns
// once and is safe for concurrent use.
type Extractor struct {
	priceRe        *regexp.Regexp
	quantityRe     *regexp.Regexp
	qtyLabelRe     *regexp.Regexp
	labeledDateRe  *regexp.Regexp
	packSizeRe     *regexp.Regexp
	nameRe         *regexp.Regexp
	numericLineRe  *regexp.Regexp
	trailingUnitRe *regexp.Regexp
	datePatterns   []datePattern
	cfg            Config
}

type datePattern struct {
	re     *regexp.Regexp
	family string
	layout string
}

// New builds an Extractor from cfg, filling unset fields from DefaultConfig.
func New(cfg Config) *Extractor {
	def := DefaultConfig()
	if len(cfg.BoilerplateMarkers) == 0 {
		cfg.BoilerplateMarkers = def.BoilerplateMarkers
	}
	if len(cfg.FoodKeywords) == 0 {
		cfg.FoodKeywords = def.FoodKeywords
	}
	if len(cfg.AlcoholKeywords) == 0 {
		cfg.AlcoholKeywords = def.AlcoholKeywords
	}
	if len(cfg.UnitWords) == 0 {
		cfg.UnitWords = def.UnitWords
	}
	if len(cfg.QuantityUnits) == 0 {
		cfg.QuantityUnits = def.QuantityUnits
	}
	if cfg.MinNameLen <= 0 {
		cfg.MinNameLen = def.MinNameLen
	}
	if cfg.MaxNameLen <= 0 {
		cfg.MaxNameLen = def.MaxNameLen
	}

	unitAlt := regexp.QuoteMeta(cfg.QuantityUnits[0])
	for _, u := range cfg.QuantityUnits[1:] {
		unitAlt += "|" + regexp.QuoteMeta(u)
	}

	return &Extractor{
		cfg: cfg,
		datePatterns: []datePattern{
			{regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`), "iso", "2006-01-02"},
			{regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`), "slash", "1/2/2006"},
			{regexp.MustCompile(`\b(\d{2}-\d{2}-\d{4})\b`), "dash", "02-01-2006"},
			{regexp.MustCompile(`\b([A-Z][a-z]+ \d{1,2}, \d{4})\b`), "written", "January 2, 2006"},
			{regexp.MustCompile(`\b([A-Z][a-z]{2} \d{1,2}, \d{4})\b`), "written-short", "Jan 2, 2006"},
		},
		priceRe:        regexp.MustCompile(`(\$\s?\d{1,6}(?:,\d{3})*\.\d{2})|(\b\d{1,6}\.\d{2}\b)`),
		quantityRe:     regexp.MustCompile(`(?i)\b(\d{1,4})\s*(` + unitAlt + `)\b`),
		qtyLabelRe:     regexp.MustCompile(`(?i)\b(?:qty|quantity|ordered|order)\s*[:=]?\s*(\d{1,4})\b`),
		labeledDateRe:  regexp.MustCompile(`(?i)\b(?:delivered|due|week\s+of)\s*:?\s*(\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{2,4}|\d{1,2}-\d{1,2}-\d{4}|[A-Za-z]{3,9}\.?\s+\d{1,2}(?:,\s*\d{4})?)`),
		packSizeRe:     regexp.MustCompile(`(?i)\b(\d{1,3})\s*[/xX]\s*(\d{1,3}(?:\.\d+)?)\s*(oz|lb|lbs|g|kg|ml|l|ct|gal|qt|pt)\b`),
		nameRe:         regexp.MustCompile(`[A-Za-z][A-Za-z'&.\- ]+[A-Za-z.]`),
		numericLineRe:  regexp.MustCompile(`^[\d\s\$\.,/%\-]+$`),
		trailingUnitRe: regexp.MustCompile(`(?i)^\d{1,6}\.\d{2}\s*(?:%|oz|lb|lbs|g|kg|ml|l)\b`),
	}
}

// Extract scans text and returns every candidate found. Positions are
// absolute byte offsets; Line indexes the source line that produced the
// match. It never fails; unrecognizable text simply yields fewer candidates.
func (e *Extractor) Extract(text string) Candidates {
	var out Candidates

	lineStart := 0
	for lineNum, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lineStart += len(line) + 1
			continue
		}

		e.scanDates(line, lineNum, lineStart, &out)
		e.scanPrices(line, lineNum, lineStart, &out)
		e.scanQuantities(line, lineNum, lineStart, &out)
		e.scanNames(line, lineNum, lineStart, &out)

		lineStart += len(line) + 1
	}

	return out
}

func (e *Extractor) isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range e.cfg.BoilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func (e *Extractor) scanDates(line string, lineNum, lineStart int, out *Candidates) {
	var fixedSpans [][]int
	for _, dp := range e.datePatterns {
		for _, loc := range dp.re.FindAllStringIndex(line, -1) {
			fixedSpans = append(fixedSpans, loc)
			out.Dates = append(out.Dates, model.DateCandidate{
				Text:     line[loc[0]:loc[1]],
				Type:     dp.family,
				Position: lineStart + loc[0],
				Line:     lineNum,
			})
		}
	}

	// Labeled forms like "Week of: Sept 1" catch dates the fixed patterns
	// cannot. A label wrapping an already matched date adds nothing.
	for _, loc := range e.labeledDateRe.FindAllSubmatchIndex([]byte(line), -1) {
		capStart, capEnd := loc[2], loc[3]
		if overlapsAny(fixedSpans, capStart, capEnd) {
			continue
		}
		out.Dates = append(out.Dates, model.DateCandidate{
			Text:     line[capStart:capEnd],
			Type:     "labeled",
			Position: lineStart + capStart,
			Line:     lineNum,
		})
	}
}

func overlapsAny(spans [][]int, start, end int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

func (e *Extractor) scanPrices(line string, lineNum, lineStart int, out *Candidates) {
	for _, loc := range e.priceRe.FindAllStringIndex(line, -1) {
		tok := line[loc[0]:loc[1]]

		// A decimal followed by a measurement unit is a size, not a price.
		if e.trailingUnitRe.MatchString(line[loc[0]:]) {
			continue
		}

		currency := ""
		numeric := tok
		if strings.HasPrefix(tok, "$") {
			currency = "USD"
			numeric = strings.TrimSpace(tok[1:])
		}
		numeric = strings.ReplaceAll(numeric, ",", "")

		amount, err := strconv.ParseFloat(numeric, 64)
		if err != nil {
			continue
		}

		out.Prices = append(out.Prices, model.PriceCandidate{
			Text:     tok,
			Currency: currency,
			Amount:   amount,
			Position: lineStart + loc[0],
			Line:     lineNum,
		})
	}
}

func (e *Extractor) scanQuantities(line string, lineNum, lineStart int, out *Candidates) {
	for _, loc := range e.qtyLabelRe.FindAllSubmatchIndex([]byte(line), -1) {
		valueText := line[loc[2]:loc[3]]
		value, err := strconv.Atoi(valueText)
		if err != nil || value <= 0 {
			continue
		}
		out.Quantities = append(out.Quantities, model.QuantityCandidate{
			Text:     line[loc[0]:loc[1]],
			Value:    value,
			Position: lineStart + loc[0],
			Line:     lineNum,
		})
	}

	for _, loc := range e.quantityRe.FindAllSubmatchIndex([]byte(line), -1) {
		tok := line[loc[0]:loc[1]]
		valueText := line[loc[2]:loc[3]]
		unit := strings.ToLower(line[loc[4]:loc[5]])

		value, err := strconv.Atoi(valueText)
		if err != nil || value <= 0 {
			continue
		}

		out.Quantities = append(out.Quantities, model.QuantityCandidate{
			Text:     tok,
			Unit:     unit,
			Value:    value,
			Position: lineStart + loc[0],
			Line:     lineNum,
		})
	}
}

// scanNames generates name candidates. Boilerplate lines still contribute
// dates, prices, and quantities through the other scanners; only the name
// pass skips them.
func (e *Extractor) scanNames(line string, lineNum, lineStart int, out *Candidates) {
	trimmed := strings.TrimSpace(line)
	if e.numericLineRe.MatchString(trimmed) || e.isBoilerplate(trimmed) {
		return
	}

	masked := e.maskedSpans(line)
	packSize := e.PackSize(line)

	for _, loc := range e.nameRe.FindAllStringIndex(line, -1) {
		if overlapsAny(masked, loc[0], loc[1]) {
			continue
		}
		raw := strings.TrimSpace(line[loc[0]:loc[1]])
		cleaned := e.stripUnitWords(raw)
		if len(cleaned) < e.cfg.MinNameLen || len(cleaned) > e.cfg.MaxNameLen {
			continue
		}

		out.Names = append(out.Names, model.NameCandidate{
			Text:         cleaned,
			PackSize:     packSize,
			CategoryHint: e.categorize(cleaned),
			Position:     lineStart + loc[0],
			Line:         lineNum,
		})
	}
}

// maskedSpans marks the regions of line consumed by date expressions and
// quantity labels, so their label words cannot surface as item names.
func (e *Extractor) maskedSpans(line string) [][]int {
	var spans [][]int
	for _, dp := range e.datePatterns {
		spans = append(spans, dp.re.FindAllStringIndex(line, -1)...)
	}
	spans = append(spans, e.labeledDateRe.FindAllStringIndex(line, -1)...)
	spans = append(spans, e.qtyLabelRe.FindAllStringIndex(line, -1)...)
	return spans
}

// stripUnitWords drops leading and trailing unit tokens that OCR glues onto
// product names.
func (e *Extractor) stripUnitWords(name string) string {
	words := strings.Fields(name)
	for len(words) > 0 && e.isUnitWord(words[0]) {
		words = words[1:]
	}
	for len(words) > 0 && e.isUnitWord(words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

func (e *Extractor) isUnitWord(word string) bool {
	lower := strings.ToLower(strings.Trim(word, ".,"))
	for _, u := range e.cfg.UnitWords {
		if lower == u {
			return true
		}
	}
	return false
}

func (e *Extractor) categorize(name string) model.ItemCategory {
	lower := strings.ToLower(name)
	for _, kw := range e.cfg.AlcoholKeywords {
		if strings.Contains(lower, kw) {
			return model.CategoryAlcohol
		}
	}
	for _, kw := range e.cfg.FoodKeywords {
		if strings.Contains(lower, kw) {
			return model.CategoryFood
		}
	}
	return model.CategoryOther
}

// PackSize returns the first pack-size token (e.g. "6/10 oz") found in line,
// or empty when none is present.
func (e *Extractor) PackSize(line string) string {
	if m := e.packSizeRe.FindString(line); m != "" {
		return strings.Join(strings.Fields(m), " ")
	}
	return ""
}

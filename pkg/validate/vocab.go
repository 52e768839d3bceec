package validate

import "regexp"

// Multilingual vocabularies and shape patterns used by the structural
// and content checks. European open-data portals publish in their own
// languages, so the tables cover IT/DE/FR/NL/ES/PT alongside English.

// placeholderValues are pseudo-null strings compared after lowercasing
// and trimming. The empty string is deliberately absent: empty cells
// are counted by the null-rate check instead.
var placeholderValues = map[string]bool{
	"n/a": true, "na": true, "n.a.": true, "null": true, "none": true,
	"-": true, "--": true, "/": true, "?": true,
	"not available": true, "not applicable": true, "unknown": true, "missing": true,
	// Italian
	"n.d.": true, "nd": true, "assente": true, "non disponibile": true,
	"n.r.": true, "nr": true,
	// French
	"inconnu": true, "non disponible": true,
	// German
	"k.a.": true, "ka": true, "unbekannt": true, "nicht verfügbar": true,
	// Spanish
	"desconocido": true, "no disponible": true,
	// Portuguese
	"não disponível": true, "indisponível": true,
	// Dutch
	"onbekend": true, "niet beschikbaar": true,
}

// aggregateRowRe matches labels of embedded total/summary rows.
var aggregateRowRe = regexp.MustCompile(`(?i)^\s*(totale?|subtotale?|grand total|total général|gesamt|insgesamt|suma total?|somma|subtotal|average|media|mittelwert|gemiddelde)\s*$`)

// monthNameRe matches month-name column headers across the covered
// languages (prefix match tolerates abbreviations like "gen", "sept").
var monthNameRe = regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|gen|mag|giu|lug|ago|set|ott|dic|mär|mai|okt|dez|fév|avr|mai|juin|juil|aoû|déc|ene|abr|ago|dic)[a-zäéûô]*\.?$`)

// yearColumnRe matches four-digit year column headers.
var yearColumnRe = regexp.MustCompile(`^(19|20)\d{2}$`)

// footnoteRe matches footnote markers embedded in cells: (1), (*), 12*.
var footnoteRe = regexp.MustCompile(`\(\d+\)|\(\*\)|\d+\s*\*`)

// codeColumnRe matches column names that carry reference codes.
var codeColumnRe = regexp.MustCompile(`(?i)(code|cod_|_code|_cod|nuts|lau|iso_|zip|postal|istat|ags|insee|gemeente|municipality|commune|gemeinde|municipio|country|paese|pays)`)

// Cell shape patterns.
var (
	commaDecimalRe = regexp.MustCompile(`^\d+,\d+$`)
	nonISODateRe   = regexp.MustCompile(`^\d{1,2}[/.]\d{1,2}[/.]\d{4}$`)
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ].*)?$`)
	unitInCellRe   = regexp.MustCompile(`(?i)^\d+[.,]?\d*\s*(kg|km|eur|%|ha|mw|gwh|tco2|tn)\s*$`)
	thousandsRe    = regexp.MustCompile(`^\d{1,3}([.,]\d{3})+$`)
	badColNameRe   = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
)

// Detection thresholds. A single odd cell is noise; repeated shapes are
// a column convention.
const (
	wideFormatMinColumns  = 3
	aggregateTailWindow   = 10
	footnoteHeadWindow    = 200
	commaDecimalMinHits   = 3
	nonISODateMinHits     = 2
	unitInCellMinHits     = 2
	thousandsMinHits      = 5
	highNullRateThreshold = 0.05
	outlierMinValues      = 100
	outlierIQRFactor      = 1.5
)

// dateLike reports whether a trimmed cell reads as a calendar value in
// any of the accepted shapes.
func dateLike(s string) bool {
	return isoDateRe.MatchString(s) || nonISODateRe.MatchString(s)
}

package validate

import (
	"fmt"
	"strings"
	"testing"
)

func TestContentCommaDecimal(t *testing.T) {
	rep := runFile(t, "id;importo\n1;1,5\n2;2,7\n3;3,1\n")
	if !rep.HasCode("comma_decimal") {
		t.Fatalf("missing comma_decimal; got %+v", rep.Findings)
	}
	f := findByCode(rep, "comma_decimal")
	if f.Column != "importo" {
		t.Errorf("column = %q, want importo", f.Column)
	}
	if got := rep.ExitStatus(); got != 1 {
		t.Errorf("ExitStatus() = %d, want 1", got)
	}
}

func TestContentCommaDecimalBelowThreshold(t *testing.T) {
	rep := runFile(t, "id;importo\n1;1,5\n2;27\n3;31\n")
	if rep.HasCode("comma_decimal") {
		t.Error("a single comma value should not trip the check")
	}
}

func TestContentNonISODates(t *testing.T) {
	rep := runFile(t, "id,data\n1,01/02/2020\n2,03/04/2021\n3,05.06.2022\n")
	if !rep.HasCode("non_iso_date") {
		t.Errorf("missing non_iso_date; got %+v", rep.Findings)
	}
}

func TestContentISODatesPass(t *testing.T) {
	rep := runFile(t, "id,data\n1,2020-02-01\n2,2021-04-03\n3,2022-06-05\n")
	if rep.HasCode("non_iso_date") {
		t.Errorf("ISO dates flagged: %+v", rep.Findings)
	}
	if rep.HasCode("fuzzy_category_values") {
		t.Error("date columns are exempt from near-duplicate detection")
	}
}

func TestContentPlaceholders(t *testing.T) {
	rep := runFile(t, "id,valore\n1,n/a\n2,N/A\n3,-\n4,10\n")
	f := findByCode(rep, "placeholder_values")
	if f.Code == "" {
		t.Fatalf("missing placeholder_values; got %+v", rep.Findings)
	}
	if !strings.Contains(f.Message, "3") {
		t.Errorf("message should count the placeholder cells: %q", f.Message)
	}
	if !strings.Contains(f.Detail, "n/a") {
		t.Errorf("detail should list the placeholder strings: %q", f.Detail)
	}
}

func TestContentHighNullRate(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,valore\n")
	for i := 0; i < 20; i++ {
		if i < 2 {
			fmt.Fprintf(&b, "%d,\n", i)
		} else {
			fmt.Fprintf(&b, "%d,%d\n", i, i*10)
		}
	}
	rep := runFile(t, b.String())
	f := findByCode(rep, "high_null_rate")
	if f.Code == "" {
		t.Fatalf("missing high_null_rate; got %+v", rep.Findings)
	}
	if f.Column != "valore" {
		t.Errorf("column = %q, want valore", f.Column)
	}
}

func TestContentUnitsInCells(t *testing.T) {
	rep := runFile(t, "id,peso\n1,10 kg\n2,20 kg\n3,5\n")
	if !rep.HasCode("units_in_cells") {
		t.Errorf("missing units_in_cells; got %+v", rep.Findings)
	}
}

func TestContentThousandsSeparators(t *testing.T) {
	rep := runFile(t, "id,abitanti\n1,1.234\n2,12.345\n3,123.456\n4,1.234.567\n5,2.345\n")
	if !rep.HasCode("numeric_as_text") {
		t.Errorf("missing numeric_as_text; got %+v", rep.Findings)
	}
}

func TestContentWhitespace(t *testing.T) {
	rep := runFile(t, "id,name\n1, Roma\n2,Milano \n3,Torino\n")
	f := findByCode(rep, "whitespace_values")
	if f.Code == "" {
		t.Fatalf("missing whitespace_values; got %+v", rep.Findings)
	}
	if !strings.Contains(f.Message, "2") {
		t.Errorf("message should count the padded values: %q", f.Message)
	}
}

func TestContentDuplicateRows(t *testing.T) {
	rep := runFile(t, "id,name\n1,Roma\n1,Roma\n2,Milano\n")
	if !rep.HasCode("duplicate_rows") {
		t.Errorf("missing duplicate_rows; got %+v", rep.Findings)
	}
}

func TestContentFuzzyCategories(t *testing.T) {
	rep := runFile(t, "id,categoria\n1,Provincia di Milano\n2,Provincia di Milano.\n3,Regione Lombardia\n4,Provincia di Milano\n")
	f := findByCode(rep, "fuzzy_category_values")
	if f.Code == "" {
		t.Fatalf("missing fuzzy_category_values; got %+v", rep.Findings)
	}
	if !strings.Contains(f.Detail, "Provincia di Milano") {
		t.Errorf("detail should show the near-duplicate pair: %q", f.Detail)
	}
}

func TestContentFuzzyCaseFold(t *testing.T) {
	rep := runFile(t, "id,zona\n1,NORD-EST\n2,Nord-Est\n3,CENTRO\n")
	if !rep.HasCode("fuzzy_category_values") {
		t.Errorf("case-fold duplicates should be flagged; got %+v", rep.Findings)
	}
}

func TestContentFuzzyDistinctCategoriesPass(t *testing.T) {
	rep := runFile(t, "id,zona\n1,NORD-EST\n2,NORD-OVEST\n3,CENTRO\n4,SUD E ISOLE\n")
	if rep.HasCode("fuzzy_category_values") {
		t.Errorf("distinct region names flagged as near-duplicates: %+v", rep.Findings)
	}
}

func TestContentOutliers(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,valore\n")
	for i := 0; i < 120; i++ {
		fmt.Fprintf(&b, "%d,%d\n", i, 10+i%3)
	}
	b.WriteString("999,100000\n")
	rep := runFile(t, b.String())
	f := findByCode(rep, "outlier_values")
	if f.Code == "" {
		t.Fatalf("missing outlier_values; got %+v", rep.Findings)
	}
	if f.ScoreDelta != 0 {
		t.Errorf("outliers are advisory; ScoreDelta = %d, want 0", f.ScoreDelta)
	}
}

func TestSimilarValues(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"provincia di milano", "provincia di milano.", true},
		{"NORD-EST", "Nord-Est", true},
		{"nord-est", "nord-ovest", false},
		{"milano", "napoli", false},
		{"comune di bologna", "comune di bolzano", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"~"+tt.b, func(t *testing.T) {
			if got := similarValues(tt.a, tt.b); got != tt.want {
				t.Errorf("similarValues(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

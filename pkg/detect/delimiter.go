package detect

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// DefaultSampleSize bounds how much of a file the sniffers inspect.
const DefaultSampleSize = 64 * 1024

var delimiterCandidates = []rune{',', '\t', ';', '|', ':'}

// DetectDelimiter picks the field delimiter whose per-line counts are
// high and stable across the sampled lines. Stability matters more than
// raw frequency: a delimiter that appears 5 times on every line beats
// one that appears 20 times on some lines and none on others.
func DetectDelimiter(sample []byte) rune {
	lines := sampleLines(sample, 20)
	if len(lines) == 0 {
		return ','
	}

	best := ','
	bestScore := -1.0
	for _, cand := range delimiterCandidates {
		counts := make([]float64, len(lines))
		sum := 0.0
		for i, line := range lines {
			counts[i] = float64(countUnquoted(line, cand))
			sum += counts[i]
		}
		mean := sum / float64(len(lines))
		if mean < 1 {
			continue
		}
		variance := 0.0
		for _, c := range counts {
			variance += (c - mean) * (c - mean)
		}
		variance /= float64(len(lines))

		score := mean / (1 + variance)
		if score > bestScore {
			bestScore = score
			best = cand
		}
	}
	return best
}

// countUnquoted counts delimiter occurrences outside double-quoted
// fields.
func countUnquoted(line string, delim rune) int {
	count := 0
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			count++
		}
	}
	return count
}

func sampleLines(sample []byte, max int) []string {
	if len(sample) > DefaultSampleSize {
		sample = sample[:DefaultSampleSize]
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(sample))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() && len(lines) < max {
		if line := strings.TrimRight(sc.Text(), "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// HasCRLF reports whether the sample uses Windows line endings.
func HasCRLF(sample []byte) bool {
	return bytes.Contains(sample, []byte("\r\n"))
}

// IsNumeric reports whether a trimmed cell parses as a number.
func IsNumeric(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// LooksLikeHeader applies the numeric-shape heuristic: header rows name
// things, data rows measure them. A first row containing numeric cells
// is treated as data.
func LooksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	for _, cell := range row {
		if IsNumeric(cell) {
			return false
		}
	}
	return true
}

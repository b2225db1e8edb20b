package recognizer

import (
	"regexp"
	"strings"
	"time"

	"vnexus.com/mtl/types"
)

// Entities is the bundle produced by one pass over a chunk's raw text.
// Absent patterns yield empty lists, never nil dereferences downstream.
type Entities struct {
	Dates          []time.Time
	Institutions   []string
	DiagnosisCodes []string
	Procedures     []string
	Medications    []string
	Persons        []string
	Confidence     float64
}

var (
	// KCD/ICD-10 style: one letter, two digits, optional decimal suffix.
	codePattern = regexp.MustCompile(`\b[A-Z][0-9]{2}(?:\.[0-9]{1,2})?\b`)

	isoDatePattern    = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dottedDatePattern = regexp.MustCompile(`\b(\d{4})\.(\d{1,2})\.(\d{1,2})\b`)
	koreanDatePattern = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)

	tokenPattern = regexp.MustCompile(`[\p{Hangul}\p{L}][\p{Hangul}\p{L}\.'-]*`)
)

// Recognizer extracts entities from raw chunk text. It is a pure local
// computation: no I/O, no external calls, and it never fails on malformed
// input.
type Recognizer struct {
	rules *types.RuleSet
}

func New(rules *types.RuleSet) *Recognizer {
	return &Recognizer{rules: rules}
}

func (rec *Recognizer) Recognize(text string) Entities {
	entities := Entities{
		Dates:          rec.ExtractDates(text),
		Institutions:   rec.ExtractInstitutions(text),
		DiagnosisCodes: rec.ExtractDiagnosisCodes(text),
		Procedures:     matchKeywords(text, rec.rules.ProcedureKeywords),
		Medications:    matchKeywords(text, rec.rules.MedicationKeywords),
		Persons:        rec.extractPersons(text),
	}

	total := len(entities.Dates) + len(entities.Institutions) + len(entities.DiagnosisCodes) +
		len(entities.Procedures) + len(entities.Medications) + len(entities.Persons)
	confidence := 0.1 * float64(total)
	if confidence > 0.9 {
		confidence = 0.9
	}
	entities.Confidence = confidence
	return entities
}

// ExtractDates recognizes the three literal date forms the OCR output
// carries: 2024-05-01, 2024.05.01 and 2024년 5월 1일. Unparseable matches
// are skipped.
func (rec *Recognizer) ExtractDates(text string) []time.Time {
	dates := make([]time.Time, 0)
	seen := make(map[time.Time]bool)
	for _, pattern := range []*regexp.Regexp{isoDatePattern, dottedDatePattern, koreanDatePattern} {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			date, err := time.Parse("2006-1-2", match[1]+"-"+match[2]+"-"+match[3])
			if err != nil {
				continue
			}
			if !seen[date] {
				seen[date] = true
				dates = append(dates, date)
			}
		}
	}
	return dates
}

func (rec *Recognizer) ExtractInstitutions(text string) []string {
	institutions := make([]string, 0)
	seen := make(map[string]bool)
	tokens := tokenPattern.FindAllStringIndex(text, -1)
	for _, loc := range tokens {
		token := text[loc[0]:loc[1]]
		for _, suffix := range rec.rules.InstitutionSuffixes {
			var name string
			if strings.HasSuffix(token, suffix) && len(token) > len(suffix) {
				name = token
			} else if token == suffix {
				// Multi-word English names: "CityGeneral Hospital".
				name = strings.TrimSpace(precedingWord(text, loc[0]) + " " + token)
			} else {
				continue
			}
			if name != "" && !seen[name] {
				seen[name] = true
				institutions = append(institutions, name)
			}
			break
		}
	}
	return institutions
}

func (rec *Recognizer) ExtractDiagnosisCodes(text string) []string {
	codes := make([]string, 0)
	seen := make(map[string]bool)
	for _, code := range codePattern.FindAllString(text, -1) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

func (rec *Recognizer) extractPersons(text string) []string {
	persons := make([]string, 0)
	seen := make(map[string]bool)
	tokens := tokenPattern.FindAllStringIndex(text, -1)
	for _, loc := range tokens {
		token := text[loc[0]:loc[1]]
		for _, title := range rec.rules.PersonTitles {
			var person string
			if token == title {
				person = strings.TrimSpace(title + " " + followingWord(text, loc[1]))
			} else if strings.HasSuffix(token, title) && len(token) > len(title) {
				// Korean titles attach as suffixes: 김철수의사.
				person = token
			} else {
				continue
			}
			if person != strings.TrimSpace(title) && !seen[person] {
				seen[person] = true
				persons = append(persons, person)
			}
			break
		}
	}
	return persons
}

func matchKeywords(text string, keywords []string) []string {
	lowered := strings.ToLower(text)
	found := make([]string, 0)
	for _, keyword := range keywords {
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			found = append(found, keyword)
		}
	}
	return found
}

func precedingWord(text string, end int) string {
	head := strings.TrimRight(text[:end], " \t")
	start := strings.LastIndexAny(head, " \t\n:;,.")
	return strings.Trim(head[start+1:], ":;,.")
}

func followingWord(text string, start int) string {
	tail := strings.TrimLeft(text[start:], " \t")
	end := strings.IndexAny(tail, " \t\n:;,.")
	if end == -1 {
		end = len(tail)
	}
	return tail[:end]
}

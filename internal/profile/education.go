package profile

import (
	"strings"
	"unicode"
)

const (
	EducationPhD          = "PhD"
	EducationMasters      = "Masters"
	EducationBachelors    = "Bachelors"
	EducationAssociate    = "Associate"
	EducationCertificate  = "Certificate"
	EducationNotSpecified = "Not specified"
)

// educationLevels is ordered from the highest degree down; the first level
// with a matching keyword wins.
var educationLevels = []struct {
	level    string
	keywords []string
}{
	{EducationPhD, []string{"phd", "ph.d", "doctorate", "doctoral"}},
	{EducationMasters, []string{"master", "m.s", "ms", "m.a", "ma", "mba", "m.tech", "mtech"}},
	{EducationBachelors, []string{"bachelor", "b.s", "bs", "b.a", "ba", "b.tech", "btech", "be"}},
	{EducationAssociate, []string{"associate", "diploma"}},
	{EducationCertificate, []string{"certificate", "certification"}},
}

// EducationRank orders education levels for comparisons. Unknown labels rank 0.
func EducationRank(level string) int {
	for i, l := range educationLevels {
		if strings.EqualFold(l.level, level) {
			return len(educationLevels) - i
		}
	}
	return 0
}

// EducationLevel returns the level of the first degree entry that names one.
func EducationLevel(degrees []Degree) string {
	for _, d := range degrees {
		text := strings.ToLower(d.Degree)
		for _, l := range educationLevels {
			for _, keyword := range l.keywords {
				if containsTerm(text, keyword) {
					return l.level
				}
			}
		}
	}
	return EducationNotSpecified
}

// containsTerm reports whether term starts a word in text. Terms shorter than
// five characters, which are mostly abbreviations, must also end one.
func containsTerm(text, term string) bool {
	for offset := 0; offset <= len(text)-len(term); {
		i := strings.Index(text[offset:], term)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(term)
		if boundaryBefore(text, start) && (len(term) >= 5 || boundaryAfter(text, end)) {
			return true
		}
		offset = start + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	return i == 0 || !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	return i == len(text) || !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	return b < 0x80 && (unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b)))
}

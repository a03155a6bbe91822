package ikigai

import (
	"strings"

	"tedred-internship-api/internal/domain"
)

const (
	MultilingualThreshold = 2

	tagMultilingual = "Multilingual skills"
	tagDiversity    = "Language diversity"
	tagSouthAsian   = "South Asian language skills"
	tagPakistani    = "Pakistani language skills"
	tagArabic       = "Arabic language skills"
)

var (
	southAsianLanguages = []string{"Urdu", "Hindi", "Pashto", "Punjabi", "Sindhi", "Balochi", "Saraiki", "Kashmiri"}
	pakistaniLanguages  = []string{"Urdu", "Pashto", "Punjabi", "Sindhi", "Balochi", "Saraiki", "Kashmiri"}
)

// businessFacing categories receive the larger language bonuses. Only
// marketing qualifies; operations gets the diversity point like the rest.
func businessFacing(key domain.CategoryKey) bool {
	return key == domain.CategoryMarketing
}

// normalizeLanguages trims names and drops blanks and case-insensitive duplicates,
// keeping the first occurrence
func normalizeLanguages(in []domain.LanguageEntry) []domain.LanguageEntry {
	out := make([]domain.LanguageEntry, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, l := range in {
		name := strings.TrimSpace(l.Language)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, domain.LanguageEntry{Language: name, Level: strings.TrimSpace(l.Level)})
	}
	return out
}

func speaksAny(langs []domain.LanguageEntry, family []string) bool {
	for _, l := range langs {
		for _, f := range family {
			if strings.EqualFold(l.Language, f) {
				return true
			}
		}
	}
	return false
}

func addTag(rec *domain.DepartmentRecommendation, tag string) {
	for _, t := range rec.Enhancements {
		if t == tag {
			return
		}
	}
	rec.Enhancements = append(rec.Enhancements, tag)
}

func applyLanguages(ranked []domain.DepartmentRecommendation, langs []domain.LanguageEntry) {
	multilingual := len(langs) >= MultilingualThreshold
	southAsian := speaksAny(langs, southAsianLanguages)
	pakistani := speaksAny(langs, pakistaniLanguages)
	arabic := speaksAny(langs, []string{"Arabic"})

	for i := range ranked {
		rec := &ranked[i]
		business := businessFacing(rec.Key)

		if multilingual {
			if business {
				rec.Score += 3
				addTag(rec, tagMultilingual)
			} else {
				rec.Score += 1
				addTag(rec, tagDiversity)
			}
		}
		if southAsian && business {
			rec.Score += 2
			addTag(rec, tagSouthAsian)
		}
		if pakistani && business {
			rec.Score += 1
			addTag(rec, tagPakistani)
		}
		if arabic && business {
			rec.Score += 2
			addTag(rec, tagArabic)
		}
	}
}

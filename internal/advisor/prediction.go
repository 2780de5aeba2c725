// Package advisor scores applicant profiles for visa success and ranks
// destination countries. All functions are pure.
package advisor

import (
	"errors"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid applicant profile")

// Factor maxima; they sum to 100.
const (
	maxEducation  = 20
	maxExperience = 20
	maxLanguage   = 15
	maxFinances   = 20
	maxAge        = 10
	maxVisaType   = 5
	maxCountry    = 10
)

type Profile struct {
	Country    string `json:"country"`
	Education  string `json:"education"`
	Experience int    `json:"experience"`
	Language   string `json:"language"`
	Finances   string `json:"finances"`
	Age        int    `json:"age"`
	VisaType   string `json:"visaType"`
}

type Prediction struct {
	SuccessProbability int            `json:"successProbability"`
	Suggestions        []string       `json:"suggestions"`
	Breakdown          map[string]int `json:"breakdown"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Country) == "" ||
		strings.TrimSpace(p.Education) == "" ||
		strings.TrimSpace(p.Language) == "" ||
		strings.TrimSpace(p.Finances) == "" ||
		strings.TrimSpace(p.VisaType) == "" {
		return ErrInvalidProfile
	}
	if p.Experience < 0 || p.Experience > 30 {
		return ErrInvalidProfile
	}
	if p.Age < 18 || p.Age > 80 {
		return ErrInvalidProfile
	}
	return nil
}

type factor struct {
	name       string
	max        int
	score      int
	suggestion string
}

// Predict scores a validated profile. Every factor scoring below 60% of its
// maximum adds one suggestion, in breakdown order.
func Predict(p Profile) (Prediction, error) {
	if err := p.Validate(); err != nil {
		return Prediction{}, err
	}

	factors := []factor{
		{"education", maxEducation, educationPoints(p.Education),
			"Complete a higher degree such as a Master's to improve your education score"},
		{"experience", maxExperience, experiencePoints(p.Experience),
			"Gain more years of relevant work experience in your field"},
		{"language", maxLanguage, languagePoints(p.Language),
			"Obtain a stronger language certification such as IELTS 7.0+ or TOEFL 100+"},
		{"finances", maxFinances, financePoints(p.Finances),
			"Increase your documented funds to show stronger financial stability"},
		{"age", maxAge, agePoints(p.Age),
			"Highlight skills and experience, since programs with age points will score you lower"},
		{"visaType", maxVisaType, visaTypePoints(p.VisaType),
			"Check whether a student or skilled migration route fits your goals better"},
		{"country", maxCountry, destinationPoints(p.Country),
			"Compare destinations with more open immigration programs for your profile"},
	}

	pred := Prediction{
		Suggestions: []string{},
		Breakdown:   make(map[string]int, len(factors)),
	}
	total := 0
	for _, f := range factors {
		pred.Breakdown[f.name] = f.score
		total += f.score
		if f.score*10 < f.max*6 {
			pred.Suggestions = append(pred.Suggestions, f.suggestion)
		}
	}
	pred.SuccessProbability = clamp(total, 0, 100)
	return pred, nil
}

func educationPoints(level string) int {
	switch normalize(level) {
	case "phd":
		return 20
	case "master's", "masters":
		return 18
	case "bachelor's", "bachelors":
		return 14
	case "diploma":
		return 10
	case "high school":
		return 8
	default:
		return 4
	}
}

func experiencePoints(years int) int {
	if years > 10 {
		years = 10
	}
	if years < 0 {
		years = 0
	}
	return years * 2
}

func languagePoints(level string) int {
	switch normalize(level) {
	case "ielts 7.0+", "toefl 100+":
		return 15
	case "ielts 6.5", "toefl 80-100":
		return 11
	case "ielts 6.0":
		return 9
	case "ielts 5.5", "toefl 60-80":
		return 7
	case "ielts 5.0":
		return 5
	}
	l := normalize(level)
	switch {
	case strings.HasSuffix(l, "c1-c2"):
		return 15
	case strings.HasSuffix(l, "b1-b2"):
		return 10
	case strings.HasSuffix(l, "a1-a2"):
		return 5
	}
	return 0
}

func financePoints(level string) int {
	switch normalize(level) {
	case "high":
		return 20
	case "medium":
		return 13
	case "low":
		return 6
	default:
		return 0
	}
}

func agePoints(age int) int {
	switch {
	case age < 35:
		return 10
	case age < 40:
		return 8
	case age < 45:
		return 6
	case age < 50:
		return 4
	default:
		return 2
	}
}

func visaTypePoints(visaType string) int {
	switch normalize(visaType) {
	case "tourist", "student", "study":
		return 5
	case "business", "family", "investor":
		return 4
	case "work", "skilled migration":
		return 3
	default:
		return 2
	}
}

func destinationPoints(country string) int {
	switch normalize(country) {
	case "canada", "australia", "germany", "new zealand":
		return 8
	case "united kingdom", "singapore", "france", "japan", "ireland":
		return 7
	case "united states":
		return 5
	default:
		return 6
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

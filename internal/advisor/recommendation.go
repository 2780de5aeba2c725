package advisor

import (
	"sort"
	"strings"
)

type RecommendationProfile struct {
	Nationality        string   `json:"nationality"`
	Education          string   `json:"education"`
	Field              string   `json:"field"`
	Experience         int      `json:"experience"`
	Language           string   `json:"language"`
	FinancialAssets    float64  `json:"financialAssets"`
	AnnualIncome       float64  `json:"annualIncome"`
	VisaType           string   `json:"visaType"`
	Age                int      `json:"age,omitempty"`
	PreferredRegion    []string `json:"preferredRegion,omitempty"`
	MaritalStatus      string   `json:"maritalStatus,omitempty"`
	Dependents         int      `json:"dependents,omitempty"`
	CriminalRecord     string   `json:"criminalRecord,omitempty"`
	HealthStatus       string   `json:"healthStatus,omitempty"`
	PreviousRejections string   `json:"previousRejections,omitempty"`
}

type Recommendation struct {
	Country            string   `json:"country"`
	Region             string   `json:"region"`
	VisaTypes          []string `json:"visaTypes"`
	ApprovalLikelihood int      `json:"approvalLikelihood"`
	Rationale          string   `json:"rationale"`
}

type destination struct {
	country   string
	region    string
	visaTypes []string
	base      int
	language  string
	rationale string
}

var catalog = []destination{
	{"Canada", "North America", []string{"Study", "Work", "Immigration"}, 88, "english",
		"Express Entry points system, strong demand for skilled workers and clear permanent residence pathways"},
	{"Australia", "Oceania", []string{"Study", "Work", "Immigration"}, 82, "english",
		"Skilled migration program, well regarded universities and demand for healthcare professionals"},
	{"Germany", "Europe", []string{"Study", "Work"}, 78, "german",
		"Low tuition, EU Blue Card for skilled professionals and a shortage of engineers"},
	{"United Kingdom", "Europe", []string{"Study", "Work"}, 75, "english",
		"Leading universities, the Graduate route after study and demand for tech roles"},
	{"New Zealand", "Oceania", []string{"Work", "Immigration"}, 72, "english",
		"High quality of life, a straightforward skilled migrant category and family-friendly policies"},
	{"Singapore", "Asia", []string{"Work"}, 68, "english",
		"Strong economy with demand for finance and technology professionals"},
	{"United States", "North America", []string{"Study", "Work"}, 65, "english",
		"Top universities and H-1B opportunities, with stricter and lottery-based work routes"},
	{"Ireland", "Europe", []string{"Study", "Work"}, 70, "english",
		"EU access, a growing tech hub and post-study work options"},
}

func (p RecommendationProfile) Validate() error {
	if strings.TrimSpace(p.Nationality) == "" ||
		strings.TrimSpace(p.Education) == "" ||
		strings.TrimSpace(p.Field) == "" ||
		strings.TrimSpace(p.Language) == "" {
		return ErrInvalidProfile
	}
	if p.Experience < 0 || p.Experience > 50 || p.FinancialAssets < 0 || p.AnnualIncome < 0 || p.Dependents < 0 {
		return ErrInvalidProfile
	}
	if p.Age != 0 && (p.Age < 18 || p.Age > 80) {
		return ErrInvalidProfile
	}
	return nil
}

// Recommend ranks catalog destinations for the profile, filtered by visa
// type and preferred regions when those are set. Ties on likelihood are
// broken by country name.
func Recommend(p RecommendationProfile) ([]Recommendation, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	shared := profileAdjustment(p)
	out := []Recommendation{}
	for _, d := range catalog {
		if !matchesVisaType(d, p.VisaType) || !matchesRegion(d, p.PreferredRegion) {
			continue
		}
		likelihood := clamp(d.base+shared+languageFit(d, p.Language), 5, 95)
		out = append(out, Recommendation{
			Country:            d.country,
			Region:             d.region,
			VisaTypes:          append([]string(nil), d.visaTypes...),
			ApprovalLikelihood: likelihood,
			Rationale:          d.rationale,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ApprovalLikelihood != out[j].ApprovalLikelihood {
			return out[i].ApprovalLikelihood > out[j].ApprovalLikelihood
		}
		return out[i].Country < out[j].Country
	})
	return out, nil
}

func profileAdjustment(p RecommendationProfile) int {
	adj := 0

	switch normalize(p.Education) {
	case "phd":
		adj += 6
	case "master's", "masters":
		adj += 4
	case "bachelor's", "bachelors":
		adj += 2
	case "high school":
		adj -= 3
	case "none":
		adj -= 6
	}

	switch {
	case p.Experience >= 5:
		adj += 4
	case p.Experience >= 2:
		adj += 2
	case p.Experience == 0:
		adj -= 2
	}

	switch {
	case p.FinancialAssets >= 20000:
		adj += 3
	case p.FinancialAssets < 5000:
		adj -= 3
	}

	switch normalize(p.CriminalRecord) {
	case "major offenses":
		adj -= 25
	case "minor offenses":
		adj -= 8
	}

	switch normalize(p.PreviousRejections) {
	case "1 rejection":
		adj -= 5
	case "2+ rejections":
		adj -= 12
	}

	switch normalize(p.HealthStatus) {
	case "chronic condition":
		adj -= 3
	case "requires medical exam":
		adj -= 2
	}

	return adj
}

// languageFit rewards certifications in the destination's working language.
func languageFit(d destination, level string) int {
	l := normalize(level)
	switch {
	case l == "" || l == "none":
		return -4
	case strings.HasPrefix(l, d.language+" ") && strings.HasSuffix(l, "c1-c2"):
		return 6
	case strings.HasPrefix(l, d.language+" ") && strings.HasSuffix(l, "b1-b2"):
		return 3
	case d.language == "english" && (l == "ielts 7.0+" || l == "toefl 100+"):
		return 4
	case d.language == "english" && (l == "ielts 6.5" || l == "toefl 80-100"):
		return 1
	case d.language == "english" && (strings.HasPrefix(l, "ielts") || strings.HasPrefix(l, "toefl")):
		return -2
	default:
		return 0
	}
}

func matchesVisaType(d destination, visaType string) bool {
	want := normalize(visaType)
	if want == "" {
		return true
	}
	if want == "student" {
		want = "study"
	}
	for _, t := range d.visaTypes {
		if strings.ToLower(t) == want {
			return true
		}
	}
	return false
}

func matchesRegion(d destination, regions []string) bool {
	if len(regions) == 0 {
		return true
	}
	for _, r := range regions {
		if strings.EqualFold(strings.TrimSpace(r), d.region) {
			return true
		}
	}
	return false
}

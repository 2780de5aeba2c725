package advisor

import (
	"errors"
	"reflect"
	"testing"
)

func strongProfile() Profile {
	return Profile{
		Country:    "Canada",
		Education:  "Master's",
		Experience: 5,
		Language:   "IELTS 7.0+",
		Finances:   "High",
		Age:        30,
		VisaType:   "Work",
	}
}

func TestPredict_Strong(t *testing.T) {
	got, err := Predict(strongProfile())
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.SuccessProbability != 84 {
		t.Errorf("probability = %d, want 84", got.SuccessProbability)
	}
	want := map[string]int{
		"education": 18, "experience": 10, "language": 15, "finances": 20,
		"age": 10, "visaType": 3, "country": 8,
	}
	if !reflect.DeepEqual(got.Breakdown, want) {
		t.Errorf("breakdown = %v, want %v", got.Breakdown, want)
	}
	if len(got.Suggestions) != 1 {
		t.Errorf("suggestions = %v, want only the experience hint", got.Suggestions)
	}
}

func TestPredict_Weak(t *testing.T) {
	got, err := Predict(Profile{
		Country:    "Other",
		Education:  "High School",
		Experience: 0,
		Language:   "None",
		Finances:   "Low",
		Age:        55,
		VisaType:   "Other",
	})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got.SuccessProbability != 24 {
		t.Errorf("probability = %d, want 24", got.SuccessProbability)
	}
	if len(got.Suggestions) != 6 {
		t.Errorf("suggestions = %d, want 6", len(got.Suggestions))
	}
}

func TestPredict_Deterministic(t *testing.T) {
	a, _ := Predict(strongProfile())
	b, _ := Predict(strongProfile())
	if !reflect.DeepEqual(a, b) {
		t.Error("equal profiles produced different predictions")
	}
}

func TestPredict_Invalid(t *testing.T) {
	cases := map[string]func(*Profile){
		"missing education": func(p *Profile) { p.Education = "" },
		"too young":         func(p *Profile) { p.Age = 17 },
		"too old":           func(p *Profile) { p.Age = 81 },
		"experience":        func(p *Profile) { p.Experience = 31 },
		"missing visa type": func(p *Profile) { p.VisaType = " " },
	}
	for name, mutate := range cases {
		p := strongProfile()
		mutate(&p)
		if _, err := Predict(p); !errors.Is(err, ErrInvalidProfile) {
			t.Errorf("%s: err = %v, want ErrInvalidProfile", name, err)
		}
	}
}

func recProfile() RecommendationProfile {
	return RecommendationProfile{
		Nationality:     "India",
		Education:       "Master's",
		Field:           "Computer Science",
		Experience:      5,
		Language:        "IELTS 7.0+",
		FinancialAssets: 30000,
		AnnualIncome:    40000,
	}
}

func countries(recs []Recommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Country)
	}
	return out
}

func TestRecommend_RankedByLikelihoodThenName(t *testing.T) {
	recs, err := Recommend(recProfile())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"Australia", "Canada", "United Kingdom", "Germany", "New Zealand", "Ireland", "Singapore", "United States"}
	if got := countries(recs); !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if recs[0].ApprovalLikelihood != 95 || recs[1].ApprovalLikelihood != 95 {
		t.Errorf("top likelihoods = %d, %d, want clamped to 95", recs[0].ApprovalLikelihood, recs[1].ApprovalLikelihood)
	}
}

func TestRecommend_Filters(t *testing.T) {
	p := recProfile()
	p.VisaType = "work"
	p.PreferredRegion = []string{"Europe"}

	recs, err := Recommend(p)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := []string{"United Kingdom", "Germany", "Ireland"}
	if got := countries(recs); !reflect.DeepEqual(got, want) {
		t.Errorf("filtered = %v, want %v", got, want)
	}

	p.VisaType = "Investor"
	recs, _ = Recommend(p)
	if recs == nil || len(recs) != 0 {
		t.Errorf("unsupported visa type = %#v, want empty list", recs)
	}
}

func TestRecommend_LikelihoodBounds(t *testing.T) {
	p := RecommendationProfile{
		Nationality:        "Nowhere",
		Education:          "None",
		Field:              "Other",
		Language:           "None",
		CriminalRecord:     "Major Offenses",
		PreviousRejections: "2+ Rejections",
		HealthStatus:       "Chronic Condition",
	}
	recs, err := Recommend(p)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	for _, r := range recs {
		if r.ApprovalLikelihood < 5 || r.ApprovalLikelihood > 95 {
			t.Errorf("%s likelihood = %d, out of [5,95]", r.Country, r.ApprovalLikelihood)
		}
	}
}

func TestRecommend_Invalid(t *testing.T) {
	p := recProfile()
	p.FinancialAssets = -1
	if _, err := Recommend(p); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("negative assets: err = %v", err)
	}
	p = recProfile()
	p.Nationality = ""
	if _, err := Recommend(p); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("missing nationality: err = %v", err)
	}
}

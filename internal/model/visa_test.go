package model

import (
	"reflect"
	"testing"
)

func TestRequirementsRoundTrip(t *testing.T) {
	row := NewVisaInfo(VisaRecord{Country: "Canada", VisaType: "Work", Requirements: []string{"A", "B"}})

	got, err := row.DecodeRequirements()
	if err != nil {
		t.Fatalf("DecodeRequirements: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("requirements = %v, want [A B]", got)
	}
}

func TestSetRequirements_NilStoresEmptyArray(t *testing.T) {
	var row VisaInfo
	row.SetRequirements(nil)
	if row.Requirements != "[]" {
		t.Errorf("Requirements = %q, want []", row.Requirements)
	}
}

func TestDecodeRequirements_Malformed(t *testing.T) {
	for _, raw := range []string{"not json", `{"a":1}`, "null", ""} {
		row := VisaInfo{ID: 7, Requirements: raw}
		got, _ := row.DecodeRequirements()
		if got == nil || len(got) != 0 {
			t.Errorf("raw %q: requirements = %#v, want empty non-nil slice", raw, got)
		}
	}

	row := VisaInfo{ID: 7, Requirements: "not json"}
	if _, err := row.DecodeRequirements(); err == nil {
		t.Error("expected decode error for malformed column")
	}
}

func TestNewVisaInfo_EmptyOptionalStringsBecomeNull(t *testing.T) {
	empty := ""
	link := "https://example.test"
	row := NewVisaInfo(VisaRecord{Country: "Germany", VisaType: "Student", Notes: &empty, EmbassyLink: &link})

	if row.Notes != nil {
		t.Errorf("Notes = %q, want nil", *row.Notes)
	}
	if row.EmbassyLink == nil || *row.EmbassyLink != link {
		t.Errorf("EmbassyLink = %v, want %q", row.EmbassyLink, link)
	}
}

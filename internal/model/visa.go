package model

import (
	"encoding/json"
	"fmt"
)

// VisaInfo is one row of the visa_info table. Requirements is stored as a JSON
// array of strings in a text column.
type VisaInfo struct {
	ID             uint    `gorm:"primaryKey"`
	Country        string  `gorm:"size:128;not null;index"`
	VisaType       string  `gorm:"size:128;not null"`
	Requirements   string  `gorm:"type:text"`
	ProcessingTime string  `gorm:"type:text"`
	Validity       string  `gorm:"type:text"`
	Fees           string  `gorm:"type:text"`
	EntryType      string  `gorm:"type:text"`
	AllowedStay    string  `gorm:"type:text"`
	EmbassyLink    *string `gorm:"type:text"`
	Notes          *string `gorm:"type:text"`
	Error          *string `gorm:"column:error;type:text"`
}

func (VisaInfo) TableName() string {
	return "visa_info"
}

// DecodeRequirements parses the stored requirements column. An empty column
// decodes to an empty list.
func (v *VisaInfo) DecodeRequirements() ([]string, error) {
	if v.Requirements == "" {
		return []string{}, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v.Requirements), &out); err != nil {
		return []string{}, fmt.Errorf("decode requirements of visa %d: %w", v.ID, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// SetRequirements stores the list as JSON; nil is stored as "[]".
func (v *VisaInfo) SetRequirements(list []string) {
	if len(list) == 0 {
		v.Requirements = "[]"
		return
	}
	b, _ := json.Marshal(list)
	v.Requirements = string(b)
}

// VisaRecord is the wire shape of a visa row, used both for responses and for
// bulk import payloads.
type VisaRecord struct {
	ID             uint     `json:"id"`
	Country        string   `json:"country"`
	VisaType       string   `json:"visa_type"`
	Requirements   []string `json:"requirements"`
	ProcessingTime string   `json:"processing_time"`
	Validity       string   `json:"validity"`
	Fees           string   `json:"fees"`
	EntryType      string   `json:"entry_type"`
	AllowedStay    string   `json:"allowed_stay"`
	EmbassyLink    *string  `json:"embassy_link"`
	Notes          *string  `json:"notes"`
	Error          *string  `json:"error"`
}

// NewVisaInfo converts an import record into a row. The ID is left for the
// store to assign.
func NewVisaInfo(r VisaRecord) *VisaInfo {
	row := &VisaInfo{
		Country:        r.Country,
		VisaType:       r.VisaType,
		ProcessingTime: r.ProcessingTime,
		Validity:       r.Validity,
		Fees:           r.Fees,
		EntryType:      r.EntryType,
		AllowedStay:    r.AllowedStay,
		EmbassyLink:    nonEmpty(r.EmbassyLink),
		Notes:          nonEmpty(r.Notes),
		Error:          nonEmpty(r.Error),
	}
	row.SetRequirements(r.Requirements)
	return row
}

// Record converts a row to its wire shape with the given decoded requirements.
func (v *VisaInfo) Record(requirements []string) VisaRecord {
	return VisaRecord{
		ID:             v.ID,
		Country:        v.Country,
		VisaType:       v.VisaType,
		Requirements:   requirements,
		ProcessingTime: v.ProcessingTime,
		Validity:       v.Validity,
		Fees:           v.Fees,
		EntryType:      v.EntryType,
		AllowedStay:    v.AllowedStay,
		EmbassyLink:    v.EmbassyLink,
		Notes:          v.Notes,
		Error:          v.Error,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

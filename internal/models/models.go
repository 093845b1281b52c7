package models

import "strings"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// ParseGender accepts "M"/"F" in either case.
func ParseGender(s string) (Gender, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M":
		return GenderMale, true
	case "F":
		return GenderFemale, true
	}
	return "", false
}

// NameRecord is one (name, gender, count) row tagged with the year of its source file.
type NameRecord struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
	Count  int64  `json:"count"`
	Year   int    `json:"year"`
}

type NameKey struct {
	Name   string `json:"name"`
	Gender Gender `json:"gender"`
}

// Batch is one page of distinct names drawn for a gender.
type Batch struct {
	Gender Gender
	Names  []string
}

type SummaryEntry struct {
	Name      string `json:"name"`
	Gender    Gender `json:"gender"`
	Total     int64  `json:"total_occurrences"`
	PeakYears []int  `json:"peak_years"`
}

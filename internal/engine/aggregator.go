package engine

import (
	"sort"

	"babynames/internal/models"
)

// NamePool lists names per gender; a name appears once per source row.
type NamePool map[models.Gender][]string

// OccurrenceIndex maps (name, gender) to a year -> count histogram.
type OccurrenceIndex map[models.NameKey]map[int]int64

// Index is built once by Aggregate and only read afterwards.
type Index struct {
	Pool        NamePool
	Occurrences OccurrenceIndex
}

func (s *RecordStore) Aggregate() *Index {
	idx := &Index{
		Pool: NamePool{
			models.GenderMale:   make([]string, 0),
			models.GenderFemale: make([]string, 0),
		},
		Occurrences: make(OccurrenceIndex),
	}

	for i := 0; i < s.Len(); i++ {
		g := s.Genders[i]
		// Unknown gender codes are dropped from both views
		if g != models.GenderMale && g != models.GenderFemale {
			continue
		}
		name := s.NameDict[s.NameIDs[i]]

		// A. Pool (duplicates kept)
		idx.Pool[g] = append(idx.Pool[g], name)

		// B. Histogram (sum when the same year shows up twice)
		key := models.NameKey{Name: name, Gender: g}
		hist, ok := idx.Occurrences[key]
		if !ok {
			hist = make(map[int]int64)
			idx.Occurrences[key] = hist
		}
		hist[int(s.Years[i])] += s.Counts[i]
	}

	return idx
}

func (idx *Index) PoolSize(g models.Gender) int { return len(idx.Pool[g]) }

// Total sums the histogram of key over all years.
func (idx *Index) Total(key models.NameKey) int64 {
	var total int64
	for _, c := range idx.Occurrences[key] {
		total += c
	}
	return total
}

// PeakYears returns every year tied for the highest count, ascending.
func (idx *Index) PeakYears(key models.NameKey) []int {
	hist := idx.Occurrences[key]
	if len(hist) == 0 {
		return nil
	}
	var best int64
	first := true
	var years []int
	for y, c := range hist {
		switch {
		case first || c > best:
			best, years, first = c, []int{y}, false
		case c == best:
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

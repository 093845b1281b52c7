package engine

import "babynames/internal/models"

// RecordStore holds loaded rows in Struct-of-Arrays format
type RecordStore struct {
	// Data Columns (Flat Arrays)
	Genders []models.Gender
	Counts  []int64
	Years   []int32

	// Dictionary Encoded IDs (0..N)
	NameIDs []int32

	// Dictionary (ID -> String)
	NameDict []string

	nameMap map[string]int32
}

func NewRecordStore() *RecordStore {
	return &RecordStore{nameMap: make(map[string]int32)}
}

func (s *RecordStore) Len() int { return len(s.Counts) }

// Append adds one row, dictionary-encoding the name.
func (s *RecordStore) Append(name string, gender models.Gender, count int64, year int32) {
	if s.nameMap == nil {
		s.nameMap = make(map[string]int32, len(s.NameDict))
		for id, n := range s.NameDict {
			s.nameMap[n] = int32(id)
		}
	}
	id, ok := s.nameMap[name]
	if !ok {
		id = int32(len(s.NameDict))
		s.NameDict = append(s.NameDict, name)
		s.nameMap[name] = id
	}
	s.NameIDs = append(s.NameIDs, id)
	s.Genders = append(s.Genders, gender)
	s.Counts = append(s.Counts, count)
	s.Years = append(s.Years, year)
}

func (s *RecordStore) Record(i int) models.NameRecord {
	return models.NameRecord{
		Name:   s.NameDict[s.NameIDs[i]],
		Gender: s.Genders[i],
		Count:  s.Counts[i],
		Year:   int(s.Years[i]),
	}
}

package session

import "babynames/internal/models"

// LikedSet only grows; there is no unlike.
type LikedSet struct {
	keys  map[models.NameKey]struct{}
	order []models.NameKey
}

func NewLikedSet() *LikedSet {
	return &LikedSet{keys: make(map[models.NameKey]struct{})}
}

// Add reports whether key was newly added.
func (l *LikedSet) Add(key models.NameKey) bool {
	if _, ok := l.keys[key]; ok {
		return false
	}
	l.keys[key] = struct{}{}
	l.order = append(l.order, key)
	return true
}

func (l *LikedSet) Has(key models.NameKey) bool {
	_, ok := l.keys[key]
	return ok
}

func (l *LikedSet) Len() int { return len(l.order) }

// Keys returns liked pairs in the order they were liked.
func (l *LikedSet) Keys() []models.NameKey {
	out := make([]models.NameKey, len(l.order))
	copy(out, l.order)
	return out
}

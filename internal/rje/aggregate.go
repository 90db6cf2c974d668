package rje

import "github.com/ghalass/gmao-pro-sub001/internal/domain"

// Totals are the raw sums of one engin over one window.
type Totals struct {
	HRM float64
	HIM float64
	NI  int
}

// Activity indexes the prefetched HRM rows (with their HIM children) by engin so that
// every (engin, window) pair is answered in memory.
type Activity struct {
	byEngin map[string][]domain.Saisiehrm
}

// IndexActivity groups rows by engin. The rows are not copied.
func IndexActivity(rows []domain.Saisiehrm) *Activity {
	a := &Activity{byEngin: make(map[string][]domain.Saisiehrm)}
	for _, r := range rows {
		a.byEngin[r.EnginID] = append(a.byEngin[r.EnginID], r)
	}
	return a
}

// HasActivity reports whether the engin has at least one HRM row inside w.
func (a *Activity) HasActivity(enginID string, w Window) bool {
	for _, r := range a.byEngin[enginID] {
		if w.Contains(r.Du) {
			return true
		}
	}
	return false
}

// Totals sums hrm, him and ni of the engin's rows whose du falls inside w.
func (a *Activity) Totals(enginID string, w Window) Totals {
	var t Totals
	for _, r := range a.byEngin[enginID] {
		if !w.Contains(r.Du) {
			continue
		}
		t.HRM += r.HRM
		for _, h := range r.HIMs {
			t.HIM += h.HIM
			t.NI += h.NI
		}
	}
	return t
}

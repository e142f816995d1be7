package store

import "time"

type WeekGroup struct {
	Week  string
	Cards []Flashcard
}

type SubjectGroup struct {
	Subject string
	Weeks   []WeekGroup
}

// CardsBySubject groups the collection by subject, then week, keeping the
// order in which each subject and week first appears.
func (s *Store) CardsBySubject() []SubjectGroup {
	var groups []SubjectGroup
	subjectIdx := map[string]int{}
	weekIdx := map[string]map[string]int{}

	for _, c := range s.Cards() {
		si, ok := subjectIdx[c.Subject]
		if !ok {
			si = len(groups)
			subjectIdx[c.Subject] = si
			weekIdx[c.Subject] = map[string]int{}
			groups = append(groups, SubjectGroup{Subject: c.Subject})
		}
		wi, ok := weekIdx[c.Subject][c.Week]
		if !ok {
			wi = len(groups[si].Weeks)
			weekIdx[c.Subject][c.Week] = wi
			groups[si].Weeks = append(groups[si].Weeks, WeekGroup{Week: c.Week})
		}
		groups[si].Weeks[wi].Cards = append(groups[si].Weeks[wi].Cards, c)
	}
	return groups
}

// DueCards lists the cards to review at now.
func (s *Store) DueCards(now time.Time) []Flashcard {
	var due []Flashcard
	for _, c := range s.Cards() {
		if c.Due(now) {
			due = append(due, c)
		}
	}
	return due
}

// Starred lists starred cards.
func (s *Store) Starred() []Flashcard {
	var out []Flashcard
	for _, c := range s.Cards() {
		if c.Starred {
			out = append(out, c)
		}
	}
	return out
}

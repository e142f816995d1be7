package store

import "time"

const (
	PointsCorrect   = 30
	PointsIncorrect = -10
	PointsPerLevel  = 500

	CorrectInterval   = 5 * 24 * time.Hour
	IncorrectInterval = 24 * time.Hour

	dateLayout = "2006-01-02"
)

// Progress is the gamified state of one user.
type Progress struct {
	Points                int    `json:"points"`
	Level                 int    `json:"level"`
	Streak                int    `json:"streak"`
	LongestStreak         int    `json:"longestStreak"`
	LastStudyDate         string `json:"lastStudyDate"`
	TotalStudyTimeMinutes int    `json:"totalStudyTimeMinutes"`
}

// LevelFor maps points onto levels of PointsPerLevel each, starting at 1.
func LevelFor(points int) int {
	return max(points, 0)/PointsPerLevel + 1
}

// Accuracy is correct/total as a percentage, 0 for an empty session.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func (s *Store) MarkCardCorrect(id string) error {
	return s.grade(id, true)
}

func (s *Store) MarkCardIncorrect(id string) error {
	return s.grade(id, false)
}

// grade records one answer: the card's counters and schedule, the points and
// the session tally change together.
func (s *Store) grade(id string, correct bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return notFound(id)
	}

	now := s.clock.Now()
	card := &s.state.Cards[i]
	reviewed := now
	card.LastReviewed = &reviewed

	if correct {
		next := now.Add(CorrectInterval)
		card.CorrectCount++
		card.NextReview = &next
		s.addPoints(PointsCorrect)
		s.state.Session.Correct++
	} else {
		next := now.Add(IncorrectInterval)
		card.IncorrectCount++
		card.NextReview = &next
		s.addPoints(PointsIncorrect)
		s.state.Session.Incorrect++
	}
	s.state.Session.Total++

	s.persist()
	return nil
}

func (s *Store) AddPoints(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addPoints(delta)
	s.persist()
}

func (s *Store) addPoints(delta int) {
	p := &s.state.Progress
	p.Points = max(p.Points+delta, 0)
	p.Level = LevelFor(p.Points)
}

// UpdateStreak counts one day of study. Repeated calls on the same calendar
// day change nothing.
func (s *Store) UpdateStreak() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().In(s.loc)
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)

	p := &s.state.Progress
	switch p.LastStudyDate {
	case today:
		return
	case yesterday:
		p.Streak++
	default:
		p.Streak = 1
	}
	p.LastStudyDate = today
	p.LongestStreak = max(p.LongestStreak, p.Streak)
	s.persist()
}

// AddStudyTime accumulates practice minutes; negative values are ignored.
func (s *Store) AddStudyTime(minutes int) {
	if minutes <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Progress.TotalStudyTimeMinutes += minutes
	s.persist()
}

func (s *Store) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Progress
}

package services

import (
	"fmt"
	"sync"
	"time"
)

// BOQIDSequence hands out sequential per-year BOQ ids: BOQ-{year}-{sequence}.
type BOQIDSequence struct {
	mu   sync.Mutex
	last map[int]int
}

// NewBOQIDSequence creates a sequence starting at 1 for every year.
func NewBOQIDSequence() *BOQIDSequence {
	return &BOQIDSequence{last: make(map[int]int)}
}

// Peek returns the next id for the calendar year of now without using it up.
func (s *BOQIDSequence) Peek(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	year := now.Year()
	return formatBOQNumber(year, s.last[year]+1)
}

// Advance uses up the id Peek returns for the year of now. Callers that pair
// Peek with Advance must serialize them.
func (s *BOQIDSequence) Advance(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.last[now.Year()]++
}

func formatBOQNumber(year, sequence int) string {
	return fmt.Sprintf("BOQ-%d-%03d", year, sequence)
}

// Package model defines shared data structures.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Game shape constants.
const (
	MinNumber   = 1
	MaxNumber   = 25
	NumberCount = MaxNumber - MinNumber + 1
	DrawSize    = 15
	MaxPlaySize = 20
)

// Draw is one historical result: 15 distinct numbers in [1,25], sorted.
type Draw struct {
	numbers [DrawSize]int
}

// NewDraw validates numbers and returns an immutable Draw.
func NewDraw(numbers []int) (Draw, error) {
	if len(numbers) != DrawSize {
		return Draw{}, &InvalidDrawError{Numbers: numbers, Reason: fmt.Sprintf("expected %d numbers, got %d", DrawSize, len(numbers))}
	}
	seen := map[int]struct{}{}
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return Draw{}, &InvalidDrawError{Numbers: numbers, Reason: fmt.Sprintf("number %d out of range", n)}
		}
		if _, ok := seen[n]; ok {
			return Draw{}, &InvalidDrawError{Numbers: numbers, Reason: fmt.Sprintf("duplicate number %d", n)}
		}
		seen[n] = struct{}{}
	}
	var d Draw
	copy(d.numbers[:], numbers)
	sort.Ints(d.numbers[:])
	return d, nil
}

// MustDraw is NewDraw for literals known to be valid.
func MustDraw(numbers ...int) Draw {
	d, err := NewDraw(numbers)
	if err != nil {
		panic(err)
	}
	return d
}

// Numbers returns a copy of the sorted numbers.
func (d Draw) Numbers() []int {
	out := make([]int, DrawSize)
	copy(out, d.numbers[:])
	return out
}

// Contains reports whether n was drawn.
func (d Draw) Contains(n int) bool {
	i := sort.SearchInts(d.numbers[:], n)
	return i < DrawSize && d.numbers[i] == n
}

// Mask returns the draw as a bitmask where bit n is set for each number n.
func (d Draw) Mask() uint32 {
	return MaskOf(d.numbers[:])
}

// String renders the draw as zero-padded numbers.
func (d Draw) String() string {
	return FormatNumbers(d.numbers[:])
}

// History is an ordered sequence of draws, oldest first.
type History []Draw

// Last returns the newest draw.
func (h History) Last() (Draw, bool) {
	if len(h) == 0 {
		return Draw{}, false
	}
	return h[len(h)-1], true
}

// Window returns the newest n draws, or the whole history when n <= 0.
func (h History) Window(n int) History {
	if n <= 0 || n >= len(h) {
		return h
	}
	return h[len(h)-n:]
}

// DrawRecord is a draw with its contest metadata.
type DrawRecord struct {
	Contest int
	Date    time.Time
	Draw    Draw
}

// HistoryOf extracts the draws from records in order.
func HistoryOf(records []DrawRecord) History {
	h := make(History, len(records))
	for i, r := range records {
		h[i] = r.Draw
	}
	return h
}

// FrequencyTable maps each number to its count of appearances.
type FrequencyTable map[int]int

// DelayTable maps each number to the draws elapsed since it last appeared.
type DelayTable map[int]int

// RankEntry is one (number, score) pair of a ranking.
type RankEntry struct {
	Number int `json:"number" yaml:"number"`
	Score  int `json:"score" yaml:"score"`
}

// Ranking is ordered by score descending, ties by ascending number.
type Ranking []RankEntry

// Numbers returns the ranked numbers in order.
func (r Ranking) Numbers() []int {
	out := make([]int, len(r))
	for i, e := range r {
		out[i] = e.Number
	}
	return out
}

// Play is a generated or user-supplied combination, sorted ascending.
type Play []int

// Mask returns the play as a bitmask.
func (p Play) Mask() uint32 {
	return MaskOf(p)
}

// Sum returns the sum of the numbers.
func (p Play) Sum() int {
	total := 0
	for _, n := range p {
		total += n
	}
	return total
}

// Odd returns how many numbers are odd.
func (p Play) Odd() int {
	odd := 0
	for _, n := range p {
		if n%2 == 1 {
			odd++
		}
	}
	return odd
}

// String renders the play as zero-padded numbers.
func (p Play) String() string {
	return FormatNumbers(p)
}

// ParsePlay builds a play of 15 to 20 distinct numbers in range.
func ParsePlay(numbers []int) (Play, error) {
	if len(numbers) < DrawSize || len(numbers) > MaxPlaySize {
		return nil, fmt.Errorf("play must have %d to %d numbers, got %d", DrawSize, MaxPlaySize, len(numbers))
	}
	seen := map[int]struct{}{}
	out := make(Play, 0, len(numbers))
	for _, n := range numbers {
		if n < MinNumber || n > MaxNumber {
			return nil, fmt.Errorf("number %d out of range %d-%d", n, MinNumber, MaxNumber)
		}
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("duplicate number %d", n)
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}

// MaskOf returns a bitmask where bit n is set for each number n.
func MaskOf(numbers []int) uint32 {
	var m uint32
	for _, n := range numbers {
		m |= 1 << uint(n)
	}
	return m
}

// FormatNumbers renders numbers as space separated two-digit values.
func FormatNumbers(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// BetPrice returns the ticket price for a play size, or false if unsupported.
func BetPrice(size int) (float64, bool) {
	price, ok := betPrices[size]
	return price, ok
}

var betPrices = map[int]float64{
	15: 3.50,
	16: 56.00,
	17: 476.00,
	18: 2856.00,
	19: 13566.00,
	20: 54264.00,
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	Last        int // newest draws only; 0 means all
	TopN        int // entries per repeated-combination size
	TrendWindow int // moving-average window of the sum trend
}

// Batch is a saved set of generated plays.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Note      string
	Plays     []Play
}

package pricing

import (
	"fmt"
	"math"
)

// Ladder is an ordered list of rank names, lowest to highest. Index order is
// rank order: a higher index is always a higher rank.
type Ladder []string

func (l Ladder) Index(name string) (int, bool) {
	for i, r := range l {
		if r == name {
			return i, true
		}
	}
	return -1, false
}

func (l Ladder) Name(i int) (string, bool) {
	if i < 0 || i >= len(l) {
		return "", false
	}
	return l[i], true
}

// Validate checks that the ladder is usable: at least two ranks, no blanks,
// no duplicate names.
func (l Ladder) Validate() error {
	if len(l) < 2 {
		return fmt.Errorf("ladder needs at least 2 ranks, got %d", len(l))
	}
	seen := make(map[string]bool, len(l))
	for i, r := range l {
		if r == "" {
			return fmt.Errorf("ladder rank %d is empty", i)
		}
		if seen[r] {
			return fmt.Errorf("duplicate rank %q in ladder", r)
		}
		seen[r] = true
	}
	return nil
}

// StepCost returns the cost of climbing from ladder index i to i+1.
type StepCost func(i int) int

// Flat charges the same amount for every step, regardless of position.
func Flat(perLevel int) StepCost {
	return func(int) int { return perLevel }
}

// Tiered charges base for the first step and increment more for each step
// further up the ladder.
func Tiered(base, increment int) StepCost {
	return func(i int) int { return base + increment*i }
}

// Quote is a priced rank-up request. Net is what the service provider
// receives; Gross is what the payer must spend so the provider nets Net
// after the marketplace takes its cut.
type Quote struct {
	FromRank  string
	ToRank    string
	FromIndex int
	ToIndex   int
	Steps     int
	Net       int
	Gross     int
	FirstStep int
	LastStep  int
}

// RankError reports a rank name that is not on the ladder.
type RankError struct {
	Rank string
}

func (e *RankError) Error() string {
	return fmt.Sprintf("unknown rank %q", e.Rank)
}

// RangeError reports a rank-up request whose target is not strictly above
// its source.
type RangeError struct {
	From string
	To   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("target rank %q must be higher than %q", e.To, e.From)
}

// ComputeQuote prices the climb from one rank to another. Net is the sum of
// step costs over [fromIndex, toIndex); Gross is Net divided by the payout
// share (1 - feeRatio), rounded up to the next whole unit.
func ComputeQuote(l Ladder, from, to string, cost StepCost, feeRatio float64) (*Quote, error) {
	fromIdx, ok := l.Index(from)
	if !ok {
		return nil, &RankError{Rank: from}
	}
	toIdx, ok := l.Index(to)
	if !ok {
		return nil, &RankError{Rank: to}
	}
	if toIdx <= fromIdx {
		return nil, &RangeError{From: from, To: to}
	}

	net := 0
	for i := fromIdx; i < toIdx; i++ {
		net += cost(i)
	}

	return &Quote{
		FromRank:  from,
		ToRank:    to,
		FromIndex: fromIdx,
		ToIndex:   toIdx,
		Steps:     toIdx - fromIdx,
		Net:       net,
		Gross:     GrossFromNet(net, feeRatio),
		FirstStep: cost(fromIdx),
		LastStep:  cost(toIdx - 1),
	}, nil
}

// GrossFromNet inflates a net amount so the provider still nets it after the
// marketplace takes feeRatio of the gross transaction.
func GrossFromNet(net int, feeRatio float64) int {
	if feeRatio <= 0 {
		return net
	}
	return int(math.Ceil(float64(net) / (1 - feeRatio)))
}

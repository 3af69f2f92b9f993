package pricing

import (
	"errors"
	"testing"
)

var testLadder = Ladder{
	"Bronze 1", "Bronze 2", "Bronze 3",
	"Silver 1", "Silver 2", "Silver 3",
	"Gold 1", "Gold 2", "Gold 3",
	"Platinum 1", "Platinum 2", "Platinum 3",
	"Diamond 1", "Diamond 2", "Diamond 3",
	"Onyx 1", "Onyx 2", "Onyx 3",
	"Nemesis",
	"Archnemesis",
}

func TestComputeQuoteTiered(t *testing.T) {
	cost := Tiered(100, 10)

	tests := []struct {
		name      string
		from, to  string
		steps     int
		net       int
		gross     int
		first     int
		last      int
	}{
		{"single step from bottom", "Bronze 1", "Bronze 2", 1, 100, 143, 100, 100},
		{"two steps from bottom", "Bronze 1", "Bronze 3", 2, 210, 300, 100, 110},
		{"mid ladder", "Silver 1", "Gold 1", 3, 420, 600, 130, 150},
		{"top step", "Nemesis", "Archnemesis", 1, 280, 400, 280, 280},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ComputeQuote(testLadder, tt.from, tt.to, cost, 0.3)
			if err != nil {
				t.Fatalf("ComputeQuote(%s, %s) error: %v", tt.from, tt.to, err)
			}
			if q.Steps != tt.steps {
				t.Errorf("Steps = %d, want %d", q.Steps, tt.steps)
			}
			if q.Net != tt.net {
				t.Errorf("Net = %d, want %d", q.Net, tt.net)
			}
			if q.Gross != tt.gross {
				t.Errorf("Gross = %d, want %d", q.Gross, tt.gross)
			}
			if q.FirstStep != tt.first || q.LastStep != tt.last {
				t.Errorf("steps = %d/%d, want %d/%d", q.FirstStep, q.LastStep, tt.first, tt.last)
			}
		})
	}
}

func TestComputeQuoteFlat(t *testing.T) {
	q, err := ComputeQuote(testLadder, "Bronze 1", "Gold 1", Flat(50), 0)
	if err != nil {
		t.Fatalf("ComputeQuote error: %v", err)
	}
	if q.Steps != 6 || q.Net != 300 {
		t.Errorf("got steps=%d net=%d, want 6/300", q.Steps, q.Net)
	}
	if q.Gross != q.Net {
		t.Errorf("zero fee should keep gross == net, got %d/%d", q.Gross, q.Net)
	}
	if q.FirstStep != 50 || q.LastStep != 50 {
		t.Errorf("flat policy step costs = %d/%d, want 50/50", q.FirstStep, q.LastStep)
	}
}

func TestGrossFromNetRoundsUp(t *testing.T) {
	// 210/0.7 = 300 exactly; 211/0.7 = 301.43 rounds up to 302.
	if g := GrossFromNet(210, 0.3); g != 300 {
		t.Errorf("GrossFromNet(210) = %d, want 300", g)
	}
	if g := GrossFromNet(211, 0.3); g != 302 {
		t.Errorf("GrossFromNet(211) = %d, want 302", g)
	}
}

func TestComputeQuoteInvalidRange(t *testing.T) {
	cost := Tiered(100, 10)

	for _, tt := range [][2]string{
		{"Bronze 2", "Bronze 1"},
		{"Bronze 1", "Bronze 1"},
		{"Archnemesis", "Bronze 1"},
	} {
		q, err := ComputeQuote(testLadder, tt[0], tt[1], cost, 0.3)
		var rangeErr *RangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("ComputeQuote(%s, %s) error = %v, want RangeError", tt[0], tt[1], err)
		}
		if q != nil {
			t.Errorf("ComputeQuote(%s, %s) returned partial quote %+v", tt[0], tt[1], q)
		}
	}
}

func TestComputeQuoteUnknownRank(t *testing.T) {
	cost := Flat(50)

	q, err := ComputeQuote(testLadder, "Wood 3", "Bronze 2", cost, 0.3)
	var rankErr *RankError
	if !errors.As(err, &rankErr) {
		t.Fatalf("error = %v, want RankError", err)
	}
	if rankErr.Rank != "Wood 3" {
		t.Errorf("RankError.Rank = %q, want the offending name echoed back", rankErr.Rank)
	}
	if q != nil {
		t.Errorf("returned partial quote %+v", q)
	}

	if _, err := ComputeQuote(testLadder, "Bronze 1", "Unranked", cost, 0.3); !errors.As(err, &rankErr) {
		t.Errorf("bad target error = %v, want RankError", err)
	}
}

func TestLadderValidate(t *testing.T) {
	if err := testLadder.Validate(); err != nil {
		t.Errorf("default ladder should validate, got %v", err)
	}
	if err := (Ladder{"Only"}).Validate(); err == nil {
		t.Error("single-rank ladder should fail validation")
	}
	if err := (Ladder{"A", "B", "A"}).Validate(); err == nil {
		t.Error("duplicate rank should fail validation")
	}
	if err := (Ladder{"A", ""}).Validate(); err == nil {
		t.Error("empty rank name should fail validation")
	}
}

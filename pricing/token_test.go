package pricing

import (
	"errors"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	q, err := ComputeQuote(testLadder, "Bronze 1", "Bronze 3", Tiered(100, 10), 0.3)
	if err != nil {
		t.Fatalf("ComputeQuote error: %v", err)
	}

	id := EncodeToken("price_confirm", q)
	if id != "price_confirm:0:2:210:300:2" {
		t.Errorf("EncodeToken = %q", id)
	}

	got, err := DecodeToken(id, testLadder)
	if err != nil {
		t.Fatalf("DecodeToken error: %v", err)
	}
	if got.FromIndex != q.FromIndex || got.ToIndex != q.ToIndex ||
		got.Net != q.Net || got.Gross != q.Gross || got.Steps != q.Steps {
		t.Errorf("decoded %+v, want fields of %+v", got, q)
	}
	if got.FromRank != "Bronze 1" || got.ToRank != "Bronze 3" {
		t.Errorf("decoded ranks %q -> %q, want Bronze 1 -> Bronze 3", got.FromRank, got.ToRank)
	}
}

func TestDecodeTokenMalformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"empty", ""},
		{"too few fields", "price_confirm:0:2:210"},
		{"too many fields", "price_confirm:0:2:210:300:2:extra"},
		{"non-numeric index", "price_confirm:zero:2:210:300:2"},
		{"non-numeric price", "price_confirm:0:2:NaN:300:2"},
		{"float price", "price_confirm:0:2:210.5:300:2"},
		{"from index out of range", "price_confirm:-1:2:210:300:3"},
		{"to index out of range", "price_confirm:0:99:210:300:99"},
		{"reversed range", "price_confirm:2:0:210:300:2"},
		{"equal indices", "price_confirm:2:2:0:0:0"},
		{"step count mismatch", "price_confirm:0:2:210:300:5"},
		{"negative net", "price_confirm:0:2:-210:300:2"},
		{"gross below net", "price_confirm:0:2:300:210:2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := DecodeToken(tt.id, testLadder)
			if !errors.Is(err, ErrMalformedToken) {
				t.Errorf("DecodeToken(%q) error = %v, want ErrMalformedToken", tt.id, err)
			}
			if q != nil {
				t.Errorf("DecodeToken(%q) returned quote %+v", tt.id, q)
			}
		})
	}
}

func TestDecodeTokenPrefixIsOpaque(t *testing.T) {
	// The decoder does not care which flow the token came from; the prefix
	// only routes the component.
	q, err := DecodeToken("open_ticket:0:1:100:143:1", testLadder)
	if err != nil {
		t.Fatalf("DecodeToken error: %v", err)
	}
	if q.Net != 100 || q.Gross != 143 {
		t.Errorf("decoded net/gross = %d/%d, want 100/143", q.Net, q.Gross)
	}
}

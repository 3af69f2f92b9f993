package pricing

import (
	"errors"
	"strconv"
	"strings"
)

// Quotes travel through Discord component custom IDs between the quote reply
// and the open-ticket click, so there is no server-side session to look up.
// The payload is "<prefix>:fromIndex:toIndex:net:gross:steps". Because the
// value comes back from the client, DecodeToken re-checks every field
// against the ladder before the quote is trusted.

var ErrMalformedToken = errors.New("malformed quote token")

const tokenFields = 6

// EncodeToken packs a quote into a component custom ID under the given
// prefix.
func EncodeToken(prefix string, q *Quote) string {
	parts := []string{
		prefix,
		strconv.Itoa(q.FromIndex),
		strconv.Itoa(q.ToIndex),
		strconv.Itoa(q.Net),
		strconv.Itoa(q.Gross),
		strconv.Itoa(q.Steps),
	}
	return strings.Join(parts, ":")
}

// DecodeToken parses a custom ID produced by EncodeToken and rebuilds the
// quote. It fails with ErrMalformedToken when the field count is wrong, a
// number does not parse, an index falls outside the ladder, or the fields
// are inconsistent with each other. FirstStep/LastStep are not carried in
// the token and are left zero.
func DecodeToken(id string, l Ladder) (*Quote, error) {
	parts := strings.Split(id, ":")
	if len(parts) != tokenFields {
		return nil, ErrMalformedToken
	}

	nums := make([]int, tokenFields-1)
	for i, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, ErrMalformedToken
		}
		nums[i] = n
	}
	fromIdx, toIdx, net, gross, steps := nums[0], nums[1], nums[2], nums[3], nums[4]

	fromRank, ok := l.Name(fromIdx)
	if !ok {
		return nil, ErrMalformedToken
	}
	toRank, ok := l.Name(toIdx)
	if !ok {
		return nil, ErrMalformedToken
	}
	if toIdx <= fromIdx || steps != toIdx-fromIdx {
		return nil, ErrMalformedToken
	}
	if net < 0 || gross < net {
		return nil, ErrMalformedToken
	}

	return &Quote{
		FromRank:  fromRank,
		ToRank:    toRank,
		FromIndex: fromIdx,
		ToIndex:   toIdx,
		Steps:     steps,
		Net:       net,
		Gross:     gross,
	}, nil
}

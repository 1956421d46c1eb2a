package codec

import (
	"strings"

	hashids "github.com/speps/go-hashids/v2"
)

// DefaultSalt keeps previously issued external identifiers decodable when
// no salt is configured. Changing it invalidates every id in the wild.
const DefaultSalt = "t8x3lTOm-+fmS67`BcyN^P&;EXzBWTec57pGn.=}zM<4i>/9]~&hlp{E|yVx<FG"

// minLength pads every hash so external ids never betray the magnitude of
// the key behind them.
const minLength = 20

// Codec is the reversible transform between internal integer keys and the
// opaque strings that cross every system boundary, order PINs included.
type Codec struct {
	h *hashids.HashID
}

// New builds a codec keyed by salt. An empty or blank salt falls back to
// DefaultSalt.
func New(salt string) (*Codec, error) {
	if strings.TrimSpace(salt) == "" {
		salt = DefaultSalt
	}
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, err
	}
	return &Codec{h: h}, nil
}

// Encode returns the opaque form of id. Defined for id >= 0; negative
// input yields the empty string, which no consumer treats as valid.
func (c *Codec) Encode(id int) string {
	if id < 0 {
		return ""
	}
	s, err := c.h.Encode([]int{id})
	if err != nil {
		return ""
	}
	return s
}

// Decode is the inverse of Encode over issued ids. Unrecognized input
// decodes to 0, which every consumer treats as "not found"; it never
// panics.
func (c *Codec) Decode(s string) int {
	ids, err := c.h.DecodeWithError(s)
	if err != nil || len(ids) == 0 {
		return 0
	}
	return ids[0]
}

package hashids

import (
	"errors"
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/sqids/sqids-go"
)

type sqidsCodec struct {
	sq *sqids.Sqids
}

func newSqidsCodec(cfg Config) (codec, error) {
	opts := sqids.Options{}
	if cfg.Alphabet != nil {
		opts.Alphabet = *cfg.Alphabet
	}
	if cfg.MinLength != nil {
		if *cfg.MinLength < 0 || *cfg.MinLength > math.MaxUint8 {
			return nil, fmt.Errorf("min length must be between 0 and %d, got %d", math.MaxUint8, *cfg.MinLength)
		}
		opts.MinLength = uint8(*cfg.MinLength)
	}
	if cfg.Salt != nil {
		log.Warn("sqids backend does not support a salt, ignoring it")
	}
	sq, err := sqids.New(opts)
	if err != nil {
		return nil, err
	}
	return sqidsCodec{sq: sq}, nil
}

func (c sqidsCodec) Encode(values []int) (string, error) {
	nums := make([]uint64, 0, len(values))
	for _, v := range values {
		nums = append(nums, uint64(v))
	}
	return c.sq.Encode(nums)
}

// Decode only accepts canonical ids: sqids decodes many strings that
// Encode would never produce.
func (c sqidsCodec) Decode(hash string) ([]int, error) {
	nums := c.sq.Decode(hash)
	if len(nums) == 0 {
		return nil, errors.New("not a sqids id")
	}
	ids := make([]int, 0, len(nums))
	for _, n := range nums {
		if n > math.MaxInt {
			return nil, fmt.Errorf("decoded number %d overflows int", n)
		}
		ids = append(ids, int(n))
	}
	canonical, err := c.sq.Encode(nums)
	if err != nil || canonical != hash {
		return nil, fmt.Errorf("mismatch between encode and decode: %s re-encoded as %s", hash, canonical)
	}
	return ids, nil
}

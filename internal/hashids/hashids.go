package hashids

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/speps/go-hashids"

	"github.com/NCATS-Gamma/ginhashids/internal/routing"
)

// ConverterName is the name templates use to mark a hashid segment,
// e.g. "/users/<hashid:user_id>".
const ConverterName = "hashid"

const contextKey = "hashids"

var (
	// ErrConfig is returned when the codec cannot be built from the given options.
	ErrConfig = errors.New("invalid hashids configuration")
	// ErrInvalidArgument is returned when there is nothing (or nothing valid) to encode.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTypeMismatch is returned when a value is not an integer or a sequence of integers.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Hashids holds one configured codec. It is immutable once built and safe
// for concurrent use.
type Hashids struct {
	codec codec
}

// New builds the codec from the options present in cfg. Options left nil
// fall back to the library defaults.
func New(cfg Config) (*Hashids, error) {
	var (
		c   codec
		err error
	)
	switch cfg.Backend {
	case "", BackendHashids:
		c, err = newHashidsCodec(cfg)
	case BackendSqids:
		c, err = newSqidsCodec(cfg)
	default:
		err = fmt.Errorf("unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}
	log.WithFields(log.Fields{"config": cfg.String()}).Debug("Hashids codec ready")
	return &Hashids{codec: c}, nil
}

// Init registers the hashid converter on r. Calling it again with the same
// holder is a no-op; a different holder already registered under the same
// name is rejected.
func (h *Hashids) Init(r *routing.Router) error {
	return r.RegisterConverter(ConverterName, h.Converter())
}

// Encode encodes one or more non-negative integers.
func (h *Hashids) Encode(values ...int) (string, error) {
	if len(values) == 0 {
		return "", fmt.Errorf("%w: nothing to encode", ErrInvalidArgument)
	}
	for _, v := range values {
		if v < 0 {
			return "", fmt.Errorf("%w: negative number %d", ErrInvalidArgument, v)
		}
	}
	hash, err := h.codec.Encode(values)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return hash, nil
}

// Decode never fails: strings that are not a valid encoding under the
// current configuration decode to Invalid.
func (h *Hashids) Decode(value string) Decoded {
	if value == "" {
		return Decoded{}
	}
	ids, err := h.codec.Decode(value)
	if err != nil {
		return Decoded{}
	}
	return newDecoded(ids)
}

// Middleware makes h available to handlers through FromContext.
func (h *Hashids) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, h)
		c.Next()
	}
}

// FromContext returns the holder installed by Middleware.
func FromContext(c *gin.Context) (*Hashids, bool) {
	val, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	h, ok := val.(*Hashids)
	return h, ok
}

// codec is the reversible integer encoding the holder delegates to.
type codec interface {
	Encode(values []int) (string, error)
	Decode(hash string) ([]int, error)
}

type hashidsCodec struct {
	hid *hashids.HashID
}

func newHashidsCodec(cfg Config) (codec, error) {
	hd := hashids.NewData()
	if cfg.Alphabet != nil {
		hd.Alphabet = *cfg.Alphabet
	}
	if cfg.MinLength != nil {
		if *cfg.MinLength < 0 {
			return nil, fmt.Errorf("min length must not be negative, got %d", *cfg.MinLength)
		}
		hd.MinLength = *cfg.MinLength
	}
	if cfg.Salt != nil {
		hd.Salt = *cfg.Salt
	}
	hid, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, err
	}
	return hashidsCodec{hid: hid}, nil
}

func (c hashidsCodec) Encode(values []int) (string, error) {
	return c.hid.Encode(values)
}

// DecodeWithError re-encodes its result and reports a mismatch, so strings
// built from the right alphabet but not produced by Encode are rejected.
func (c hashidsCodec) Decode(hash string) ([]int, error) {
	return c.hid.DecodeWithError(hash)
}

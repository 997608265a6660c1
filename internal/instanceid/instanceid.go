// Package instanceid names drawn cards. Every draw gets a fresh identifier
// so the same card drawn twice in a session is still two separate instances.
package instanceid

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Prefix marks card instance IDs
const Prefix = "ci_"

const (
	// Crockford's base32, lowercase
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	encLen   = 26
	// 26 characters carry 130 bits; the two leading bits are always zero
	padBits = 2
)

// Generator creates instance IDs from UUIDv7 values
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator that reads randomness from r.
// A nil reader uses crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}
	return &Generator{rand: r}
}

// Generate creates an instance ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new instance ID and panics if the reader fails
func (g *Generator) Generate() string {
	id, err := g.New()
	if err != nil {
		panic(err.Error())
	}
	return id
}

// New creates a new instance ID. The IDs sort by creation time.
func (g *Generator) New() (string, error) {
	id, err := uuid.NewV7FromReader(g.rand)
	if err != nil {
		return "", fmt.Errorf("failed to generate instance id: %w", err)
	}
	return Prefix + encode(id), nil
}

func encode(id uuid.UUID) string {
	out := make([]byte, encLen)
	for i := range out {
		var v byte
		for b := 0; b < 5; b++ {
			v = v<<1 | bit(id, i*5+b-padBits)
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// bit returns bit k of id counting from the most significant end.
// Negative positions are padding.
func bit(id uuid.UUID, k int) byte {
	if k < 0 {
		return 0
	}
	return (id[k/8] >> (7 - k%8)) & 1
}

// Parse decodes an instance ID back into its UUID
func Parse(s string) (uuid.UUID, error) {
	if err := Validate(s); err != nil {
		return uuid.Nil, err
	}
	enc := strings.TrimPrefix(s, Prefix)

	var id uuid.UUID
	k := -padBits
	for _, c := range []byte(enc) {
		v := strings.IndexByte(alphabet, c)
		for b := 4; b >= 0; b-- {
			if k >= 0 && (v>>b)&1 == 1 {
				id[k/8] |= 1 << (7 - k%8)
			}
			k++
		}
	}
	return id, nil
}

// Validate checks that s is a well formed instance ID
func Validate(s string) error {
	enc, ok := strings.CutPrefix(s, Prefix)
	if !ok {
		return fmt.Errorf("instance ID must start with %q", Prefix)
	}
	if len(enc) != encLen {
		return fmt.Errorf("instance ID must have %d characters after the prefix, got %d", encLen, len(enc))
	}
	if enc[0] > '7' {
		return fmt.Errorf("instance ID first character must be 0-7, got %c", enc[0])
	}
	for i, c := range []byte(enc) {
		if strings.IndexByte(alphabet, c) < 0 {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}

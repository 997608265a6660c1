package instanceid

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	id := Generate()

	assert.True(t, strings.HasPrefix(id, Prefix))
	assert.Len(t, id, len(Prefix)+26)
	require.NoError(t, Validate(id))
}

func TestGenerateUnique(t *testing.T) {
	t.Parallel()
	ids := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := Generate()
		assert.False(t, ids[id], "duplicate ID generated: %s", id)
		ids[id] = true
	}
}

func TestGenerateTimeSorted(t *testing.T) {
	t.Parallel()
	var ids []string
	for i := 0; i < 10; i++ {
		ids = append(ids, Generate())
		time.Sleep(2 * time.Millisecond)
	}
	for i := 1; i < len(ids); i++ {
		assert.Negative(t, strings.Compare(ids[i-1], ids[i]), "%s >= %s", ids[i-1], ids[i])
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()
	g := NewGenerator(bytes.NewReader(bytes.Repeat([]byte{0xa5}, 64)))

	id := g.Generate()
	u, err := Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), u.Version())
	assert.Equal(t, uuid.RFC4122, u.Variant())
	assert.Equal(t, id, Prefix+encode(u))
}

func TestEncodeKnownValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, strings.Repeat("0", 26), encode(uuid.Nil))
	assert.Equal(t, "7"+strings.Repeat("z", 25), encode(uuid.Max))

	var one uuid.UUID
	one[15] = 1
	assert.Equal(t, strings.Repeat("0", 25)+"1", encode(one))
}

func TestGeneratorPropagatesReaderFailure(t *testing.T) {
	t.Parallel()
	g := NewGenerator(bytes.NewReader(nil))
	assert.Panics(t, func() { g.Generate() })

	id, err := g.New()
	require.ErrorIs(t, err, io.EOF)
	assert.Empty(t, id)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"valid", "ci_01h5n0et5q6mt3v7ms1234abcd", false},
		{"missing prefix", "01h5n0et5q6mt3v7ms1234abcd", true},
		{"too short", "ci_01h5n0et5q6mt3v7ms123", true},
		{"too long", "ci_01h5n0et5q6mt3v7ms1234abcdef", true},
		{"first char too high", "ci_81h5n0et5q6mt3v7ms1234abcd", true},
		{"excluded letter", "ci_01h5n0et5q6mt3v7ms1234abci", true},
		{"uppercase", "ci_01H5N0ET5Q6MT3V7MS1234ABCD", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

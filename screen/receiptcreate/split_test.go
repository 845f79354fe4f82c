package receiptcreate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int64
		n     int
		want  []int64
	}{
		{"even", 900, 3, []int64{300, 300, 300}},
		{"remainder goes first", 1000, 3, []int64{334, 333, 333}},
		{"two remainder cents", 1001, 3, []int64{334, 334, 333}},
		{"fewer cents than shares", 2, 3, []int64{1, 1, 0}},
		{"single share", 1234, 1, []int64{1234}},
		{"no shares", 100, 0, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SplitCents(tt.total, tt.n)
			assert.Equal(t, tt.want, got)

			var sum int64
			for _, c := range got {
				sum += c
			}
			if tt.n > 0 {
				assert.Equal(t, tt.total, sum)
			}
		})
	}
}

func TestToCents(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(1999), ToCents(19.99))
	assert.Equal(t, int64(30), ToCents(0.1+0.2))
	assert.Equal(t, int64(-5), ToCents(-0.05))
	assert.InDelta(t, 19.99, FromCents(1999), 1e-9)
}

package partition_test

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-flowplan/pkg/flow/partition"
)

type userID string

func (u userID) HashCode() int32 {
	return int32(len(u))
}

func TestHashOfMatchesJVM(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		value any
		want  int32
	}{
		"nil":          {value: nil, want: 0},
		"string":       {value: "hello", want: 99162322},
		"min string":   {value: "polygenelubricants", want: math.MinInt32},
		"surrogates":   {value: "😀", want: 1772899},
		"true":         {value: true, want: 1231},
		"false":        {value: false, want: 1237},
		"int32":        {value: int32(-5), want: -5},
		"int16":        {value: int16(12), want: 12},
		"long minus 1": {value: int64(-1), want: 0},
		"long 2^32":    {value: int64(1) << 32, want: 1},
		"int":          {value: 5000000000, want: 705032705},
		"float64 one":  {value: 1.0, want: 1072693248},
		"float32 one":  {value: float32(1), want: 1065353216},
		"hashable":     {value: userID("abc"), want: 3},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, partition.HashOf(tc.value))
		})
	}
}

func TestHashOfNaNIsCanonical(t *testing.T) {
	t.Parallel()

	nan := math.Float64frombits(0x7ff8000000000001)
	assert.Equal(t, partition.HashOf(math.NaN()), partition.HashOf(nan))
}

func TestHashOfEqualContent(t *testing.T) {
	t.Parallel()

	now := time.Now()
	wall := now.Round(0)
	require.True(t, now.Equal(wall))
	assert.Equal(t, partition.HashOf(now), partition.HashOf(wall))
	assert.Equal(t, partition.HashOf(now), partition.HashOf(now.In(time.UTC)))
	assert.Equal(t, partition.Partition(partition.Tuple{now}, 1024), partition.Partition(partition.Tuple{wall}, 1024))

	first, second := 7, 7
	assert.Equal(t, partition.HashOf(&first), partition.HashOf(&second))
	assert.Equal(t, partition.HashOf(7), partition.HashOf(&first))
	name := "a"
	assert.Equal(t, partition.HashOf("a"), partition.HashOf(&name))
	assert.Equal(t, int32(0), partition.HashOf((*int)(nil)))

	assert.Equal(t, int32(4066), partition.HashOf([]byte("ab")))
	assert.Equal(t, int32(30), partition.HashOf([]byte{0xff}))
	assert.Equal(t, partition.HashOf([]byte("key")), partition.HashOf([]byte("key")))
}

func TestHashTuple(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int32(1), partition.Hash(partition.Tuple{}))
	assert.Equal(t, int32(99162353), partition.Hash(partition.Tuple{"hello"}))
	assert.Equal(t, int32(4010), partition.Hash(partition.Tuple{"a", int32(42)}))
	assert.Equal(t, int32(-267668234), partition.Hash(partition.Tuple{"user-1", int64(7), true}))
	assert.Equal(t, partition.Hash(partition.Tuple{"a", int32(42)}), partition.HashOf(partition.Tuple{"a", int32(42)}))
}

func TestPartition(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, partition.Partition(partition.Tuple{"hello"}, 7))
	assert.Equal(t, 6, partition.Partition(partition.Tuple{"user-1", int64(7), true}, 16))
	// the hash is negative: the sign bit is masked, not the absolute value taken
	assert.Equal(t, 1, partition.Partition(partition.Tuple{"polygenelubricants"}, 10))
}

func TestPartitionIsDeterministicAndInRange(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 64; n++ {
		for i := range 200 {
			key := partition.Tuple{fmt.Sprintf("key-%d", i), i, i%2 == 0}
			got := partition.Partition(key, n)
			require.GreaterOrEqual(t, got, 0)
			require.Less(t, got, n)
			require.Equal(t, got, partition.Partition(key, n))
		}
	}
}

func TestPartitionPairUsesLhsOnly(t *testing.T) {
	t.Parallel()

	lhs := partition.Tuple{"user-1", int64(7)}
	for i := range 50 {
		pair := partition.Pair{Lhs: lhs, Rhs: partition.Tuple{i, fmt.Sprint(i)}}
		assert.Equal(t, partition.Partition(lhs, 13), partition.PartitionPair(pair, 13))
	}
}

func TestPartitionContract(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { partition.Partition(partition.Tuple{"a"}, 0) })
	assert.Panics(t, func() { partition.Partition(partition.Tuple{"a"}, -3) })
	assert.Panics(t, func() { partition.Hash(nil) })
}

func TestWithHasher(t *testing.T) {
	t.Parallel()

	p := partition.New(partition.WithHasher(1, func(any) int32 { return 0 }))
	assert.Equal(t, partition.Hash(partition.Tuple{"a", nil}), p.Hash(partition.Tuple{"a", "ignored"}))
	assert.Equal(t, partition.Hash(partition.Tuple{"a"}), p.Hash(partition.Tuple{"a"}))
}

func TestPartitionIsSafeForConcurrentUse(t *testing.T) {
	t.Parallel()

	p := partition.New()
	want := make([]int, 100)
	for i := range want {
		want[i] = p.Partition(partition.Tuple{fmt.Sprintf("k%d", i)}, 32)
	}

	var g errgroup.Group
	for range 8 {
		g.Go(func() error {
			for i := range want {
				if got := p.Partition(partition.Tuple{fmt.Sprintf("k%d", i)}, 32); got != want[i] {
					return fmt.Errorf("key k%d: got %d, want %d", i, got, want[i])
				}
			}

			return nil
		})
	}
	require.NoError(t, g.Wait())
}

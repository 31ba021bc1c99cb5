package search

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"nickandperla.net/snailfish/internal/eval"
	"nickandperla.net/snailfish/internal/reduce"
	"nickandperla.net/snailfish/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// homework is the ten-number example list.
const homework = `[[[0,[5,8]],[[1,7],[9,6]]],[[4,[1,2]],[[1,4],2]]]
[[[5,[2,8]],4],[5,[[9,9],0]]]
[6,[[[6,2],[5,6]],[[7,6],[4,7]]]]
[[[6,[0,7]],[0,9]],[4,[9,[9,0]]]]
[[[7,[6,4]],[3,[1,3]]],[[[5,5],1],9]]
[[6,[[7,3],[3,2]]],[[[3,8],[5,7]],4]]
[[[[5,4],[7,7]],8],[[8,3],8]]
[[9,3],[[9,9],[6,[4,9]]]]
[[2,[[7,7],7]],[[5,8],[[9,3],[0,2]]]]
[[[[5,2],5],[8,[3,7]]],[[5,[7,5]],[4,4]]]`

const larger = `[[[0,[4,5]],[0,0]],[[[4,5],[2,6]],[9,5]]]
[7,[[[3,7],[4,3]],[[6,3],[8,8]]]]
[[2,[[0,8],[3,4]]],[[[6,7],1],[7,[1,6]]]]
[[[[2,4],7],[6,[0,5]]],[[[6,8],[2,8]],[[2,1],[4,5]]]]
[7,[5,[[3,8],[1,4]]]]
[[2,[2,2]],[8,[8,1]]]
[2,9]
[1,[[[9,3],9],[[9,0],[0,7]]]]
[[[5,[7,4]],7],1]
[[[[4,2],2],6],[8,7]]`

func load(t *testing.T, input string) *store.Memory {
	t.Helper()
	s, err := store.Load(strings.NewReader(input))
	require.NoError(t, err)
	return s
}

func TestSumHomework(t *testing.T) {
	src := load(t, homework)
	s := New(reduce.New(), WithLogger(zaptest.NewLogger(t)))

	sum, err := s.Sum(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, "[[[[6,6],[7,6]],[[7,7],[7,0]]],[[[7,7],[7,7]],[[7,8],[9,9]]]]", sum.String())
	assert.Equal(t, uint64(4140), eval.Magnitude(sum))

	// The master list is still intact.
	assert.Equal(t, "[[[0,[5,8]],[[1,7],[9,6]]],[[4,[1,2]],[[1,4],2]]]", src.Get(0).String())
}

func TestSumLarger(t *testing.T) {
	sum, err := New(reduce.New()).Sum(context.Background(), load(t, larger))
	require.NoError(t, err)
	assert.Equal(t, "[[[[8,7],[7,7]],[[8,6],[7,7]]],[[[0,7],[6,6]],[8,7]]]", sum.String())
	assert.Equal(t, uint64(3488), eval.Magnitude(sum))
}

func TestSumSingleAndEmpty(t *testing.T) {
	s := New(reduce.New())

	sum, err := s.Sum(context.Background(), load(t, "[[1,2],15]"))
	require.NoError(t, err)
	assert.Equal(t, "[[1,2],[7,8]]", sum.String())

	_, err = s.Sum(context.Background(), store.NewMemory())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestMaxPairHomework(t *testing.T) {
	src := load(t, homework)
	s := New(reduce.New(), WithWorkers(4), WithLogger(zaptest.NewLogger(t)))

	best, err := s.MaxPair(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, uint64(3993), best.Magnitude)
	assert.NotEqual(t, best.Left, best.Right)

	m, err := s.PairMagnitude(src, best.Left, best.Right)
	require.NoError(t, err)
	assert.Equal(t, best.Magnitude, m)

	// The ninth number plus the first is a known maximum.
	m, err = s.PairMagnitude(src, 8, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3993), m)
}

func TestMaxPairIndependentOfWorkers(t *testing.T) {
	src := load(t, homework)
	ctx := context.Background()

	want, err := New(reduce.New(), WithWorkers(1)).MaxPair(ctx, src)
	require.NoError(t, err)

	for _, w := range []int{2, 3, 16, 0} {
		got, err := New(reduce.New(), WithWorkers(w)).MaxPair(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", w)
	}
}

func TestMaxPairTooFew(t *testing.T) {
	s := New(reduce.New())
	_, err := s.MaxPair(context.Background(), load(t, "[1,2]"))
	assert.ErrorIs(t, err, ErrTooFew)

	_, err = s.MaxPair(context.Background(), store.NewMemory())
	assert.ErrorIs(t, err, ErrTooFew)
}

func TestAdditionIsNotCommutative(t *testing.T) {
	src := load(t, "[1,2]\n[3,4]")
	s := New(reduce.New())

	ab, err := s.PairMagnitude(src, 0, 1)
	require.NoError(t, err)
	ba, err := s.PairMagnitude(src, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, uint64(55), ab)
	assert.Equal(t, uint64(65), ba)

	best, err := s.MaxPair(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, Best{Magnitude: 65, Left: 1, Right: 0}, best)
}

func TestMaxPairTieBreak(t *testing.T) {
	// Every ordered pair of identical numbers has the same magnitude.
	src := load(t, "[1,1]\n[1,1]\n[1,1]")

	best, err := New(reduce.New(), WithWorkers(3)).MaxPair(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, 0, best.Left)
	assert.Equal(t, 1, best.Right)
}

func TestMaxPairPropagatesReductionErrors(t *testing.T) {
	src := load(t, "[[[[[[1,2],3],4],5],6],7]\n[1,1]")
	s := New(reduce.New(), WithWorkers(2))

	_, err := s.MaxPair(context.Background(), src)
	assert.ErrorIs(t, err, reduce.ErrInvariantViolation)

	_, err = s.Sum(context.Background(), src)
	assert.ErrorIs(t, err, reduce.ErrInvariantViolation)
}

func TestCancelledContext(t *testing.T) {
	src := load(t, homework)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(reduce.New(), WithWorkers(2))
	_, err := s.MaxPair(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = s.Sum(ctx, src)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDefaultWorkers(t *testing.T) {
	assert.GreaterOrEqual(t, New(reduce.New()).Workers(), 1)
	assert.Equal(t, 5, New(reduce.New(), WithWorkers(5)).Workers())
}

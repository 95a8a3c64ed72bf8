package tree

import (
	"bytes"
	"encoding/json"
	randv2 "math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/emirpasic/gods/utils"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

func newOrderedTestTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) *rbTree[K] {
	return NewOrderedRBTree[K](opts...).(*rbTree[K])
}

func TestNilRoot(t *testing.T) {
	tree := NewOrderedRBTree[uint64]()
	require.True(t, tree.Root() == nil)
	require.Equal(t, int64(0), tree.Len())

	require.NoError(t, tree.Insert(1))
	root := tree.Root()
	require.NotNil(t, root)
	require.True(t, root.Left() == nil)
	require.True(t, root.Right() == nil)
	require.True(t, root.Parent() == nil)
}

func TestNewRBTree_NilComparator(t *testing.T) {
	tree, err := NewRBTree[int](nil)
	require.Nil(t, tree)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestRBTreeInsert_RotateToBalance(t *testing.T) {
	tree := newOrderedTestTree[int]()

	require.NoError(t, tree.Insert(10))
	require.Equal(t, []checkData[int]{{Black, 10}}, inorder(tree))

	require.NoError(t, tree.Insert(20))
	require.Equal(t, []checkData[int]{{Black, 10}, {Red, 20}}, inorder(tree))

	// 30 is the outer grandchild of 10, left rotate 10.
	require.NoError(t, tree.Insert(30))
	requireValidRBTree(t, tree)
	require.Equal(t, []checkData[int]{{Red, 10}, {Black, 20}, {Red, 30}}, inorder(tree))

	root := tree.Root()
	require.Equal(t, 20, root.Element())
	require.Equal(t, Black, root.Color())
	require.Equal(t, 10, root.Left().Element())
	require.Equal(t, 30, root.Right().Element())
	require.Equal(t, 20, root.Left().Parent().Element())
	require.Equal(t, 2, height(tree.root))
	require.Equal(t, int64(3), tree.Len())
}

func TestRBTreeInsert_InnerGrandchild(t *testing.T) {
	testcases := []struct {
		name     string
		elements []int
	}{
		{name: "left inner", elements: []int{30, 10, 20}},
		{name: "right inner", elements: []int{10, 30, 20}},
		{name: "left outer", elements: []int{30, 20, 10}},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := newOrderedTestTree[int]()
			for _, e := range tc.elements {
				require.NoError(tt, tree.Insert(e))
			}
			requireValidRBTree(tt, tree)
			require.Equal(tt, []checkData[int]{{Red, 10}, {Black, 20}, {Red, 30}}, inorder(tree))
			require.Equal(tt, 20, tree.Root().Element())
		})
	}
}

func TestRBTreeInsert_RedUncleRecolor(t *testing.T) {
	tree := newOrderedTestTree[int]()
	for _, e := range []int{10, 20, 30, 40} {
		require.NoError(t, tree.Insert(e))
	}
	// 40 with red uncle 10, recolor and the root keeps black.
	require.Equal(t, []checkData[int]{{Black, 10}, {Black, 20}, {Black, 30}, {Red, 40}}, inorder(tree))

	require.NoError(t, tree.Insert(50))
	requireValidRBTree(t, tree)
	require.Equal(t, []checkData[int]{
		{Black, 10},
		{Black, 20},
		{Red, 30},
		{Black, 40},
		{Red, 50},
	}, inorder(tree))
	require.Equal(t, []int{10, 20, 30, 40, 50}, inorderElements(tree))
	require.Equal(t, 20, tree.Root().Element())
	require.Equal(t, Black, tree.Root().Color())
	require.Equal(t, 40, tree.Root().Right().Element())
}

func TestRBTreeInsert_Duplicates(t *testing.T) {
	tree := newOrderedTestTree[int]()
	for i := 0; i < 3; i++ {
		require.NoError(t, tree.Insert(5))
	}
	require.Equal(t, int64(1), tree.Len())
	require.Equal(t, []checkData[int]{{Black, 5}}, inorder(tree))
	require.True(t, tree.Root().Left() == nil)
	require.True(t, tree.Root().Right() == nil)
}

type kv struct {
	key int
	val string
}

func kvComparator(i, j kv) int64 {
	return infra.OrderedComparator[int]()(i.key, j.key)
}

func TestRBTreeInsert_ReplaceInPlace(t *testing.T) {
	_tree, err := NewRBTree[kv](kvComparator)
	require.NoError(t, err)
	tree := _tree.(*rbTree[kv])

	for i := 0; i < 64; i++ {
		require.NoError(t, tree.Insert(kv{key: i, val: "old"}))
	}
	before := inorder(tree)
	root := tree.root

	require.NoError(t, tree.Insert(kv{key: 63, val: "new"}))
	require.NoError(t, tree.Insert(kv{key: root.element.key, val: "new root"}))
	require.Equal(t, int64(64), tree.Len())
	require.Same(t, root, tree.root)
	require.Equal(t, "new root", tree.Root().Element().val)

	after := inorder(tree)
	require.Len(t, after, len(before))
	for i := range before {
		require.Equal(t, before[i].color, after[i].color)
		require.Equal(t, before[i].element.key, after[i].element.key)
		switch after[i].element.key {
		case 63:
			require.Equal(t, "new", after[i].element.val)
		case root.element.key:
			require.Equal(t, "new root", after[i].element.val)
		default:
			require.Equal(t, "old", after[i].element.val)
		}
	}
	requireValidRBTree(t, tree)
}

func TestRBTreeInsert_AbsentElement(t *testing.T) {
	ptrCmp := func(i, j *int) int64 {
		return infra.OrderedComparator[int]()(*i, *j)
	}
	_tree, err := NewRBTree[*int](ptrCmp)
	require.NoError(t, err)
	tree := _tree.(*rbTree[*int])

	err = tree.Insert(nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
	var es infra.ErrorStack
	require.ErrorAs(t, err, &es)
	require.NotEmpty(t, es.Frames())
	require.Equal(t, int64(0), tree.Len())
	require.True(t, tree.Root() == nil)

	elements := lo.Map(lo.Range(16), func(i int, _ int) *int {
		v := i
		return &v
	})
	for _, e := range elements {
		require.NoError(t, tree.Insert(e))
	}
	before := inorder(tree)
	root := tree.root
	require.ErrorIs(t, tree.Insert(nil), ErrInvalidArgument)
	require.Equal(t, int64(16), tree.Len())
	require.Same(t, root, tree.root)
	require.Equal(t, before, inorder(tree))
	requireValidRBTree(t, tree)
}

func TestRBTreeInsert_AbsentInterfaceElement(t *testing.T) {
	tree, err := NewRBTree[any](func(i, j any) int64 {
		return infra.OrderedComparator[int]()(i.(int), j.(int))
	})
	require.NoError(t, err)

	var nilPtr *int
	require.ErrorIs(t, tree.Insert(nil), ErrInvalidArgument)
	require.ErrorIs(t, tree.Insert(nilPtr), ErrInvalidArgument)
	require.NoError(t, tree.Insert(1))
	require.NoError(t, tree.Insert(0))
	require.Equal(t, int64(2), tree.Len())
}

func TestRBTreeInsert_Desc(t *testing.T) {
	tree := newOrderedTestTree[int64](WithRBTreeDesc[int64]())
	for i := int64(0); i < 1000; i++ {
		require.NoError(t, tree.Insert(i))
	}
	requireValidRBTree(t, tree)
	elements := inorderElements(tree)
	require.Len(t, elements, 1000)
	for idx, e := range elements {
		require.Equal(t, int64(999-idx), e)
	}
}

func TestRBTreeInsert_SequentialNumber(t *testing.T) {
	testcases := []struct {
		name    string
		total   int
		reverse bool
	}{
		{name: "ascending 1000", total: 1000},
		{name: "descending 1000", total: 1000, reverse: true},
		{name: "ascending 100000", total: 100_000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			tree := newOrderedTestTree[uint64]()
			rand := uint64(randv2.Uint32() % 1_000)
			for i := 0; i < tc.total; i++ {
				e := uint64(i)
				if tc.reverse {
					e = uint64(tc.total - 1 - i)
				}
				require.NoError(tt, tree.Insert(e))
				if tc.total <= 1000 || e%1000 == rand {
					requireValidRBTree(tt, tree)
				}
			}
			requireValidRBTree(tt, tree)
			for idx, e := range inorderElements(tree) {
				require.Equal(tt, uint64(idx), e)
			}
		})
	}
}

func TestRBTreeInsert_RandomWithDuplicates(t *testing.T) {
	testcases := []struct {
		name           string
		total          int
		bound          int
		violationCheck bool
	}{
		{name: "violation check 2000 in 500", total: 2000, bound: 500, violationCheck: true},
		{name: "violation check 5000 in 100000", total: 5000, bound: 100_000, violationCheck: true},
		{name: "200000 in 50000", total: 200_000, bound: 50_000},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			elements := make([]int, 0, tc.total)
			for i := 0; i < tc.total; i++ {
				elements = append(elements, randv2.IntN(tc.bound))
			}

			tree := newOrderedTestTree[int]()
			for _, e := range elements {
				require.NoError(tt, tree.Insert(e))
				if tc.violationCheck {
					requireValidRBTree(tt, tree)
				}
			}
			requireValidRBTree(tt, tree)

			uniq := lo.Uniq(elements)
			slices.Sort(uniq)
			require.Equal(tt, int64(len(uniq)), tree.Len())
			require.Equal(tt, uniq, inorderElements(tree))
		})
	}
}

func TestRBTreeInsert_GodsOracle(t *testing.T) {
	for round := 0; round < 8; round++ {
		elements := lo.Shuffle(lo.Range(4096))
		elements = append(elements, lo.Samples(elements, 512)...)
		elements = lo.Shuffle(elements)

		oracle := redblacktree.NewWith(utils.IntComparator)
		tree := newOrderedTestTree[int]()
		for _, e := range elements {
			oracle.Put(e, struct{}{})
			require.NoError(t, tree.Insert(e))
		}
		requireValidRBTree(t, tree)
		require.Equal(t, int64(oracle.Size()), tree.Len())
		keys := lo.Map(oracle.Keys(), func(k interface{}, _ int) int {
			return k.(int)
		})
		require.Equal(t, keys, inorderElements(tree))
	}
}

func TestRBTreeInsert_Strings(t *testing.T) {
	tree := newOrderedTestTree[string]()
	words := strings.Fields("the quick brown fox jumps over the lazy dog and the quick cat")
	for _, w := range words {
		require.NoError(t, tree.Insert(w))
	}
	requireValidRBTree(t, tree)
	uniq := lo.Uniq(words)
	slices.Sort(uniq)
	require.Equal(t, uniq, inorderElements(tree))
}

func TestRBTreeRotate(t *testing.T) {
	tree := newOrderedTestTree[int]()
	for _, e := range []int{4, 2, 6, 1, 3, 5, 7} {
		require.NoError(t, tree.Insert(e))
	}
	expected := []int{1, 2, 3, 4, 5, 6, 7}

	// Rotate the root.
	tree.leftRotate(tree.root)
	require.Equal(t, 6, tree.root.element)
	require.Nil(t, tree.root.parent)
	require.Equal(t, 4, tree.root.left.element)
	require.Equal(t, 5, tree.root.left.right.element)
	require.Same(t, tree.root.left, tree.root.left.right.parent)
	require.Equal(t, expected, inorderElements(tree))
	require.NoError(t, linkValidate(tree))

	tree.rightRotate(tree.root)
	require.Equal(t, 4, tree.root.element)
	require.Equal(t, 6, tree.root.right.element)
	require.Equal(t, expected, inorderElements(tree))
	require.NoError(t, linkValidate(tree))

	// Rotate a left child and a right child.
	tree.rightRotate(tree.root.left)
	require.Equal(t, 1, tree.root.left.element)
	require.Same(t, tree.root, tree.root.left.parent)
	require.Equal(t, expected, inorderElements(tree))
	require.NoError(t, linkValidate(tree))

	tree.leftRotate(tree.root.right)
	require.Equal(t, 7, tree.root.right.element)
	require.Same(t, tree.root, tree.root.right.parent)
	require.Equal(t, expected, inorderElements(tree))
	require.NoError(t, linkValidate(tree))
}

func TestRBTreeRotate_MissingChild(t *testing.T) {
	tree := newOrderedTestTree[int]()
	require.NoError(t, tree.Insert(1))

	require.Panics(t, func() {
		tree.leftRotate(nil)
	})
	require.Panics(t, func() {
		tree.rightRotate(nil)
	})
	require.Panics(t, func() {
		tree.leftRotate(tree.root)
	})
	require.Panics(t, func() {
		tree.rightRotate(tree.root)
	})
	require.Equal(t, 1, tree.root.element)
}

type testMemSyncer struct {
	bytes.Buffer
}

func (w *testMemSyncer) Sync() error {
	return nil
}

func TestRBTreeInsert_Logger(t *testing.T) {
	w := &testMemSyncer{}
	logger := xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerEncoder(xlog.JSON),
		xlog.WithXLoggerWriter(w),
		xlog.WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
	)
	_tree, err := NewRBTree[*int](func(i, j *int) int64 {
		return infra.OrderedComparator[int]()(*i, *j)
	}, WithRBTreeLogger[*int](logger), WithRBTreeLogger[*int](nil))
	require.NoError(t, err)

	for _, v := range []int{10, 20, 30} {
		e := v
		require.NoError(t, _tree.Insert(&e))
	}
	require.ErrorIs(t, _tree.Insert(nil), ErrInvalidArgument)
	require.NoError(t, logger.Sync())

	entries := make([]map[string]any, 0, 4)
	for _, line := range strings.Split(strings.TrimSpace(w.String()), "\n") {
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	require.Len(t, entries, 2)

	require.Equal(t, "[rbtree] insert rebalance", entries[0]["msg"])
	require.Equal(t, "i5", entries[0]["case"])
	require.Equal(t, "right", entries[0]["parentDir"])
	require.Equal(t, "rbtree", entries[0]["component"])

	require.Equal(t, "[rbtree] insert rejected", entries[1]["msg"])
	require.Equal(t, "ERROR", entries[1]["lvl"])
	require.Equal(t, float64(3), entries[1]["len"])
	require.Contains(t, entries[1]["error"], ErrInvalidArgument.Error())
	frames, ok := entries[1]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Contains(t, frames[0], "Insert")
}

func BenchmarkRBTree_Random(b *testing.B) {
	b.StopTimer()
	tree := NewOrderedRBTree[int]()

	rngArr := make([]int, 0, b.N)
	for i := 0; i < b.N; i++ {
		rngArr = append(rngArr, randv2.Int())
	}

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if err := tree.Insert(rngArr[i]); err != nil {
			panic(err)
		}
	}
}

func BenchmarkRBTree_Serial(b *testing.B) {
	b.StopTimer()
	tree := NewOrderedRBTree[int]()

	b.StartTimer()
	for i := 0; i < b.N; i++ {
		_ = tree.Insert(i)
	}
}

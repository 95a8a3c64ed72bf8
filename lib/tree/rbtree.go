package tree

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

type rbNode[E any] struct {
	parent  *rbNode[E]
	left    *rbNode[E]
	right   *rbNode[E]
	element E
	color   RBColor
}

func (node *rbNode[E]) Element() E {
	return node.element
}

func (node *rbNode[E]) Color() RBColor {
	return colorOf[E](node)
}

// Left, Right and Parent never return a typed nil pointer
// wrapped by the interface.

func (node *rbNode[E]) Left() RBNode[E] {
	if l := leftOf[E](node); l != nil {
		return l
	}
	return nil
}

func (node *rbNode[E]) Right() RBNode[E] {
	if r := rightOf[E](node); r != nil {
		return r
	}
	return nil
}

func (node *rbNode[E]) Parent() RBNode[E] {
	if p := parentOf[E](node); p != nil {
		return p
	}
	return nil
}

func (node *rbNode[E]) isRoot() bool {
	return node != nil && node.parent == nil
}

func (node *rbNode[E]) Direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil node without direction")
	}

	if node.isRoot() {
		return Root
	}
	if node == node.parent.left {
		return Left
	}
	return Right
}

type rbTree[E any] struct {
	root           *rbNode[E]
	count          int64
	cmp            infra.Comparator[E]
	nillable       bool
	isDesc         bool
	isStatsEnabled bool
	statsName      string
	stats          *rbtreeStats
	logger         xlog.XLogger
}

func (tree *rbTree[E]) compare(e1, e2 E) int64 {
	return tree.cmp(e1, e2)
}

func (tree *rbTree[E]) Len() int64 {
	return atomic.LoadInt64(&tree.count)
}

func (tree *rbTree[E]) Root() RBNode[E] {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

// References:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. All NIL nodes are considered black.
// p3. A red node does not have a red child. (red-violation)
// p4. Every path from a given node to any of its descendant
//   NIL nodes goes through the same number of black nodes. (black-violation)
// p5. The root is black.
// The longest root to NIL path is at most 2 times of the shortest one,
// so the height is bounded by 2*log2(n+1).

/*
		 |                         |
		 X                         S
		/ \     leftRotate(X)     / \
	   L   S    ============>    X   Sd
		  / \                   / \
		Sc   Sd                L   Sc
*/
func (tree *rbTree[E]) leftRotate(x *rbNode[E]) {
	if x == nil || x.right == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] left rotate node x is nil or x.right is nil")
	}

	p, y := x.parent, x.right
	dir := x.Direction()
	x.right, y.left = y.left, x
	if x.right != nil {
		x.right.parent = x
	}
	x.parent = y

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to left-rotate")
	}
	y.parent = p
	tree.stats.IncreaseRotateCount(Left)
}

/*
		   |                         |
		   S                         X
		  / \     rightRotate(S)    / \
		 X   R    ============>    Xc  S
		/ \                           / \
	  Xc   Xd                        Xd  R
*/
func (tree *rbTree[E]) rightRotate(x *rbNode[E]) {
	if x == nil || x.left == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] right rotate node x is nil or x.left is nil")
	}

	p, y := x.parent, x.left
	dir := x.Direction()
	x.left, y.right = y.right, x
	if x.left != nil {
		x.left.parent = x
	}
	x.parent = y

	switch dir {
	case Root:
		tree.root = y
	case Left:
		p.left = y
	case Right:
		p.right = y
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to right-rotate")
	}
	y.parent = p
	tree.stats.IncreaseRotateCount(Right)
}

// i0: Absent element, rejected before any mutation.
// i1: Empty rbtree, insert directly, but root node is painted to black.
// i2: Equal element found, replace it in place. No rebalance.
func (tree *rbTree[E]) Insert(e E) error {
	if /* i0 */ tree.nillable && isAbsent[E](e) {
		err := infra.WrapErrorStackWithMessage(ErrInvalidArgument, "[rbtree] insert an absent element")
		tree.stats.IncreaseRejectCount()
		if tree.logger != nil {
			tree.logger.ErrorStack(err, "[rbtree] insert rejected", zap.Int64("len", tree.Len()))
		}
		return err
	}

	if /* i1 */ tree.root == nil {
		tree.root = &rbNode[E]{
			element: e,
			color:   Black,
		}
		atomic.AddInt64(&tree.count, 1)
		tree.stats.IncreaseInsertCount()
		return nil
	}

	var (
		x, y *rbNode[E] = tree.root, nil
		res  int64
	)
	for x != nil {
		y = x
		if res = tree.compare(e, x.element); /* i2 */ res == 0 {
			x.element = e
			tree.stats.IncreaseUpdateCount()
			return nil
		} else /* less */ if res < 0 {
			x = x.left
		} else /* greater */ {
			x = x.right
		}
	}

	z := &rbNode[E]{
		element: e,
		color:   Red,
		parent:  y,
	}
	if res < 0 {
		y.left = z
	} else {
		y.right = z
	}

	atomic.AddInt64(&tree.count, 1)
	tree.stats.IncreaseInsertCount()
	tree.insertRebalance(z)
	return nil
}

/*
New node X is red by default.
The only violation before each loop is X and its parent P are both red.

<X> is a RED node.
[X] is a BLACK node (or NIL).

i3: The parent P and the uncle U are red, grandpa G must be black.
Repaint P and U into black, G into red.
G may be red-violation with its parent now, continue to fix G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

i4: The uncle U is black, X is the inner grandchild (opposite
direction to P). Rotate P away from X, then P becomes the
current node and it is the outer grandchild, enter i5.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

i5: The uncle U is black, X is the outer grandchild (same
direction as P). Repaint P into black, G into red, rotate G
to the opposite direction. The red-violation is resolved.

	    [G]                 <G>                 [P]
	    / \     repaint     / \    rotate(G)    / \
	  <P> [U]  ========>  [P] [U]  ========>  <X> <G>
	  /                   /                         \
	<X>                 <X>                         [U]

The root is repainted into black after the loop whatever it exits.
*/
func (tree *rbTree[E]) insertRebalance(x *rbNode[E]) {
	for x != nil && x != tree.root && isRed[E](parentOf[E](x)) {
		p := parentOf[E](x)
		gp := parentOf[E](p)
		if p == leftOf[E](gp) {
			if /* i3 */ uncle := rightOf[E](gp); isRed[E](uncle) {
				setColor[E](p, Black)
				setColor[E](uncle, Black)
				setColor[E](gp, Red)
				tree.traceRebalance("i3", Left)
				x = gp
				continue
			}
			if /* i4 */ x == rightOf[E](p) {
				tree.traceRebalance("i4", Left)
				x = p
				tree.leftRotate(x)
			}
			/* i5 */
			tree.traceRebalance("i5", Left)
			setColor[E](parentOf[E](x), Black)
			setColor[E](parentOf[E](parentOf[E](x)), Red)
			tree.rightRotate(parentOf[E](parentOf[E](x)))
			break
		}

		if /* i3 */ uncle := leftOf[E](gp); isRed[E](uncle) {
			setColor[E](p, Black)
			setColor[E](uncle, Black)
			setColor[E](gp, Red)
			tree.traceRebalance("i3", Right)
			x = gp
			continue
		}
		if /* i4 */ x == leftOf[E](p) {
			tree.traceRebalance("i4", Right)
			x = p
			tree.rightRotate(x)
		}
		/* i5 */
		tree.traceRebalance("i5", Right)
		setColor[E](parentOf[E](x), Black)
		setColor[E](parentOf[E](parentOf[E](x)), Red)
		tree.leftRotate(parentOf[E](parentOf[E](x)))
		break
	}
	setColor[E](tree.root, Black)
}

// The parent side of grandpa decides the mirror of each case.
func (tree *rbTree[E]) traceRebalance(step string, parentDir RBDirection) {
	if step == "i3" {
		tree.stats.IncreaseRecolorCount()
	}
	if tree.logger == nil {
		return
	}
	tree.logger.Debug("[rbtree] insert rebalance",
		zap.String("case", step),
		zap.Stringer("parentDir", parentDir),
		zap.Int64("len", tree.Len()),
	)
}

type RBTreeOpt[E any] func(*rbTree[E])

// WithRBTreeDesc reverses the comparator, the in-order sequence
// becomes descending.
func WithRBTreeDesc[E any]() RBTreeOpt[E] {
	return func(tree *rbTree[E]) {
		tree.isDesc = true
	}
}

func WithRBTreeLogger[E any](logger xlog.XLogger) RBTreeOpt[E] {
	return func(tree *rbTree[E]) {
		if logger == nil {
			return
		}
		tree.logger = logger.Named("rbtree")
	}
}

func WithRBTreeStats[E any](name string) RBTreeOpt[E] {
	return func(tree *rbTree[E]) {
		tree.isStatsEnabled = true
		tree.statsName = name
	}
}

// NewRBTree returns ErrInvalidArgument if cmp is nil.
func NewRBTree[E any](cmp infra.Comparator[E], opts ...RBTreeOpt[E]) (RBTree[E], error) {
	if cmp == nil {
		return nil, infra.WrapErrorStackWithMessage(ErrInvalidArgument, "[rbtree] nil comparator")
	}

	tree := &rbTree[E]{
		cmp:      cmp,
		nillable: isNillable[E](),
	}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}

	if tree.isDesc {
		tree.cmp = infra.ReverseComparator(tree.cmp)
	}
	if tree.isStatsEnabled {
		tree.stats = newRBTreeStats(tree.statsName, tree.Len)
	}
	return tree, nil
}

func NewOrderedRBTree[K infra.OrderedKey](opts ...RBTreeOpt[K]) RBTree[K] {
	tree, _ := NewRBTree[K](infra.OrderedComparator[K](), opts...)
	return tree
}

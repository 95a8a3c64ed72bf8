package tree

import "errors"

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (c RBColor) String() string {
	switch c {
	case Black:
		return "Black"
	case Red:
		return "Red"
	default:
	}
	return "RBColor(unknown)"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

func (d RBDirection) String() string {
	switch d {
	case Left:
		return "left"
	case Root:
		return "root"
	case Right:
		return "right"
	default:
	}
	return "unknown"
}

// ErrInvalidArgument is the only error class raised by the rbtree.
// The returned errors wrap it with the caller stack, check by errors.Is.
var ErrInvalidArgument = errors.New("[rbtree] invalid argument")

// RBNode is a read-only view of a tree node.
// An absent relation is returned as a nil interface.
type RBNode[E any] interface {
	Element() E
	Color() RBColor
	Left() RBNode[E]
	Right() RBNode[E]
	Parent() RBNode[E]
}

// RBTree is a single owner container, it is not safe for concurrent
// mutation. Wrap it with a mutex if it has to be shared.
type RBTree[E any] interface {
	Len() int64
	Root() RBNode[E]
	// Insert links e as a new element, or replaces the stored element
	// which compares equal to e in place.
	Insert(e E) error
}

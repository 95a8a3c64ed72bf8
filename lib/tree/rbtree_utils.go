package tree

import (
	"reflect"

	"github.com/samber/lo"
)

// Absent node tolerant accessors.
// A nil node behaves as a BLACK node without parent and children,
// so the rebalance cases can be written without edge checks.

func parentOf[E any](node *rbNode[E]) *rbNode[E] {
	if node == nil {
		return nil
	}
	return node.parent
}

func leftOf[E any](node *rbNode[E]) *rbNode[E] {
	if node == nil {
		return nil
	}
	return node.left
}

func rightOf[E any](node *rbNode[E]) *rbNode[E] {
	if node == nil {
		return nil
	}
	return node.right
}

func colorOf[E any](node *rbNode[E]) RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func setColor[E any](node *rbNode[E], color RBColor) {
	if node != nil {
		node.color = color
	}
}

func isRed[E any](node *rbNode[E]) bool {
	return colorOf[E](node) == Red
}

func isBlack[E any](node *rbNode[E]) bool {
	return colorOf[E](node) == Black
}

// Only the element types that can hold nil need the absent check.
// Resolved once per tree, the ordered keys skip it.
func isNillable[E any]() bool {
	switch reflect.TypeFor[E]().Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Interface,
		reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
	}
	return false
}

// nil pointer, interface, map, slice, func and chan elements are absent.
func isAbsent[E any](e E) bool {
	return lo.IsNil(e)
}

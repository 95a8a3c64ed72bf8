package tree

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xrbtree/rbtree"
)

var (
	leftRotateAttrs = metric.WithAttributeSet(attribute.NewSet(
		attribute.String("rbtree.rotate.direction", Left.String()),
	))
	rightRotateAttrs = metric.WithAttributeSet(attribute.NewSet(
		attribute.String("rbtree.rotate.direction", Right.String()),
	))
)

// All methods are nil receiver safe, the stats are disabled by default.
type rbtreeStats struct {
	insertCount  metric.Int64Counter
	updateCount  metric.Int64Counter
	rejectCount  metric.Int64Counter
	rotateCount  metric.Int64Counter
	recolorCount metric.Int64Counter
	size         metric.Int64ObservableGauge
}

func (stats *rbtreeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
}

func (stats *rbtreeStats) IncreaseUpdateCount() {
	if stats == nil {
		return
	}
	stats.updateCount.Add(context.Background(), 1)
}

func (stats *rbtreeStats) IncreaseRejectCount() {
	if stats == nil {
		return
	}
	stats.rejectCount.Add(context.Background(), 1)
}

func (stats *rbtreeStats) IncreaseRotateCount(dir RBDirection) {
	if stats == nil {
		return
	}
	switch dir {
	case Left:
		stats.rotateCount.Add(context.Background(), 1, leftRotateAttrs)
	case Right:
		stats.rotateCount.Add(context.Background(), 1, rightRotateAttrs)
	default:
	}
}

func (stats *rbtreeStats) IncreaseRecolorCount() {
	if stats == nil {
		return
	}
	stats.recolorCount.Add(context.Background(), 1)
}

func rbtreeMeterName(name string) string {
	builder := &strings.Builder{}
	builder.WriteString(RBTreeStatsName)
	builder.WriteString("/")
	if name = strings.TrimSpace(name); len(name) > 0 {
		builder.WriteString(name)
	} else {
		builder.WriteString("default")
	}
	return builder.String()
}

func newRBTreeStats(name string, sizeFn func() int64) *rbtreeStats {
	meter := otel.Meter(rbtreeMeterName(name))
	return &rbtreeStats{
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.insert.count",
			metric.WithDescription("The number of new nodes linked into the rbtree."),
		)),
		updateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.update.count",
			metric.WithDescription("The number of equal elements replaced in place."),
		)),
		rejectCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.reject.count",
			metric.WithDescription("The number of absent elements rejected by insert."),
		)),
		rotateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rotate.count",
			metric.WithDescription("The number of rotations performed by insert rebalance."),
		)),
		recolorCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.recolor.count",
			metric.WithDescription("The number of red uncle recolorings performed by insert rebalance."),
		)),
		size: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbtree.size",
			metric.WithDescription("The number of distinct elements in the rbtree."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(sizeFn())
				return nil
			}),
		)),
	}
}

// Package family provides the public API for creating family trees.
// This package exposes the factory and its options while keeping the
// implementation internal.
package family

import (
	"go.uber.org/zap"

	"github.com/mesh-intelligence/lineage/internal/family"
	"github.com/mesh-intelligence/lineage/pkg/metrics"
	"github.com/mesh-intelligence/lineage/pkg/types"
)

// Option configures a tree created by NewTree.
type Option = family.Option

// NewTree creates an empty family tree.
//
// Example:
//
//	alice, _ := types.NewPerson("Alice", "f", civil.Date{Year: 1950, Month: 1, Day: 1}, civil.Date{})
//	tree := family.NewTree(family.WithLogger(logger))
//	tree.SetHead(alice)
//	bob, _ := types.NewPerson("Bob", "m", civil.Date{}, civil.Date{})
//	tree.AddChild(alice, nil, bob)
func NewTree(opts ...Option) types.FamilyTree {
	return family.NewTree(opts...)
}

// WithLogger sets the logger failed operations are reported to.
func WithLogger(l *zap.Logger) Option {
	return family.WithLogger(l)
}

// WithMetrics sets the Prometheus collectors operations are counted in.
func WithMetrics(m *metrics.Metrics) Option {
	return family.WithMetrics(m)
}

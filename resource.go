package folio

import (
	"context"
)

// ResourceRelationship describes the ordering constraint between two CSS or
// JavaScript resources on a page.
type ResourceRelationship string

const (
	// ResourceRelationshipAfter indicates the resource must be rendered
	// after the resource it's being compared to.
	ResourceRelationshipAfter ResourceRelationship = "after"

	// ResourceRelationshipBefore indicates the resource must be rendered
	// before the resource it's being compared to.
	ResourceRelationshipBefore ResourceRelationship = "before"

	// ResourceRelationshipNeutral indicates the resource doesn't care
	// where it's rendered relative to the resource it's being compared
	// to. Prefer omitting the relation calculator entirely when every
	// comparison would be neutral; the calculator is invoked once per
	// pair of resources.
	ResourceRelationshipNeutral ResourceRelationship = "neutral"
)

// resource is the constraint CSS and JavaScript resources share, letting
// the ordering graph treat both families uniformly.
type resource[T any] interface {
	// equal reports whether the receiver and other identify the same
	// asset, used to deduplicate resources declared by multiple
	// components.
	equal(other T) bool

	// relationTo reports the receiver's declared ordering constraint
	// against other.
	relationTo(ctx context.Context, other T) ResourceRelationship

	// implicitlyOrdered reports whether the resource participates in
	// declaration-order chaining. Resources that disable implicit
	// ordering or declare explicit relations opt out.
	implicitlyOrdered() bool

	// sortKey breaks ordering ties deterministically, so rendering the
	// same page twice emits resources in the same order.
	sortKey() string

	// describe identifies the resource in error messages.
	describe() string
}

package catalog

import "github.com/shadowwear/storefront-core/pkg/events"

// Domain events the catalog publishes so dependent collections (cart,
// wishlist, admin edit session) can follow identity changes without the
// catalog reaching into their state.
const (
	TopicProductRenamed events.Topic = "catalog.product.renamed"
	TopicProductUpdated events.Topic = "catalog.product.updated"
	TopicProductDeleted events.Topic = "catalog.product.deleted"
)

// ProductRenamed signals an identity change: every reference to OldID must
// be rekeyed to NewID before the originating call returns.
type ProductRenamed struct {
	OldID string
	NewID string
}

// ProductUpdated carries the post-update snapshot. Subscribers refresh
// display fields (title, price, image) they copied at add-time.
type ProductUpdated struct {
	Product Product
}

// ProductDeleted signals removal; dependent references are dropped.
type ProductDeleted struct {
	ID string
}

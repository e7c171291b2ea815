package kafka

import "fmt"

// TopicPrefix is the prefix shared by every storefront topic.
const TopicPrefix = "storefront"

// Topic constructs a fully-qualified topic name.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

var (
	TopicCartUpdated     = Topic("cart", "updated")
	TopicWishlistUpdated = Topic("wishlist", "updated")
	TopicOrderPlaced     = Topic("order", "placed")
)

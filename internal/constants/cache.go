package constants

import "time"

// Cache key prefixes. CacheBuilder joins prefix and key with a colon.
const (
	UserCachePrefix               = "user"
	UserCacheExpiry               = 24 * time.Hour
	NotificationUnreadCachePrefix = "notifications_unread"
	NotificationUnreadCacheExpiry = 10 * time.Minute
	PlacesCachePrefix             = "places"
	PlacesCacheExpiry             = 6 * time.Hour
)

package cache

// KeyPrefix namespaces every cached response in Redis.
const KeyPrefix = "civicmap:cache:"

// Tracked response keys. Any write to the backend invalidates all of them.
const (
	KeyBookmarks  = "bookmarks"
	KeyCategories = "categories"
	KeyTags       = "tags"
)

// Key returns the namespaced storage key for a response key.
func Key(key string) string {
	return KeyPrefix + key
}

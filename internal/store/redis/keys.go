package redis

// KeyPrefix namespaces every key the store writes.
const KeyPrefix = "mindnest:pref:"

// Key returns the Redis key for a preference key
func Key(name string) string {
	return KeyPrefix + name
}

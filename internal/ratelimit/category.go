package ratelimit

// Category is a named class of endpoint sharing one quota. Every request is
// counted against exactly one category per governor it passes through;
// governors can be layered (the strict global one runs before the per-route
// ones).
type Category string

const (
	CategoryGeneral      Category = "general"
	CategoryStrictGlobal Category = "strict_global"
	CategoryUpload       Category = "upload"
	CategorySearch       Category = "search"
	CategoryWrite        Category = "write"
	CategoryAuth         Category = "auth"
)

var categoryMessages = map[Category]string{
	CategoryGeneral:      "Too many requests, please try again later.",
	CategoryStrictGlobal: "Request rate too high. You have been temporarily blocked.",
	CategoryUpload:       "Too many uploads, please try again later.",
	CategorySearch:       "Too many search requests, please try again later.",
	CategoryWrite:        "Too many write requests, please try again later.",
	CategoryAuth:         "Too many authentication attempts, please try again later.",
}

// Message is the human-readable rejection reason for the category.
func (c Category) Message() string {
	if msg, ok := categoryMessages[c]; ok {
		return msg
	}

	return categoryMessages[CategoryGeneral]
}

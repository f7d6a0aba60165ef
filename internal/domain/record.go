package domain

// RawRecord is one scraped product listing exactly as the upstream search/detail/review
// collaborator produced it. The shape is open: every field is optional, nesting depth is
// arbitrary, and values may arrive as the wrong type (a price as a string, a rating as an
// int). The pipeline never mutates a RawRecord.
type RawRecord map[string]any

// Lookup walks a dotted structural path ("shop.city") through nested objects.
// A missing or non-object intermediate returns (nil, false) rather than an error.
func (r RawRecord) Lookup(path ...string) (any, bool) {
	var current any = map[string]any(r)
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Reviews extracts the record's review messages in their stored order. Reviews without
// a message string are skipped. A record with no product_reviews yields nil.
func (r RawRecord) Reviews() []Review {
	raw, ok := r.Lookup("product_reviews")
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var reviews []Review
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		msg, ok := obj["message"].(string)
		if !ok {
			continue
		}
		reviews = append(reviews, Review{Message: msg})
	}
	return reviews
}

// Review is the slice of a raw review this pipeline cares about.
type Review struct {
	Message string `json:"message"`
}

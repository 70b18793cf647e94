package sqlite

import "strings"

const tagDelimiter = ","

// encodeTags stores tags the way buku does: delimited on both ends so that
// LIKE '%,tag,%' matches whole tags.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return tagDelimiter
	}
	return tagDelimiter + strings.Join(tags, tagDelimiter) + tagDelimiter
}

func decodeTags(raw string) []string {
	tags := []string{}
	for _, tag := range strings.Split(raw, tagDelimiter) {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

package domain

import (
	"sort"
	"strings"
)

// SitemapEntry is one published page in a flattened sitemap.
type SitemapEntry struct {
	PageID int
	Name   string
	Path   string
	Title  string

	// ContentID is set on dynamic pages that render a single content item.
	ContentID int
}

// SitemapIndex maps a URL path to its sitemap entry for one channel and locale.
// It is rebuilt on every page sync and treated as read-only.
type SitemapIndex map[string]SitemapEntry

// FindByName returns the entry whose last path segment equals name.
// Two pages sharing a name are ambiguous; the lexically first path wins
// so repeated lookups agree.
func (s SitemapIndex) FindByName(name string) (SitemapEntry, bool) {
	if name == "" {
		return SitemapEntry{}, false
	}

	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if lastSegment(key) == name {
			return s[key], true
		}
	}
	return SitemapEntry{}, false
}

// FindByContentID returns the dynamic page that renders the content item.
// When several do, the lexically first path wins.
func (s SitemapIndex) FindByContentID(contentID int) (SitemapEntry, bool) {
	if contentID <= 0 {
		return SitemapEntry{}, false
	}
	var (
		found    SitemapEntry
		foundKey string
		ok       bool
	)
	for key, entry := range s {
		if entry.ContentID != contentID {
			continue
		}
		if !ok || key < foundKey {
			found, foundKey, ok = entry, key, true
		}
	}
	return found, ok
}

func lastSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

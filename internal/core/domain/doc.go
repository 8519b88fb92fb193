// Package domain holds the types that flow from a CMS change notification
// to a search record: ChangeEvent, ContentRecord and its Fields,
// SitemapIndex, IndexDocument and the queued SyncTask, together with
// Settings and the sentinel errors.
//
// Everything here is plain data and small pure helpers. The package
// imports only the standard library, and every other internal package
// may depend on it.
package domain

// Package normalisers maps CMS records to search index documents.
//
// Each normaliser is a pure function of a fetched record and its resolved
// path. The Registry decides which normaliser handles a change event from
// a fixed table of content reference names, so indexing another content
// type means adding a row rather than another branch.
//
// Sub-packages:
//   - headings: heading extraction shared by all normalisers
//   - page: sitemap pages
//   - content: blog posts, press releases and resources
package normalisers

// Package agility implements driven.ContentSource over the Agility CMS
// Fetch REST API.
//
// Records are decoded with their field bags in source order, so that
// heading extraction sees fields the way editors laid them out. Requests
// are throttled with a token bucket and back off after 429 responses.
package agility

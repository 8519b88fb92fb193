// Package webhook receives content-change notifications from the CMS.
//
// Every POST is answered with 200 and an empty body, whatever happens
// downstream, so the sender never backs off or retries because of index
// problems. Accepted events are handed to the task queue; malformed
// payloads, unknown content types and bad secrets are logged and dropped.
package webhook

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - ContentSource: Fetches pages, content items and the sitemap (Agility)
//   - Normaliser: Transforms a content record into an index document
//   - NormaliserRegistry: Selects the normaliser for a reference name
//   - SearchIndex: Writes and removes index documents (Algolia, bleve, memory)
//   - SearchableIndex: A SearchIndex that can also be queried locally
//   - TaskStore: Sync task persistence (SQLite, memory)
//   - SchedulerStore: Scheduled task persistence (SQLite, memory)
//   - ConfigStore: Application configuration (TOML)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven

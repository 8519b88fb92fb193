package driven

// ConfigStore holds settings as flat dotted keys such as "agility.guid"
// or "queue.workers". Typed getters return the zero value when a key is
// missing or holds another type; integers widen to float in GetFloat.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set stores the value and persists it at once.
	Set(key string, value any) error

	Save() error

	// Load replaces the in-memory values with what is in storage.
	Load() error

	// Path locates the backing file; in-memory stores return ":memory:".
	Path() string
}

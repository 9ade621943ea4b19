package bot

// Config holds presentation-layer settings
type Config struct {
	// Number of past results shown by /stats
	HistoryLimit int
	// Maximum missed words listed on the result screen
	MissListLimit int
	// Maximum length of a learner display name
	MaxNameLength int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:  5,
		MissListLimit: 10,
		MaxNameLength: 20,
	}
}

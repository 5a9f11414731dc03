package config

import "fmt"

// Config is everything the server needs to reach its collaborators. The
// game backend owns all durable game state; the CMS owns page copy; the
// search proxy fronts the music catalog. DatabaseURL is optional and only
// feeds the local game-history sink.
type Config struct {
	Bind          string
	Port          int
	BackendURL    string
	HubURL        string
	SearchURL     string
	CMSURL        string
	DefaultLocale string
	DatabaseURL   string
	Verbose       bool
}

func Default() Config {
	return Config{
		Bind:          "0.0.0.0",
		Port:          8080,
		BackendURL:    "https://quizify.azurewebsites.net",
		HubURL:        "wss://quizify.azurewebsites.net/gameHub",
		SearchURL:     "https://quizify.azurewebsites.net",
		CMSURL:        "https://quizify.azurewebsites.net",
		DefaultLocale: "sv",
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL must be set")
	}
	if c.HubURL == "" {
		return fmt.Errorf("hub URL must be set")
	}
	return nil
}

package tools

// Config carries the credentials of the external search APIs.
type Config struct {
	SpoonacularURL    string
	SpoonacularAPIKey string
	GoogleSearchURL   string
	GoogleAPIKey      string
	GoogleCX          string
	Region            string
}

// NewDefaultRegistry registers the five recipe tools followed by GoogleSearch.
func NewDefaultRegistry(cfg Config) *Registry {
	r := NewRegistry(SpoonacularTools(NewSpoonacularClient(cfg.SpoonacularURL, cfg.SpoonacularAPIKey))...)
	r.Register(NewGoogleSearch(cfg.GoogleSearchURL, cfg.GoogleAPIKey, cfg.GoogleCX, cfg.Region))
	return r
}

package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	AppURL        string
	Google        GoogleConfig
	Slack         SlackConfig
	Turso         TursoConfig
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

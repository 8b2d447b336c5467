package tennis

// Store defines the interface for interacting with the tracker's data.
// Every operation is scoped to a user id; rows belonging to other users are
// never visible through it.
type Store interface {
	ListMatches(userID string) ([]Match, error)
	CompletedMatches(userID string) ([]Match, error)
	GetMatch(userID string, id int64) (*Match, error)
	CreateMatch(userID string, match *Match) (int64, error)
	UpdateMatch(userID string, id int64, match *Match) error
	UpdateScore(userID string, id int64, score1, score2 string) error
	DeleteMatch(userID string, id int64) error

	ListPlayers(userID string) ([]PlayerInfo, error)
	AddPlayer(userID, name string) error
	DeletePlayer(userID, name string) error

	ListSeasons(userID string) ([]string, error)

	GetSettings(userID string) (Settings, error)
	SaveSettings(userID string, update SettingsUpdate) error
	HasSettings(userID string) (bool, error)
	SeedDefaultSettings(userID, userName string) error
}

package tennis

import "sync"

// Mock is a mock implementation of the Store interface for testing.
// Unset Func fields fall back to zero-value returns.
type Mock struct {
	mu sync.Mutex

	ListMatchesFunc      func(userID string) ([]Match, error)
	CompletedMatchesFunc func(userID string) ([]Match, error)
	GetMatchFunc         func(userID string, id int64) (*Match, error)
	CreateMatchFunc      func(userID string, match *Match) (int64, error)
	UpdateMatchFunc      func(userID string, id int64, match *Match) error
	UpdateScoreFunc      func(userID string, id int64, score1, score2 string) error
	DeleteMatchFunc      func(userID string, id int64) error
	ListPlayersFunc      func(userID string) ([]PlayerInfo, error)
	AddPlayerFunc        func(userID, name string) error
	DeletePlayerFunc     func(userID, name string) error
	ListSeasonsFunc      func(userID string) ([]string, error)
	GetSettingsFunc      func(userID string) (Settings, error)
	SaveSettingsFunc     func(userID string, update SettingsUpdate) error
	HasSettingsFunc      func(userID string) (bool, error)

	// Call records
	CreateMatchCalls []Match
	UpdateScoreCalls []struct {
		ID             int64
		Score1, Score2 string
	}
	SeedDefaultSettingsCalls []string
}

var _ Store = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) ListMatches(userID string) ([]Match, error) {
	if m.ListMatchesFunc != nil {
		return m.ListMatchesFunc(userID)
	}
	return nil, nil
}

func (m *Mock) CompletedMatches(userID string) ([]Match, error) {
	if m.CompletedMatchesFunc != nil {
		return m.CompletedMatchesFunc(userID)
	}
	return nil, nil
}

func (m *Mock) GetMatch(userID string, id int64) (*Match, error) {
	if m.GetMatchFunc != nil {
		return m.GetMatchFunc(userID, id)
	}
	return nil, ErrMatchNotFound
}

func (m *Mock) CreateMatch(userID string, match *Match) (int64, error) {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, *match)
	m.mu.Unlock()
	if m.CreateMatchFunc != nil {
		return m.CreateMatchFunc(userID, match)
	}
	return 1, nil
}

func (m *Mock) UpdateMatch(userID string, id int64, match *Match) error {
	if m.UpdateMatchFunc != nil {
		return m.UpdateMatchFunc(userID, id, match)
	}
	return nil
}

func (m *Mock) UpdateScore(userID string, id int64, score1, score2 string) error {
	m.mu.Lock()
	m.UpdateScoreCalls = append(m.UpdateScoreCalls, struct {
		ID             int64
		Score1, Score2 string
	}{id, score1, score2})
	m.mu.Unlock()
	if m.UpdateScoreFunc != nil {
		return m.UpdateScoreFunc(userID, id, score1, score2)
	}
	return nil
}

func (m *Mock) DeleteMatch(userID string, id int64) error {
	if m.DeleteMatchFunc != nil {
		return m.DeleteMatchFunc(userID, id)
	}
	return nil
}

func (m *Mock) ListPlayers(userID string) ([]PlayerInfo, error) {
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(userID)
	}
	return nil, nil
}

func (m *Mock) AddPlayer(userID, name string) error {
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(userID, name)
	}
	return nil
}

func (m *Mock) DeletePlayer(userID, name string) error {
	if m.DeletePlayerFunc != nil {
		return m.DeletePlayerFunc(userID, name)
	}
	return nil
}

func (m *Mock) ListSeasons(userID string) ([]string, error) {
	if m.ListSeasonsFunc != nil {
		return m.ListSeasonsFunc(userID)
	}
	return nil, nil
}

func (m *Mock) GetSettings(userID string) (Settings, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(userID)
	}
	return Settings{
		DefaultStartTime: DefaultStartTime,
		DefaultDuration:  DefaultDuration,
		Surfaces:         DefaultSurfaces,
	}, nil
}

func (m *Mock) SaveSettings(userID string, update SettingsUpdate) error {
	if m.SaveSettingsFunc != nil {
		return m.SaveSettingsFunc(userID, update)
	}
	return nil
}

func (m *Mock) HasSettings(userID string) (bool, error) {
	if m.HasSettingsFunc != nil {
		return m.HasSettingsFunc(userID)
	}
	return false, nil
}

func (m *Mock) SeedDefaultSettings(userID, userName string) error {
	m.mu.Lock()
	m.SeedDefaultSettingsCalls = append(m.SeedDefaultSettingsCalls, userID)
	m.mu.Unlock()
	return nil
}

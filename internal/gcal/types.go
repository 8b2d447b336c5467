package gcal

// UserInfo is the subset of the Google profile the app cares about.
type UserInfo struct {
	ID        string
	Email     string
	Name      string
	GivenName string
}

// Event describes a match to place on the user's calendar.
type Event struct {
	Opponent  string
	Surface   string
	Date      string
	StartTime string
	Duration  int
}

package database

// Digest is one delivered (or locally saved) digest run.
type Digest struct {
	ID           int64
	RunDate      string // YYYY-MM-DD
	Subject      string
	BodyMarkdown string
	ItemCount    int
	HighCount    int
	MediumCount  int
	LowCount     int
	GeneratedAt  *string
}

// DigestItem is one ranked item within a digest, stored in rank order.
type DigestItem struct {
	ID             int64
	DigestID       int64
	Position       int
	Title          string
	URL            *string
	Snippet        *string
	Source         *string
	Published      *string
	Score          int
	MatchedPension *string
	MatchedAssets  []string
	MatchedActions []string
}

// Stats contains aggregate database statistics.
type Stats struct {
	SeenItems      int
	Digests        int
	ItemsDelivered int
	LastRunDate    string
}

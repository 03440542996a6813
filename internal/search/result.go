package search

// Result is a raw search hit from any provider. Any field may be empty and
// no uniqueness is guaranteed within or across batches; the ranking
// pipeline owns deduplication.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string
	Date    string // ISO-8601 or empty
}

package domain

// BatchEntry is the per-posting payload delivered to the notifier. Title and
// company are length-truncated before they land here.
type BatchEntry struct {
	Title   string `json:"title"`
	Company string `json:"company"`
	URL     string `json:"url"`
}

// Batch is one run's result set, keyed search term -> location -> posting id.
type Batch struct {
	Searches map[string]map[string]map[string]BatchEntry `json:"searches"`
}

func NewBatch() *Batch {
	return &Batch{Searches: make(map[string]map[string]map[string]BatchEntry)}
}

// EnsureSearch makes sure the (term, location) buckets exist so a search with
// zero results still shows up in the delivered batch.
func (b *Batch) EnsureSearch(term, location string) {
	if _, ok := b.Searches[term]; !ok {
		b.Searches[term] = make(map[string]map[string]BatchEntry)
	}
	if _, ok := b.Searches[term][location]; !ok {
		b.Searches[term][location] = make(map[string]BatchEntry)
	}
}

func (b *Batch) Add(term, location, id string, entry BatchEntry) {
	b.EnsureSearch(term, location)
	b.Searches[term][location][id] = entry
}

// Len reports the total number of postings across all searches.
func (b *Batch) Len() int {
	n := 0
	for _, locs := range b.Searches {
		for _, postings := range locs {
			n += len(postings)
		}
	}
	return n
}

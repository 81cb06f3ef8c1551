package contracts

import "time"

// Post is an immutable record of a single source message from a
// monitored account. Unique on SourceID: a post is ingested at most once.
type Post struct {
	ID         int64     `json:"id"`
	SourceID   string    `json:"source_id"` // platform-assigned id, e.g. tweet id
	Author     string    `json:"author"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
	IngestedAt time.Time `json:"ingested_at"`
}

// IsEmpty reports whether the post carries no scoreable content
func (p *Post) IsEmpty() bool {
	for _, r := range p.Text {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

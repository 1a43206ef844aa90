package model

import "time"

// RunSummary is the metadata of a stored run, without its ranks.
type RunSummary struct {
	ID          int64     `json:"id"`
	Corpus      string    `json:"corpus"`
	Digest      string    `json:"digest"`
	Pages       int       `json:"pages"`
	Damping     float64   `json:"damping"`
	Samples     int       `json:"samples"`
	Seed        uint64    `json:"seed"`
	Passes      int       `json:"passes"`
	Converged   bool      `json:"converged"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ShortDigest returns the first 12 hex digits of the graph digest.
func (s RunSummary) ShortDigest() string {
	const n = 12
	if len(s.Digest) <= n {
		return s.Digest
	}
	return s.Digest[:n]
}

// Package domain defines the article records exchanged by the loader,
// normalizer, feed assembler and HTTP API.
package domain

// Defaults applied when a source document omits a field.
const (
	DefaultTitle         = "Untitled"
	DefaultAuthor        = "Unknown"
	DefaultPublishedDate = "Unknown"
)

// Social networks whose share counts are carried into NormalizedArticle.
const (
	NetworkFacebook  = "facebook"
	NetworkLinkedIn  = "linkedin"
	NetworkPinterest = "pinterest"
)

// ArticleSource is one raw article document as found on disk. Every member
// is optional; pointers distinguish "absent" (or null) from "empty". Text
// leaves are LooseString, so only a non-object document, thread or social
// entry fails to decode.
type ArticleSource struct {
	UUID   *LooseString  `json:"uuid"`
	Title  *LooseString  `json:"title"`
	Author *LooseString  `json:"author"`
	URL    *LooseString  `json:"url"`
	Text   *LooseString  `json:"text"`
	Thread *SourceThread `json:"thread"`
}

// SourceThread is the nested "thread" object of an ArticleSource.
type SourceThread struct {
	Published *LooseString             `json:"published"`
	MainImage *LooseString             `json:"main_image"`
	Site      *LooseString             `json:"site"`
	Social    map[string]*SocialCounts `json:"social"`
}

// SocialCounts holds per-network engagement counts.
type SocialCounts struct {
	Shares *ShareCount `json:"shares"`
}

// NormalizedArticle is the flat, fully populated record served to clients.
type NormalizedArticle struct {
	UUID          string       `json:"uuid"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	PublishedDate string       `json:"published_date"`
	URL           string       `json:"url"`
	Content       string       `json:"content"`
	MainImage     string       `json:"main_image"`
	Site          string       `json:"site"`
	SocialShares  SocialShares `json:"social_shares"`
}

// SocialShares holds share counts for the tracked networks.
type SocialShares struct {
	Facebook  int64 `json:"facebook"`
	LinkedIn  int64 `json:"linkedin"`
	Pinterest int64 `json:"pinterest"`
}

// Feed is the result of assembling the news feed.
type Feed struct {
	Articles []NormalizedArticle
	// Skipped counts index entries whose file no longer exists.
	Skipped int
}

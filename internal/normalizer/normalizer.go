// Package normalizer turns raw article documents into flat
// domain.NormalizedArticle records.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
)

// ErrNotFound is returned when the path does not resolve to a regular file.
var ErrNotFound = errors.New("article file not found")

// ParseError reports a file whose content is not a valid article document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse article %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Normalizer reads article files from a file system.
type Normalizer struct {
	fsys fs.StatFS
}

// New returns a Normalizer over the host file system. Paths are used as
// given, so absolute paths from the index work unchanged.
func New() *Normalizer {
	return &Normalizer{}
}

// NewFS returns a Normalizer that resolves paths inside fsys.
func NewFS(fsys fs.StatFS) *Normalizer {
	return &Normalizer{fsys: fsys}
}

// Normalize reads the file at path and flattens it.
func (n *Normalizer) Normalize(path string) (domain.NormalizedArticle, error) {
	data, err := n.read(path)
	if err != nil {
		return domain.NormalizedArticle{}, err
	}
	return Parse(path, data)
}

func (n *Normalizer) read(path string) ([]byte, error) {
	stat, readFile := os.Stat, os.ReadFile
	if n.fsys != nil {
		stat = func(name string) (fs.FileInfo, error) { return n.fsys.Stat(name) }
		readFile = func(name string) ([]byte, error) { return fs.ReadFile(n.fsys, name) }
	}

	info, err := stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && !info.Mode().IsRegular()) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat article %s: %w", path, err)
	}

	data, err := readFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// Removed between stat and read.
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read article %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes data as an article document and flattens it. path is
// only used for error reporting.
func Parse(path string, data []byte) (domain.NormalizedArticle, error) {
	var src *domain.ArticleSource
	if err := json.Unmarshal(data, &src); err != nil {
		return domain.NormalizedArticle{}, &ParseError{Path: path, Err: err}
	}
	return Flatten(src), nil
}

// Flatten maps src onto a NormalizedArticle, filling every absent field
// with its default. A nil src yields the all-defaults record.
func Flatten(src *domain.ArticleSource) domain.NormalizedArticle {
	thread := src.ThreadOrNil()

	return domain.NormalizedArticle{
		UUID:          src.UUIDOr(""),
		Title:         src.TitleOr(domain.DefaultTitle),
		Author:        src.AuthorOr(domain.DefaultAuthor),
		PublishedDate: thread.PublishedOr(domain.DefaultPublishedDate),
		URL:           src.URLOr(""),
		Content:       src.TextOr(""),
		MainImage:     thread.MainImageOr(""),
		Site:          thread.SiteOr(""),
		SocialShares: domain.SocialShares{
			Facebook:  thread.SharesOr(domain.NetworkFacebook, 0),
			LinkedIn:  thread.SharesOr(domain.NetworkLinkedIn, 0),
			Pinterest: thread.SharesOr(domain.NetworkPinterest, 0),
		},
	}
}

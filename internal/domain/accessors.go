package domain

// Each accessor walks one optional level and falls back to the default
// when any level on the way is missing. All are safe on a nil receiver.

func stringOr(p *LooseString, def string) string {
	if p == nil {
		return def
	}
	return string(*p)
}

// UUIDOr returns the uuid, or def when absent.
func (s *ArticleSource) UUIDOr(def string) string {
	if s == nil {
		return def
	}
	return stringOr(s.UUID, def)
}

// TitleOr returns the title, or def when absent.
func (s *ArticleSource) TitleOr(def string) string {
	if s == nil {
		return def
	}
	return stringOr(s.Title, def)
}

// AuthorOr returns the author, or def when absent.
func (s *ArticleSource) AuthorOr(def string) string {
	if s == nil {
		return def
	}
	return stringOr(s.Author, def)
}

// URLOr returns the url, or def when absent.
func (s *ArticleSource) URLOr(def string) string {
	if s == nil {
		return def
	}
	return stringOr(s.URL, def)
}

// TextOr returns the body text, or def when absent.
func (s *ArticleSource) TextOr(def string) string {
	if s == nil {
		return def
	}
	return stringOr(s.Text, def)
}

// ThreadOrNil returns the thread, which may be nil.
func (s *ArticleSource) ThreadOrNil() *SourceThread {
	if s == nil {
		return nil
	}
	return s.Thread
}

// PublishedOr returns thread.published, or def when absent.
func (t *SourceThread) PublishedOr(def string) string {
	if t == nil {
		return def
	}
	return stringOr(t.Published, def)
}

// MainImageOr returns thread.main_image, or def when absent.
func (t *SourceThread) MainImageOr(def string) string {
	if t == nil {
		return def
	}
	return stringOr(t.MainImage, def)
}

// SiteOr returns thread.site, or def when absent.
func (t *SourceThread) SiteOr(def string) string {
	if t == nil {
		return def
	}
	return stringOr(t.Site, def)
}

// SharesOr returns thread.social.<network>.shares, or def when the
// thread, the social map, the network entry or the count is missing.
func (t *SourceThread) SharesOr(network string, def int64) int64 {
	if t == nil || t.Social == nil {
		return def
	}
	counts := t.Social[network]
	if counts == nil || counts.Shares == nil {
		return def
	}
	return int64(*counts.Shares)
}

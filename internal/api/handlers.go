package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/newsfeed/internal/domain"
	"github.com/jonesrussell/north-cloud/newsfeed/internal/feed"
)

const (
	pongMessage  = "Pong!"
	emptyMessage = "No articles found in datastore."
)

type feedResponse struct {
	Articles []domain.NormalizedArticle `json:"articles"`
	Skipped  *int                       `json:"skipped,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (r *Router) ping(c *gin.Context) {
	if r.cfg.API.LegacyEnvelope {
		r.respond(c, http.StatusOK, pongMessage)
		return
	}
	r.respond(c, http.StatusOK, gin.H{"status": "ok", "message": pongMessage})
}

func (r *Router) getNewsfeed(c *gin.Context) {
	f, err := r.feed.Assemble(c.Request.Context())
	if errors.Is(err, feed.ErrEmptyStore) {
		_ = c.Error(err)
		r.respond(c, http.StatusNotFound, errorResponse{Error: emptyMessage})
		return
	}
	if err != nil {
		r.fail(c, err)
		return
	}

	resp := feedResponse{Articles: f.Articles}
	if resp.Articles == nil {
		resp.Articles = []domain.NormalizedArticle{}
	}
	if r.cfg.API.IncludeSkipped {
		resp.Skipped = &f.Skipped
	}
	r.respond(c, http.StatusOK, resp)
}

func (r *Router) getFeaturedArticle(c *gin.Context) {
	article, err := r.featured.Featured(c.Request.Context())
	if err != nil {
		r.fail(c, err)
		return
	}
	r.respond(c, http.StatusOK, article)
}

func (r *Router) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	r.respond(c, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// respond writes payload with status. In legacy mode the body is
// [payload, status] and the transport status is always 200.
func (r *Router) respond(c *gin.Context, status int, payload any) {
	if r.cfg.API.LegacyEnvelope {
		c.JSON(http.StatusOK, []any{payload, status})
		return
	}
	c.JSON(status, payload)
}

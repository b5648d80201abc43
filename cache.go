package cattery

import (
	"sync"
	"time"
)

// ArticleCache is an in-memory cache of published news articles with TTL.
// Public pages and the feed read from it; admin writes invalidate it.
type ArticleCache struct {
	mu       sync.RWMutex
	articles []Article
	fetched  time.Time
	ttl      time.Duration
	store    *Store
}

// NewArticleCache creates an ArticleCache backed by the given Store.
func NewArticleCache(s *Store, ttl time.Duration) *ArticleCache {
	return &ArticleCache{store: s, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.mu.Unlock()
}

// ensureLoaded returns cached articles after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ArticleCache) ensureLoaded() ([]Article, error) {
	c.mu.RLock()
	if c.valid() {
		articles := c.articles
		c.mu.RUnlock()
		return articles, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.articles, nil
	}
	articles, err := c.store.ListArticles(true)
	if err != nil {
		return nil, err
	}
	c.articles = articles
	c.fetched = time.Now()
	return c.articles, nil
}

// ListPublished returns published articles, newest first.
func (c *ArticleCache) ListPublished() ([]Article, error) {
	return c.ensureLoaded()
}

// GetPublished returns a single published article by id from the cache.
func (c *ArticleCache) GetPublished(id int64) (Article, error) {
	articles, err := c.ensureLoaded()
	if err != nil {
		return Article{}, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return Article{}, ErrNotFound
}

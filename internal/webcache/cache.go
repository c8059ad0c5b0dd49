package webcache

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/simrigproject/simrig/internal/common/logging"
	"github.com/simrigproject/simrig/internal/common/simrigerrors"
	"github.com/simrigproject/simrig/internal/common/util"
	"github.com/simrigproject/simrig/internal/configuration"
)

// entry is one cached response. Timestamp is epoch seconds, kept as a float
// so store files written by other tooling parse unchanged.
type entry struct {
	Data      interface{} `json:"data"`
	Timestamp float64     `json:"timestamp"`
}

type store map[string]entry

// Cache is a read-through cache for external JSON data, persisted as a
// single JSON file mapping each url to its data and fetch time.
//
// Entries younger than the configured TTL are served without network
// access. On a miss or an expired entry the url is fetched exactly once, no
// retries; on success the whole store is rewritten with the new entry, on
// failure a stale entry is served as a degraded result if one exists. A
// store file that is missing or unparsable is treated as empty, never as an
// error.
//
// A mutex serializes lookups within the process and the store rewrite goes
// through a temp file plus rename, so readers never see a partial file.
// Writers in separate processes are not coordinated with each other.
type Cache struct {
	path   string
	ttl    time.Duration
	client *http.Client
	clock  util.Clock
	mu     sync.Mutex
}

func New(config configuration.CacheConfig) *Cache {
	return NewWithClient(config, http.DefaultClient)
}

func NewWithClient(config configuration.CacheConfig, client *http.Client) *Cache {
	if client == nil {
		client = http.DefaultClient
	}
	return &Cache{
		path:   config.Path,
		ttl:    config.TTL,
		client: client,
		clock:  &util.DefaultClock{},
	}
}

// Get returns the data for url, from the store if a fresh entry exists and
// from the external source otherwise. When the fetch fails and a stale
// entry exists it is returned instead, with a warning; when no entry exists
// the fetch error is returned.
func (c *Cache) Get(ctx context.Context, url string) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.loadStore()
	now := float64(c.clock.Now().UnixNano()) / float64(time.Second)

	if cached, ok := s[url]; ok && now-cached.Timestamp < c.ttl.Seconds() {
		cacheHits.Inc()
		log.Debugf("serving %s from cache", url)
		return cached.Data, nil
	}
	cacheMisses.Inc()

	data, err := c.fetch(ctx, url)
	if err != nil {
		fetchFailures.Inc()
		if cached, ok := s[url]; ok {
			staleServes.Inc()
			logging.WithStacktrace(log.WithField("url", url), err).Warn("failed to fetch, serving stale cache")
			return cached.Data, nil
		}
		return nil, err
	}

	s[url] = entry{Data: data, Timestamp: now}
	if err := c.persist(s); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Cache) fetch(ctx context.Context, url string) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.WithStack(&simrigerrors.ErrFetchFailed{
			Url:        url,
			StatusCode: resp.StatusCode,
		})
	}
	var data interface{}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, errors.WithStack(&simrigerrors.ErrFetchFailed{
			Url:     url,
			Message: err.Error(),
		})
	}
	return data, nil
}

// loadStore reads the whole store file. Missing, unreadable, or unparsable
// stores come back empty; corruption self-heals on the next persist.
func (c *Cache) loadStore() store {
	content, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Warnf("could not read cache store %s, treating it as empty", c.path)
		}
		return store{}
	}
	s := store{}
	if err := json.Unmarshal(content, &s); err != nil {
		corruptedStores.Inc()
		log.WithError(err).Warnf("cache store %s is corrupt, treating it as empty", c.path)
		return store{}
	}
	return s
}

// persist rewrites the whole store file atomically.
func (c *Cache) persist(s store) error {
	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WithStack(err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(c.path)+".*")
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.WithStack(err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return errors.WithStack(err)
	}
	return nil
}

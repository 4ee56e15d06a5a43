// Package gmail wraps the Gmail API for the jobtrack pipeline: it runs
// the configured search queries over the lookback window, deduplicates
// message IDs across queries, fetches message details (through the
// local message store when available) and converts them to raw
// pipeline messages.
package gmail

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v5"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/kbouqdir/jobtrack/internal/google"
	"github.com/kbouqdir/jobtrack/internal/logging"
	"github.com/kbouqdir/jobtrack/internal/track"
)

const (
	// pageSize is the Gmail API list page size (API maximum is 100 for
	// most accounts, larger values are trimmed server-side anyway).
	pageSize = 100

	// fetchMaxTries bounds retries for one API call before the run is
	// aborted with a fetch failure.
	fetchMaxTries = 3

	// fetchBackoffBase is the initial retry delay; it doubles per
	// attempt.
	fetchBackoffBase = 250 * time.Millisecond
)

// MessageStore caches fetched messages between runs so repeat runs skip
// messages.get calls. The cache package provides the SQLite
// implementation; a nil store disables caching.
type MessageStore interface {
	Get(ctx context.Context, id string) (track.RawMessage, bool, error)
	Put(ctx context.Context, m track.RawMessage) error
}

// CacheRecorder counts messages served from the store instead of the
// API. A nil recorder disables counting.
type CacheRecorder interface {
	CacheHit(ctx context.Context)
}

// Client wraps the Gmail Users service.
type Client struct {
	svc        *gmail.UsersService
	logger     *slog.Logger
	store      MessageStore
	recorder   CacheRecorder
	queries    []string
	maxResults int64
}

// NewClient creates a Gmail client from the cached OAuth token.
// Returns google.ErrNoToken (wrapped) when the user has not
// authenticated yet. store and recorder may be nil.
func NewClient(ctx context.Context, creds google.Credentials, queries []string, maxResults int, store MessageStore, recorder CacheRecorder, logger *slog.Logger) (*Client, error) {
	httpClient, err := google.HTTPClient(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("gmail authentication: %w", err)
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:        svc.Users,
		logger:     logger,
		store:      store,
		recorder:   recorder,
		queries:    queries,
		maxResults: int64(maxResults),
	}, nil
}

// Fetch runs every configured query restricted to messages received
// after since and returns the deduplicated messages, ordered by message
// ID for a deterministic pipeline input.
func (c *Client) Fetch(ctx context.Context, since time.Time) ([]track.RawMessage, error) {
	ids := make(map[string]struct{})
	for _, q := range c.queries {
		full := Query(q, since)
		found, err := c.listMessageIDs(ctx, full)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", full, err)
		}
		c.logger.Debug("query complete", logging.Query(full), logging.Count(len(found)))
		for _, id := range found {
			ids[id] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	c.logger.Info("fetching message details", logging.Count(len(ordered)))

	msgs := make([]track.RawMessage, 0, len(ordered))
	for _, id := range ordered {
		m, err := c.getMessage(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// listMessageIDs lists matching message IDs with pagination, up to the
// configured maximum per query.
func (c *Client) listMessageIDs(ctx context.Context, query string) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := c.maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}
		size := remaining
		if size > pageSize {
			size = pageSize
		}

		req := c.svc.Messages.List("me").Q(query).MaxResults(size)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := retry(ctx, func() (*gmail.ListMessagesResponse, error) {
			return req.Context(ctx).Do()
		})
		if err != nil {
			return nil, err
		}

		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	return ids, nil
}

// getMessage returns one message, from the store when cached, otherwise
// from the API (populating the store).
func (c *Client) getMessage(ctx context.Context, id string) (track.RawMessage, error) {
	if c.store != nil {
		if m, ok, err := c.store.Get(ctx, id); err != nil {
			c.logger.Warn("message store read failed", logging.Err(err))
		} else if ok {
			if c.recorder != nil {
				c.recorder.CacheHit(ctx)
			}
			return m, nil
		}
	}

	msg, err := retry(ctx, func() (*gmail.Message, error) {
		return c.svc.Messages.Get("me", id).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return track.RawMessage{}, err
	}

	m := ToRawMessage(msg)
	if c.store != nil {
		if err := c.store.Put(ctx, m); err != nil {
			c.logger.Warn("message store write failed", logging.Err(err))
		}
	}
	return m, nil
}

// retry runs one API call with exponential backoff. Transient API and
// network errors get fetchMaxTries attempts before the error is
// surfaced.
func retry[T any](ctx context.Context, call func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = fetchBackoffBase
	return backoff.Retry(ctx, call,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(fetchMaxTries))
}

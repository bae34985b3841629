package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/g8rswimmer/go-twitter/v2"
	"github.com/spacesedan/firebird/internal/clients"
	"github.com/spacesedan/firebird/internal/models"
	"github.com/spacesedan/firebird/internal/processing"
)

// Recent search page size bounds.
const (
	MIN_PAGE_SIZE = 10
	MAX_PAGE_SIZE = 100
)

type recentSearcher interface {
	TweetRecentSearch(ctx context.Context, query string, opts twitter.TweetRecentSearchOpts) (*twitter.TweetRecentSearchResponse, error)
}

// TwitterFeed searches recent posts through the v2 API.
type TwitterFeed struct {
	client  recentSearcher
	backoff time.Duration
}

func NewTwitterFeed(client recentSearcher) *TwitterFeed {
	return &TwitterFeed{client: client, backoff: clients.INITIAL_BACKOFF}
}

// Search returns a lazy iterator over at most maxResults posts matching query
// created at or after since. No request is made until Next is called.
func (f *TwitterFeed) Search(ctx context.Context, query string, maxResults int, since time.Time) (processing.PostIterator, error) {
	if query == "" {
		return nil, errors.New("[TwitterFeed] empty search query")
	}

	opts := twitter.TweetRecentSearchOpts{
		TweetFields: []twitter.TweetField{twitter.TweetFieldCreatedAt, twitter.TweetFieldLanguage, twitter.TweetFieldGeo},
		Expansions:  []twitter.Expansion{twitter.ExpansionGeoPlaceID},
		PlaceFields: []twitter.PlaceField{twitter.PlaceFieldID, twitter.PlaceFieldFullName},
	}
	if !since.IsZero() {
		opts.StartTime = since.UTC()
	}

	return &tweetIterator{
		ctx:       ctx,
		feed:      f,
		query:     query,
		opts:      opts,
		remaining: max(maxResults, 0),
	}, nil
}

type tweetIterator struct {
	ctx       context.Context
	feed      *TwitterFeed
	query     string
	opts      twitter.TweetRecentSearchOpts
	remaining int
	buffer    []models.Post
	lastPage  bool
	err       error
}

// Next returns io.EOF once the limit is reached or the results run out. An
// error is sticky: the iterator cannot be restarted.
func (it *tweetIterator) Next() (models.Post, error) {
	if it.err != nil {
		return models.Post{}, it.err
	}

	for len(it.buffer) == 0 {
		if it.remaining == 0 || it.lastPage {
			it.err = io.EOF
			return models.Post{}, it.err
		}
		if err := it.fetchPage(); err != nil {
			it.err = err
			return models.Post{}, err
		}
	}

	post := it.buffer[0]
	it.buffer = it.buffer[1:]
	it.remaining--
	return post, nil
}

func (it *tweetIterator) fetchPage() error {
	it.opts.MaxResults = min(max(it.remaining, MIN_PAGE_SIZE), MAX_PAGE_SIZE)

	resp, err := it.feed.searchWithRetry(it.ctx, it.query, it.opts)
	if err != nil {
		return fmt.Errorf("[TwitterFeed] recent search for %q failed: %w", it.query, err)
	}

	var tweets []*twitter.TweetObj
	places := map[string]string{}
	if resp.Raw != nil {
		tweets = resp.Raw.Tweets
		if resp.Raw.Includes != nil {
			for _, place := range resp.Raw.Includes.Places {
				if place != nil {
					places[place.ID] = place.FullName
				}
			}
		}
	}

	for _, tweet := range tweets {
		if tweet == nil {
			continue
		}
		it.buffer = append(it.buffer, toPost(tweet, places))
	}
	if len(it.buffer) > it.remaining {
		it.buffer = it.buffer[:it.remaining]
	}

	if resp.Meta == nil || resp.Meta.NextToken == "" {
		it.lastPage = true
	} else {
		it.opts.NextToken = resp.Meta.NextToken
	}

	slog.Debug("[TwitterFeed] Page fetched",
		slog.String("query", it.query),
		slog.Int("posts", len(tweets)),
		slog.Bool("last_page", it.lastPage))
	return nil
}

func toPost(tweet *twitter.TweetObj, places map[string]string) models.Post {
	post := models.Post{
		ID:   tweet.ID,
		Text: tweet.Text,
		Lang: tweet.Language,
	}
	if created, err := time.Parse(time.RFC3339, tweet.CreatedAt); err == nil {
		post.CreatedAt = created
	}
	if tweet.Geo != nil {
		post.Location = places[tweet.Geo.PlaceID]
	}
	return post
}

func (f *TwitterFeed) searchWithRetry(ctx context.Context, query string, opts twitter.TweetRecentSearchOpts) (*twitter.TweetRecentSearchResponse, error) {
	backoff := f.backoff
	var err error

	for attempt := 0; attempt < clients.MAX_RETRIES; attempt++ {
		var resp *twitter.TweetRecentSearchResponse
		resp, err = f.client.TweetRecentSearch(ctx, query, opts)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) {
			return nil, err
		}

		slog.Warn("[TwitterFeed] Search failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, clients.MAX_BACKOFF)
	}
	return nil, err
}

func retryable(err error) bool {
	var errResp *twitter.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.StatusCode == http.StatusTooManyRequests || errResp.StatusCode >= 500
	}
	return false
}

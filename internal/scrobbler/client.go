package scrobbler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobbler/pkg/lastfm"
)

// Client drives the account half of the Last.fm API for the CLI: the
// desktop auth flow, now playing updates and queue submission.
type Client struct {
	client *lastfm.Client
	logger zerolog.Logger
}

// FlushResult reports what a Flush submitted.
type FlushResult struct {
	Batches  int
	Accepted int
	Ignored  int
}

// New wraps an API client.
func New(client *lastfm.Client, logger zerolog.Logger) *Client {
	return &Client{client: client, logger: logger}
}

// BeginAuth requests a token and returns it with the URL the user must
// visit to authorize it.
func (c *Client) BeginAuth(ctx context.Context) (token string, authURL string, err error) {
	t, err := c.client.Auth().GetToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to get auth token: %w", err)
	}
	return t.Token, c.client.Auth().GetAuthURL(t.Token), nil
}

// CompleteAuth exchanges an authorized token for a session and installs
// its key on the client.
func (c *Client) CompleteAuth(ctx context.Context, token string) (*lastfm.Session, error) {
	session, err := c.client.Auth().GetSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session.Key == "" {
		return nil, errors.New("received empty session key")
	}

	c.client.SetSessionKey(session.Key)
	c.logger.Info().Str("user", session.Username).Msg("authenticated")
	return session, nil
}

// IsAuthenticated reports whether a session key is set.
func (c *Client) IsAuthenticated() bool {
	return c.client.GetSessionKey() != ""
}

// NowPlaying announces a play without scrobbling it.
func (c *Client) NowPlaying(ctx context.Context, p Play) (*lastfm.NowPlayingResponse, error) {
	resp, err := c.client.Scrobble().UpdateNowPlaying(ctx, toScrobbleTrack(p))
	if err != nil {
		return nil, fmt.Errorf("failed to update now playing: %w", err)
	}
	if resp.IgnoredMessage.Code != 0 {
		c.logger.Warn().
			Int("code", resp.IgnoredMessage.Code).
			Str("reason", resp.IgnoredMessage.Text).
			Msg("now playing ignored")
	}
	return resp, nil
}

// Flush submits pending plays in batches of lastfm.MaxBatchSize until
// the queue is drained. Plays Last.fm ignores are marked submitted with
// the reason recorded. A failed batch is left pending with its error and
// stops the flush.
func (c *Client) Flush(ctx context.Context, q *Queue) (FlushResult, error) {
	var result FlushResult

	for {
		pending, err := q.Pending(ctx, lastfm.MaxBatchSize)
		if err != nil {
			return result, err
		}
		if len(pending) == 0 {
			return result, nil
		}

		batch := make([]lastfm.Scrobble, len(pending))
		ids := make([]int64, len(pending))
		for i, p := range pending {
			batch[i] = lastfm.Scrobble{Track: toScrobbleTrack(p.Play), Timestamp: p.Timestamp}
			ids[i] = p.ID
		}

		resp, err := c.client.Scrobble().ScrobbleBatch(ctx, batch)
		if err != nil {
			if markErr := q.MarkFailed(ctx, ids, err.Error()); markErr != nil {
				c.logger.Error().Err(markErr).Msg("failed to record batch error")
			}
			return result, fmt.Errorf("failed to scrobble batch: %w", err)
		}
		result.Batches++

		if err := c.markBatch(ctx, q, ids, resp, &result); err != nil {
			return result, err
		}

		c.logger.Debug().
			Int("size", len(batch)).
			Int("accepted", resp.Accepted).
			Int("ignored", resp.Ignored).
			Msg("batch submitted")
	}
}

// markBatch records per-play outcomes. Results are matched to plays by
// position when Last.fm returns one per play.
func (c *Client) markBatch(ctx context.Context, q *Queue, ids []int64, resp *lastfm.ScrobbleResponse, result *FlushResult) error {
	if len(resp.Scrobbles) != len(ids) {
		result.Accepted += resp.Accepted
		result.Ignored += resp.Ignored
		return q.MarkSubmitted(ctx, ids, "")
	}

	var accepted []int64
	for i, s := range resp.Scrobbles {
		if s.IgnoredMessage.Code == 0 {
			accepted = append(accepted, ids[i])
			continue
		}
		result.Ignored++
		note := fmt.Sprintf("ignored (%d): %s", s.IgnoredMessage.Code, s.IgnoredMessage.Text)
		c.logger.Warn().Int64("id", ids[i]).Str("artist", s.Artist).Str("track", s.Track).Msg(note)
		if err := q.MarkSubmitted(ctx, []int64{ids[i]}, note); err != nil {
			return err
		}
	}
	result.Accepted += len(accepted)
	return q.MarkSubmitted(ctx, accepted, "")
}

func toScrobbleTrack(p Play) lastfm.ScrobbleTrack {
	return lastfm.ScrobbleTrack{
		Artist:      p.Artist,
		Track:       p.Track,
		Album:       p.Album,
		AlbumArtist: p.AlbumArtist,
		Duration:    int(p.Duration.Seconds()),
	}
}

// Package scrape turns public Telegram channel pages into sequences of raw
// posts. A headless browser scrolls the channel's preview page until no new
// messages load, then the rendered HTML is parsed into posts.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// DefaultMaxPollRounds bounds how many scroll-and-recount rounds one
	// fetch performs.
	DefaultMaxPollRounds = 500

	// stallThreshold is how many consecutive rounds without message growth
	// mean the channel has no more history to load. Tunable, not a
	// contract.
	stallThreshold = 3

	// pollDelay gives the page time to load another batch of messages.
	pollDelay = time.Second
)

// RawPost is one scraped item before normalization. Empty strings stand in
// for values the page did not have.
type RawPost struct {
	Text      string
	Timestamp string
	Link      string
}

// Source yields raw posts from one external feed. Implementations must be
// safe to run concurrently with other sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawPost, error)
}

// ChannelSource scrapes one Telegram channel via its t.me/s preview page.
type ChannelSource struct {
	channel       string
	maxPollRounds int
	log           *slog.Logger
}

// NewChannelSource builds a source for the named channel (for example
// "rian_ru").
func NewChannelSource(channel string, maxPollRounds int, log *slog.Logger) *ChannelSource {
	if maxPollRounds <= 0 {
		maxPollRounds = DefaultMaxPollRounds
	}
	return &ChannelSource{channel: channel, maxPollRounds: maxPollRounds, log: log}
}

// Name returns the channel name.
func (s *ChannelSource) Name() string {
	return s.channel
}

// URL returns the public preview page for the channel.
func (s *ChannelSource) URL() string {
	return fmt.Sprintf("https://t.me/s/%s", s.channel)
}

// Fetch loads the channel page, scrolls to the top repeatedly so older
// messages load, and stops once maxPollRounds is reached or more than
// stallThreshold consecutive polls saw no new messages. The rendered page
// is then parsed into raw posts.
func (s *ChannelSource) Fetch(ctx context.Context) ([]RawPost, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.URL()),
		chromedp.WaitReady("body"),
		chromedp.Sleep(pollDelay),
	); err != nil {
		return nil, &FetchError{Channel: s.channel, Message: "open channel page", Cause: err}
	}

	lastCount := 0
	stalled := 0

	for round := 0; round < s.maxPollRounds; round++ {
		var html string
		if err := chromedp.Run(browserCtx,
			chromedp.Evaluate(`window.scrollTo(0, 0);`, nil),
			chromedp.Sleep(pollDelay),
			chromedp.OuterHTML("html", &html),
		); err != nil {
			return nil, &FetchError{Channel: s.channel, Message: "scroll channel page", Cause: err}
		}

		count, err := CountMessages(html)
		if err != nil {
			return nil, &FetchError{Channel: s.channel, Message: "count messages", Cause: err}
		}

		if s.log != nil {
			s.log.Debug("poll round",
				slog.String("channel", s.channel),
				slog.Int("round", round+1),
				slog.Int("messages", count))
		}

		if count == lastCount {
			stalled++
			if stalled > stallThreshold {
				break
			}
		} else {
			stalled = 0
		}
		lastCount = count
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return nil, &FetchError{Channel: s.channel, Message: "read channel page", Cause: err}
	}

	posts, err := ParseMessages(html)
	if err != nil {
		return nil, &FetchError{Channel: s.channel, Message: "parse messages", Cause: err}
	}

	if s.log != nil {
		s.log.Info("channel fetched",
			slog.String("channel", s.channel),
			slog.Int("posts", len(posts)))
	}
	return posts, nil
}

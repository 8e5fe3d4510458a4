package course

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sosodev/duration"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

var (
	ErrUnsupportedVideoLink = errors.New("unsupported video link")
	ErrVideoNotFound        = errors.New("video is unavailable")
	ErrBadISODuration       = errors.New("malformed ISO-8601 duration")
)

// VideoResolver reports the play length of a video link.
type VideoResolver interface {
	Resolve(ctx context.Context, link string) (time.Duration, error)
}

type YouTubeResolver struct {
	service *youtube.Service
}

func NewYouTubeResolver(ctx context.Context, apiKey string) (*YouTubeResolver, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube client: %w", err)
	}
	return &YouTubeResolver{service: svc}, nil
}

func (y *YouTubeResolver) Resolve(ctx context.Context, link string) (time.Duration, error) {
	id, err := YouTubeVideoID(link)
	if err != nil {
		return 0, err
	}

	resp, err := y.service.Videos.List([]string{"contentDetails"}).Id(id).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("youtube lookup: %w", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].ContentDetails == nil {
		return 0, ErrVideoNotFound
	}
	return ParseISODuration(resp.Items[0].ContentDetails.Duration)
}

// YouTubeVideoID extracts the video id from the watch, short, embed and
// youtu.be link forms.
func YouTubeVideoID(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil || u.Host == "" {
		return "", ErrUnsupportedVideoLink
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	var id string
	switch host {
	case "youtu.be":
		id = segments[0]
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch segments[0] {
		case "watch":
			id = u.Query().Get("v")
		case "embed", "shorts", "live", "v":
			if len(segments) > 1 {
				id = segments[1]
			}
		}
	}

	if id == "" {
		return "", ErrUnsupportedVideoLink
	}
	return id, nil
}

// ParseISODuration converts the ISO-8601 duration YouTube reports, such as
// PT1H2M3S, into a time.Duration.
func ParseISODuration(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "P") || len(s) < 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadISODuration, s)
	}
	d, err := duration.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadISODuration, s, err)
	}
	return d.ToTimeDuration(), nil
}

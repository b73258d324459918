package calendar

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"staysphere/internal/domain/booking"
	"staysphere/internal/domain/property"
	"staysphere/internal/pkg/dates"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	maxFeeds       = 10
	fetchParallel  = 4
	defaultHorizon = 365 * 24 * time.Hour
)

type PropertyFeeds interface {
	GetByID(ctx context.Context, id int64) (*property.Property, error)
	SetCalendarFeeds(ctx context.Context, id int64, feeds []string) error
}

type BookingWindows interface {
	BusyWindows(ctx context.Context, propertyID int64, from, to time.Time) ([]booking.Window, error)
}

type Service struct {
	cache      *Cache
	fetcher    Fetcher
	properties PropertyFeeds
	bookings   BookingWindows
	maxAge     time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(cache *Cache, fetcher Fetcher, properties PropertyFeeds, bookings BookingWindows, maxAge time.Duration, logger *zap.Logger) *Service {
	return &Service{
		cache:      cache,
		fetcher:    fetcher,
		properties: properties,
		bookings:   bookings,
		maxAge:     maxAge,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetFeeds replaces the property's feed list and refreshes the cache from it.
func (s *Service) SetFeeds(ctx context.Context, propertyID, callerID int64, isAdmin bool, urls []string) (*SyncResult, error) {
	clean, err := normalizeFeeds(urls)
	if err != nil {
		return nil, err
	}
	p, err := s.ownedProperty(ctx, propertyID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	if err := s.properties.SetCalendarFeeds(ctx, p.ID, clean); err != nil {
		return nil, err
	}
	p.CalendarFeeds = clean

	s.cache.Invalidate(p.ID)
	return s.refresh(ctx, p), nil
}

// Sync refetches every feed of the property now.
func (s *Service) Sync(ctx context.Context, propertyID, callerID int64, isAdmin bool) (*SyncResult, error) {
	p, err := s.ownedProperty(ctx, propertyID, callerID, isAdmin)
	if err != nil {
		return nil, err
	}
	return s.refresh(ctx, p), nil
}

// BusyWindows merges bookings with cached feed events intersecting [from, to).
// A stale cache is refreshed first; a failed refresh serves what is cached.
func (s *Service) BusyWindows(ctx context.Context, propertyID int64, from, to string) ([]Busy, error) {
	start, end, err := s.parseRange(from, to)
	if err != nil {
		return nil, err
	}
	p, err := s.loadProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return s.collect(ctx, p, start, end)
}

// Export renders the next year of busy spans as text/calendar.
func (s *Service) Export(ctx context.Context, propertyID int64) (string, error) {
	p, err := s.loadProperty(ctx, propertyID)
	if err != nil {
		return "", err
	}
	now := s.now()
	start := now.Truncate(24 * time.Hour)
	spans, err := s.collect(ctx, p, start, start.Add(defaultHorizon))
	if err != nil {
		return "", err
	}
	return Export(p.ID, spans, now), nil
}

func (s *Service) collect(ctx context.Context, p *property.Property, from, to time.Time) ([]Busy, error) {
	windows, err := s.bookings.BusyWindows(ctx, p.ID, from, to)
	if err != nil {
		return nil, err
	}

	if len(p.CalendarFeeds) > 0 && !s.cache.IsFresh(p.ID, s.maxAge) {
		s.refresh(ctx, p)
	}

	out := make([]Busy, 0, len(windows))
	for _, w := range windows {
		out = append(out, Busy{Start: w.Start, End: w.End, Source: SourceBooking, BookingID: w.BookingID})
	}
	if entry, ok := s.cache.Get(p.ID); ok {
		for _, ev := range entry.Events {
			if booking.Overlaps(ev.Start, ev.End, from, to) {
				out = append(out, Busy{Start: ev.Start, End: ev.End, Source: SourceExternal, UID: ev.UID, Summary: ev.Summary})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

// refresh fetches all feeds concurrently. Feeds that fail are logged and left
// out of the merge. When every feed fails the cached entry is kept as is.
func (s *Service) refresh(ctx context.Context, p *property.Property) *SyncResult {
	feeds := make([]Feed, len(p.CalendarFeeds))
	ok := make([]bool, len(p.CalendarFeeds))

	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallel)
	for i, u := range p.CalendarFeeds {
		g.Go(func() error {
			events, err := s.fetcher.Fetch(gctx, u)
			if err != nil {
				s.logger.Warn("calendar feed fetch failed",
					zap.Int64("property_id", p.ID),
					zap.String("url", u),
					zap.Error(err),
				)
				mu.Lock()
				failed = append(failed, u)
				mu.Unlock()
				return nil
			}
			feeds[i] = Feed{URL: u, Events: events}
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	fetched := make([]Feed, 0, len(feeds))
	for i, f := range feeds {
		if ok[i] {
			fetched = append(fetched, f)
		}
	}
	// nothing fetched: keep the previous events and leave the entry stale
	if len(fetched) > 0 || len(p.CalendarFeeds) == 0 {
		s.cache.UpsertMerged(p.ID, p.CalendarFeeds, fetched)
	}

	entry, _ := s.cache.Get(p.ID)
	sort.Strings(failed)
	s.logger.Info("calendar synced",
		zap.Int64("property_id", p.ID),
		zap.Int("feeds", len(fetched)),
		zap.Int("failed", len(failed)),
		zap.Int("events", len(entry.Events)),
	)
	return &SyncResult{PropertyID: p.ID, Entry: entry, Failed: failed}
}

func (s *Service) ownedProperty(ctx context.Context, id, callerID int64, isAdmin bool) (*property.Property, error) {
	p, err := s.loadProperty(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.OwnerID != callerID {
		return nil, ErrNotPropertyOwner
	}
	return p, nil
}

func (s *Service) loadProperty(ctx context.Context, id int64) (*property.Property, error) {
	p, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, property.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

// parseRange defaults to the coming 90 days.
func (s *Service) parseRange(from, to string) (time.Time, time.Time, error) {
	start := s.now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, 90)
	var err error
	if strings.TrimSpace(from) != "" {
		if start, err = dates.Parse(from); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		end = start.AddDate(0, 0, 90)
	}
	if strings.TrimSpace(to) != "" {
		if end, err = dates.Parse(to); err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, ErrInvalidRange
	}
	return start, end, nil
}

func normalizeFeeds(urls []string) ([]string, error) {
	if len(urls) > maxFeeds {
		return nil, ErrTooManyFeeds
	}
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, ErrInvalidFeedURL
		}
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		out = append(out, raw)
	}
	return out, nil
}

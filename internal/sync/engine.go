package sync

import (
	"context"
	"log/slog"
	stdsync "sync"
	"time"

	"wallmirror/internal/cache"
	"wallmirror/internal/config"
	"wallmirror/internal/middleware"
	"wallmirror/internal/models"
	"wallmirror/internal/observability"
	"wallmirror/internal/repository"
	"wallmirror/internal/vk"
)

// Source is the paginated remote feed the engine consumes.
type Source interface {
	WallGet(ctx context.Context, owner string, count, offset int) (*vk.WallPage, error)
}

// Options controls one synchronization pass.
type Options struct {
	// Limit is the total number of posts to process; non-positive values
	// use the configured default.
	Limit int
	// Offset is the feed position to start from.
	Offset int
}

// Result summarizes one completed pass. Fetched counts every processed post
// regardless of classification and drives the pagination stop decision.
type Result struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Fetched int `json:"fetched"`
}

// Engine walks pages of remote posts, classifies each against the local
// store, applies idempotent upserts and side-loads attached media. A pass is
// a single sequential walk; the mutex is the single-flight guard between the
// scheduler and the on-demand admin trigger.
type Engine struct {
	source       Source
	posts        repository.PostRepository
	state        repository.SyncStateRepository
	loader       MediaLoader
	owner        string
	defaultLimit int
	publicURL    string
	logger       *slog.Logger

	mu stdsync.Mutex
}

// NewEngine wires the engine from its collaborators and configuration.
func NewEngine(source Source, posts repository.PostRepository, state repository.SyncStateRepository, loader MediaLoader, cfg *config.Config) *Engine {
	return &Engine{
		source:       source,
		posts:        posts,
		state:        state,
		loader:       loader,
		owner:        cfg.OwnerID,
		defaultLimit: cfg.SyncLimit,
		publicURL:    cfg.PublicUploadsURL,
		logger:       middleware.Logger,
	}
}

// Run executes one synchronization pass. On failure the accumulated counts
// are discarded and only the error is returned; the bookkeeping row is
// written either way. A second concurrent invocation fails fast instead of
// queueing.
func (e *Engine) Run(ctx context.Context, opts Options) (*Result, error) {
	if e.owner == "" {
		return nil, models.NewConfigurationError("OWNER_ID is required")
	}

	if !e.mu.TryLock() {
		return nil, models.NewSyncInProgressError()
	}
	defer e.mu.Unlock()

	ctx, span := observability.Tracer.Start(ctx, "sync.run")
	defer span.End()

	limit := opts.Limit
	if limit <= 0 {
		limit = e.defaultLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	res := &Result{}
	err := e.walk(ctx, limit, offset, res)

	// Bookkeeping runs even when the pass failed mid-way.
	e.recordState(context.WithoutCancel(ctx))

	if err != nil {
		outcome := string(models.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		middleware.SyncRuns.WithLabelValues(outcome).Inc()
		span.RecordError(err)
		return nil, err
	}

	middleware.SyncRuns.WithLabelValues("ok").Inc()
	cache.InvalidateFeed(ctx)

	e.logger.InfoContext(ctx, "sync finished",
		slog.Int("created", res.Created),
		slog.Int("updated", res.Updated),
		slog.Int("fetched", res.Fetched),
	)
	return res, nil
}

// walk drives the pagination loop: pages of up to the API maximum until the
// limit is reached, the source returns a short page, or the feed is empty.
func (e *Engine) walk(ctx context.Context, limit, offset int, res *Result) error {
	for res.Fetched < limit {
		count := vk.MaxPageSize
		if remaining := limit - res.Fetched; remaining < count {
			count = remaining
		}

		page, err := e.source.WallGet(ctx, e.owner, count, offset)
		if err != nil {
			return err
		}
		if len(page.Items) == 0 {
			break
		}

		for _, item := range page.Items {
			if err := e.processPost(ctx, item, page.Groups, res); err != nil {
				return err
			}
			res.Fetched++
			if res.Fetched >= limit {
				break
			}
		}

		offset += len(page.Items)
		if len(page.Items) < count {
			// Short page: end of feed.
			break
		}
	}
	return nil
}

func (e *Engine) processPost(ctx context.Context, item vk.WallPost, groups []vk.Group, res *Result) error {
	resolved := Resolve(item, groups)
	now := time.Now().UTC()

	existing, err := e.posts.GetByID(ctx, resolved.ID)
	if err != nil {
		return err
	}

	switch {
	case existing == nil:
		res.Created++
		middleware.PostsSynced.WithLabelValues("created").Inc()
	case existing.Date.Unix() != resolved.Date.Unix() ||
		!strPtrEqual(existing.Text, resolved.Text) ||
		!strPtrEqual(existing.RepostSourceName, resolved.SourceName):
		res.Updated++
		middleware.PostsSynced.WithLabelValues("updated").Inc()
	default:
		middleware.PostsSynced.WithLabelValues("unchanged").Inc()
	}

	if err := e.posts.Upsert(ctx, &models.Post{
		PostID:           resolved.ID,
		Date:             resolved.Date,
		Text:             resolved.Text,
		RepostSourceName: resolved.SourceName,
		CreatedAt:        now,
		UpdatedAt:        now,
	}); err != nil {
		return err
	}

	// The image set is fully replaced every pass so it always reflects the
	// latest revision of the post.
	if err := e.posts.DeleteImages(ctx, resolved.ID); err != nil {
		return err
	}

	for idx, img := range resolved.Images {
		if img.URL == "" {
			continue
		}
		filename := ImageFilename(resolved.ID, idx, img.URL)
		if _, err := e.loader.Download(ctx, img.URL, filename); err != nil {
			// Media failures are non-fatal to the post's own upsert.
			middleware.ImageDownloads.WithLabelValues("failed").Inc()
			e.logger.WarnContext(ctx, "image side-load failed",
				slog.Int64("post_id", resolved.ID),
				slog.String("url", img.URL),
				slog.String("error", err.Error()),
			)
			continue
		}
		middleware.ImageDownloads.WithLabelValues("ok").Inc()

		if err := e.posts.AddImage(ctx, &models.PostImage{
			PostID: resolved.ID,
			URL:    e.publicURL + "/" + filename,
			Width:  img.Width,
			Height: img.Height,
		}); err != nil {
			return err
		}
	}

	// Audio rows are appended per occurrence, never cleared first.
	for _, a := range resolved.Audio {
		if a.URL == "" {
			continue
		}
		if err := e.posts.AddAudio(ctx, &models.PostAudio{
			PostID: resolved.ID,
			URL:    a.URL,
			Title:  a.Title,
			Artist: a.Artist,
		}); err != nil {
			return err
		}
	}

	return nil
}

// recordState overwrites the singleton bookkeeping row with the run time and
// the chronologically latest stored post. Best-effort; failures are logged.
func (e *Engine) recordState(ctx context.Context) {
	state := &models.SyncState{LastRunAt: time.Now().UTC()}

	latest, err := e.posts.Latest(ctx)
	if err != nil {
		e.logger.ErrorContext(ctx, "load latest post for sync state", slog.String("error", err.Error()))
	} else if latest != nil {
		date := latest.Date
		id := latest.PostID
		state.LastSeenPostDate = &date
		state.LastSeenPostID = &id
	}

	if err := e.state.Upsert(ctx, state); err != nil {
		e.logger.ErrorContext(ctx, "record sync state", slog.String("error", err.Error()))
	}
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

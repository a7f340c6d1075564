// Package seed provides helpers to create demo wall data for development.
// The seeded rows look like the output of a real synchronization pass so the
// feed API can be exercised without a remote token.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"wallmirror/internal/models"
	"wallmirror/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPosts    int
	ShouldClean bool
	// MaxDays bounds how far back post dates are spread.
	MaxDays int
}

// Seeder builds fake mirrored posts and persists them through the repository
// layer, so seeded data obeys the same upsert rules as synced data.
type Seeder struct {
	db    *gorm.DB
	posts repository.PostRepository
	state repository.SyncStateRepository
	rng   *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:    db,
		posts: repository.NewPostRepository(db),
		state: repository.NewSyncStateRepository(db),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes every mirrored row, attachments included.
func (s *Seeder) ClearAll() error {
	for _, model := range []any{
		&models.PostImage{},
		&models.PostAudio{},
		&models.Post{},
		&models.SyncState{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}

// Seed populates the store with opts.NumPosts fake posts and records a
// matching sync state.
func (s *Seeder) Seed(ctx context.Context, opts Options) error {
	if opts.NumPosts <= 0 {
		opts.NumPosts = 50
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	var latest *models.Post
	for i := 0; i < opts.NumPosts; i++ {
		post := s.buildPost(int64(i+1), opts.MaxDays)
		if err := s.posts.Upsert(ctx, post); err != nil {
			return err
		}

		for _, img := range s.buildImages(post.PostID) {
			if err := s.posts.AddImage(ctx, img); err != nil {
				return err
			}
		}
		for _, audio := range s.buildAudio(post.PostID) {
			if err := s.posts.AddAudio(ctx, audio); err != nil {
				return err
			}
		}

		if latest == nil || post.Date.After(latest.Date) {
			latest = post
		}
	}

	return s.state.Upsert(ctx, &models.SyncState{
		ID:               models.SyncStateID,
		LastRunAt:        time.Now().UTC(),
		LastSeenPostDate: &latest.Date,
		LastSeenPostID:   &latest.PostID,
	})
}

func (s *Seeder) buildPost(id int64, maxDays int) *models.Post {
	daysBack := s.rng.Intn(maxDays)
	hoursBack := s.rng.Intn(24)
	date := time.Now().UTC().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour).
		Truncate(time.Second)

	post := &models.Post{
		PostID: id,
		Date:   date,
	}

	// Roughly a third of posts are reposts carrying a source name.
	if s.rng.Intn(3) == 0 {
		name := gofakeit.Company()
		post.RepostSourceName = &name
	}

	// Most posts carry text; a few are media-only.
	if s.rng.Intn(5) != 0 {
		text := gofakeit.Paragraph(1, 2, 8, "\n")
		post.Text = &text
	}

	return post
}

func (s *Seeder) buildImages(postID int64) []*models.PostImage {
	n := s.rng.Intn(4)
	images := make([]*models.PostImage, 0, n)
	for i := 0; i < n; i++ {
		w := 400 + s.rng.Intn(1200)
		h := 300 + s.rng.Intn(900)
		images = append(images, &models.PostImage{
			PostID: postID,
			URL:    fmt.Sprintf("/uploads/%d_%d_%s.jpg", postID, i, gofakeit.UUID()),
			Width:  &w,
			Height: &h,
		})
	}
	return images
}

func (s *Seeder) buildAudio(postID int64) []*models.PostAudio {
	if s.rng.Intn(4) != 0 {
		return nil
	}
	title := gofakeit.HipsterWord()
	artist := gofakeit.Name()
	return []*models.PostAudio{{
		PostID: postID,
		URL:    gofakeit.URL(),
		Title:  &title,
		Artist: &artist,
	}}
}

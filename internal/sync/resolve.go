// Package sync implements the wall synchronization engine: pagination,
// change detection, idempotent upserts, and media side-loading.
package sync

import (
	"time"

	"wallmirror/internal/vk"
)

// ResolvedImage is the single best-resolution variant chosen for a photo
// attachment.
type ResolvedImage struct {
	URL    string
	Width  *int
	Height *int
}

// ResolvedAudio is an audio attachment passed through as-is.
type ResolvedAudio struct {
	URL    string
	Title  *string
	Artist *string
}

// ResolvedPost is the normalized view of a raw wall post: text and
// attachments with repost inheritance applied, and the repost source name
// resolved against the group side-table.
type ResolvedPost struct {
	ID         int64
	Date       time.Time
	Text       *string
	SourceName *string
	Images     []ResolvedImage
	Audio      []ResolvedAudio
}

// Resolve normalizes a raw post. Pure, no I/O.
func Resolve(post vk.WallPost, groups []vk.Group) ResolvedPost {
	resolved := ResolvedPost{
		ID:         post.ID,
		Date:       time.Unix(post.Date, 0).UTC(),
		Text:       resolveText(post),
		SourceName: resolveSourceName(post, groups),
	}

	for _, att := range effectiveAttachments(post) {
		switch att.Type {
		case vk.AttachmentTypePhoto:
			if att.Photo == nil {
				continue
			}
			size := largestSize(att.Photo.Sizes)
			if size == nil {
				// A photo with no size variants contributes nothing.
				continue
			}
			resolved.Images = append(resolved.Images, ResolvedImage{
				URL:    size.URL,
				Width:  optInt(size.Width),
				Height: optInt(size.Height),
			})
		case vk.AttachmentTypeAudio:
			if att.Audio == nil {
				continue
			}
			resolved.Audio = append(resolved.Audio, ResolvedAudio{
				URL:    att.Audio.URL,
				Title:  optStr(att.Audio.Title),
				Artist: optStr(att.Audio.Artist),
			})
		}
	}

	return resolved
}

// resolveText prefers the post's own text; a repost falls back to the first
// copy-history entry's text.
func resolveText(post vk.WallPost) *string {
	if post.Text != "" {
		return &post.Text
	}
	if len(post.CopyHistory) > 0 && post.CopyHistory[0].Text != "" {
		return &post.CopyHistory[0].Text
	}
	return nil
}

// resolveSourceName resolves the display name of the reposted post's owner.
// Only group owners (negative ids in the wire protocol) are resolvable;
// a repost of a personal account yields nil.
func resolveSourceName(post vk.WallPost, groups []vk.Group) *string {
	if len(post.CopyHistory) == 0 {
		return nil
	}
	owner := post.CopyHistory[0].OwnerID
	if owner >= 0 {
		return nil
	}
	groupID := -owner
	for i := range groups {
		if groups[i].ID == groupID {
			return &groups[i].Name
		}
	}
	return nil
}

// effectiveAttachments returns the post's own attachments, or, when it has
// none, the attachments of all copy-history entries flattened in order.
func effectiveAttachments(post vk.WallPost) []vk.Attachment {
	if len(post.Attachments) > 0 {
		return post.Attachments
	}
	var inherited []vk.Attachment
	for _, entry := range post.CopyHistory {
		inherited = append(inherited, entry.Attachments...)
	}
	return inherited
}

// largestSize picks the variant with the greatest width×height product.
// Ties keep the first-seen candidate (left fold, strict > comparison).
func largestSize(sizes []vk.PhotoSize) *vk.PhotoSize {
	var best *vk.PhotoSize
	for i := range sizes {
		if best == nil {
			best = &sizes[i]
			continue
		}
		if area(sizes[i]) > area(*best) {
			best = &sizes[i]
		}
	}
	return best
}

func area(s vk.PhotoSize) int {
	return s.Width * s.Height
}

func optInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

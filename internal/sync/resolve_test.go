package sync

import (
	"testing"
	"time"

	"wallmirror/internal/vk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func photoAtt(sizes ...vk.PhotoSize) vk.Attachment {
	return vk.Attachment{Type: vk.AttachmentTypePhoto, Photo: &vk.Photo{Sizes: sizes}}
}

func audioAtt(url, title, artist string) vk.Attachment {
	return vk.Attachment{Type: vk.AttachmentTypeAudio, Audio: &vk.Audio{URL: url, Title: title, Artist: artist}}
}

func TestLargestSize(t *testing.T) {
	tests := []struct {
		name    string
		sizes   []vk.PhotoSize
		wantURL string
	}{
		{
			name:    "no variants",
			sizes:   nil,
			wantURL: "",
		},
		{
			name: "strictly larger later variant wins",
			sizes: []vk.PhotoSize{
				{URL: "small", Width: 100, Height: 100},
				{URL: "wide", Width: 200, Height: 50},
				{URL: "tall", Width: 80, Height: 300},
			},
			wantURL: "tall",
		},
		{
			name: "equal products keep the first-seen variant",
			sizes: []vk.PhotoSize{
				{URL: "first", Width: 100, Height: 100},
				{URL: "second", Width: 200, Height: 50},
			},
			wantURL: "first",
		},
		{
			name: "missing dimensions count as zero",
			sizes: []vk.PhotoSize{
				{URL: "nodims"},
				{URL: "real", Width: 10, Height: 10},
			},
			wantURL: "real",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := largestSize(tt.sizes)
			if tt.wantURL == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestResolve_TextFallback(t *testing.T) {
	tests := []struct {
		name string
		post vk.WallPost
		want *string
	}{
		{
			name: "own text wins",
			post: vk.WallPost{Text: "mine", CopyHistory: []vk.WallPost{{Text: "theirs"}}},
			want: strPtr("mine"),
		},
		{
			name: "repost falls back to first copy-history entry",
			post: vk.WallPost{CopyHistory: []vk.WallPost{{Text: "theirs"}, {Text: "older"}}},
			want: strPtr("theirs"),
		},
		{
			name: "empty everywhere yields nil",
			post: vk.WallPost{CopyHistory: []vk.WallPost{{Text: ""}}},
			want: nil,
		},
		{
			name: "plain post without text yields nil",
			post: vk.WallPost{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.post, nil)
			if tt.want == nil {
				assert.Nil(t, got.Text)
			} else {
				require.NotNil(t, got.Text)
				assert.Equal(t, *tt.want, *got.Text)
			}
		})
	}
}

func TestResolve_SourceName(t *testing.T) {
	groups := []vk.Group{{ID: 77, Name: "Some Group"}, {ID: 88, Name: "Other"}}

	t.Run("group owner resolves to display name", func(t *testing.T) {
		post := vk.WallPost{CopyHistory: []vk.WallPost{{OwnerID: -77}}}
		got := Resolve(post, groups)
		require.NotNil(t, got.SourceName)
		assert.Equal(t, "Some Group", *got.SourceName)
	})

	t.Run("personal owner yields nil", func(t *testing.T) {
		post := vk.WallPost{CopyHistory: []vk.WallPost{{OwnerID: 12345}}}
		got := Resolve(post, groups)
		assert.Nil(t, got.SourceName)
	})

	t.Run("group missing from side-table yields nil", func(t *testing.T) {
		post := vk.WallPost{CopyHistory: []vk.WallPost{{OwnerID: -99}}}
		got := Resolve(post, groups)
		assert.Nil(t, got.SourceName)
	})

	t.Run("no copy-history yields nil", func(t *testing.T) {
		got := Resolve(vk.WallPost{}, groups)
		assert.Nil(t, got.SourceName)
	})
}

func TestResolve_AttachmentInheritance(t *testing.T) {
	// Own attachments win.
	own := vk.WallPost{
		Attachments: []vk.Attachment{photoAtt(vk.PhotoSize{URL: "own.jpg", Width: 1, Height: 1})},
		CopyHistory: []vk.WallPost{{Attachments: []vk.Attachment{photoAtt(vk.PhotoSize{URL: "copied.jpg", Width: 1, Height: 1})}}},
	}
	got := Resolve(own, nil)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "own.jpg", got.Images[0].URL)

	// Without own attachments, all copy-history entries are flattened in order.
	repost := vk.WallPost{
		CopyHistory: []vk.WallPost{
			{Attachments: []vk.Attachment{photoAtt(vk.PhotoSize{URL: "a.jpg", Width: 1, Height: 1})}},
			{Attachments: []vk.Attachment{photoAtt(vk.PhotoSize{URL: "b.jpg", Width: 1, Height: 1})}},
		},
	}
	got = Resolve(repost, nil)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "a.jpg", got.Images[0].URL)
	assert.Equal(t, "b.jpg", got.Images[1].URL)
}

func TestResolve_Audio(t *testing.T) {
	post := vk.WallPost{
		Attachments: []vk.Attachment{
			audioAtt("https://cdn/a.mp3", "Track", "Band"),
			audioAtt("https://cdn/b.mp3", "", ""),
		},
	}
	got := Resolve(post, nil)
	require.Len(t, got.Audio, 2)
	require.NotNil(t, got.Audio[0].Title)
	assert.Equal(t, "Track", *got.Audio[0].Title)
	assert.Nil(t, got.Audio[1].Title)
	assert.Nil(t, got.Audio[1].Artist)
}

func TestResolve_PhotoWithoutVariantsContributesNothing(t *testing.T) {
	post := vk.WallPost{Attachments: []vk.Attachment{photoAtt()}}
	got := Resolve(post, nil)
	assert.Empty(t, got.Images)
}

func TestResolve_Date(t *testing.T) {
	got := Resolve(vk.WallPost{ID: 1, Date: 1700000000}, nil)
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), got.Date)
}

func strPtr(s string) *string { return &s }

package vk

// PhotoSize is one resolution variant of a photo attachment.
type PhotoSize struct {
	Type   string `json:"type"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Photo is the payload of a photo-type attachment.
type Photo struct {
	ID    int64       `json:"id"`
	Sizes []PhotoSize `json:"sizes"`
}

// Audio is the payload of an audio-type attachment.
type Audio struct {
	ID     int64  `json:"id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Attachment is a typed attachment on a wall post. Exactly one of the
// payload fields is set, matching Type.
type Attachment struct {
	Type  string `json:"type"`
	Photo *Photo `json:"photo,omitempty"`
	Audio *Audio `json:"audio,omitempty"`
}

// WallPost is a single feed entry. CopyHistory is non-empty when the post
// re-shares an original post from another owning entity; group owners are
// represented by negative OwnerID values.
type WallPost struct {
	ID          int64        `json:"id"`
	OwnerID     int64        `json:"owner_id"`
	FromID      int64        `json:"from_id"`
	Date        int64        `json:"date"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
	CopyHistory []WallPost   `json:"copy_history"`
}

// Group is a descriptor for a group/page referenced by id from posts.
type Group struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// WallPage is one page of the wall plus the group side-table delivered in
// the same round trip (extended mode).
type WallPage struct {
	Count  int        `json:"count"`
	Items  []WallPost `json:"items"`
	Groups []Group    `json:"groups"`
}

const (
	// AttachmentTypePhoto marks photo attachments.
	AttachmentTypePhoto = "photo"
	// AttachmentTypeAudio marks audio attachments.
	AttachmentTypeAudio = "audio"
)

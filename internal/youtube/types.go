package youtube

// Raw response shapes for the Data API v3 list endpoints. Only the parts the
// pipeline requests are modelled; statistics counts arrive as decimal strings
// and stay strings here so the normalizer can distinguish "absent" from
// "present but malformed".

// RawChannel is one item of a channels.list response.
type RawChannel struct {
	ID             string                `json:"id"`
	Snippet        ChannelSnippet        `json:"snippet"`
	Statistics     ChannelStatistics     `json:"statistics"`
	ContentDetails ChannelContentDetails `json:"contentDetails"`
}

// ChannelSnippet holds the channel's display fields.
type ChannelSnippet struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChannelStatistics holds the channel's count fields.
type ChannelStatistics struct {
	ViewCount       string `json:"viewCount"`
	SubscriberCount string `json:"subscriberCount"`
	VideoCount      string `json:"videoCount"`
}

// ChannelContentDetails carries the related-playlist references.
type ChannelContentDetails struct {
	RelatedPlaylists RelatedPlaylists `json:"relatedPlaylists"`
}

// RelatedPlaylists holds the platform-managed playlist ids for a channel.
type RelatedPlaylists struct {
	Uploads string `json:"uploads"`
}

// RawVideo is one item of a videos.list response.
type RawVideo struct {
	ID             string              `json:"id"`
	Snippet        VideoSnippet        `json:"snippet"`
	Statistics     VideoStatistics     `json:"statistics"`
	ContentDetails VideoContentDetails `json:"contentDetails"`
}

// VideoSnippet holds the video's display fields.
type VideoSnippet struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PublishedAt string     `json:"publishedAt"`
	Tags        []string   `json:"tags"`
	Thumbnails  Thumbnails `json:"thumbnails"`
}

// Thumbnails holds the thumbnail variants the pipeline cares about.
type Thumbnails struct {
	Default *Thumbnail `json:"default"`
	High    *Thumbnail `json:"high"`
}

// Thumbnail is a single thumbnail variant.
type Thumbnail struct {
	URL string `json:"url"`
}

// VideoStatistics holds the video's count fields as decimal strings.
type VideoStatistics struct {
	ViewCount     string `json:"viewCount"`
	LikeCount     string `json:"likeCount"`
	FavoriteCount string `json:"favoriteCount"`
	CommentCount  string `json:"commentCount"`
}

// VideoContentDetails holds the ISO-8601 duration and caption flag.
type VideoContentDetails struct {
	Duration string `json:"duration"`
	Caption  string `json:"caption"`
}

// RawComment is one item of a commentThreads.list response.
type RawComment struct {
	ID      string               `json:"id"`
	Snippet CommentThreadSnippet `json:"snippet"`
}

// CommentThreadSnippet nests the top-level comment of a thread.
type CommentThreadSnippet struct {
	VideoID         string          `json:"videoId"`
	TopLevelComment TopLevelComment `json:"topLevelComment"`
}

// TopLevelComment wraps the snippet of the thread's first comment.
type TopLevelComment struct {
	Snippet CommentSnippet `json:"snippet"`
}

// CommentSnippet holds the comment's display fields.
type CommentSnippet struct {
	TextDisplay       string `json:"textDisplay"`
	AuthorDisplayName string `json:"authorDisplayName"`
	PublishedAt       string `json:"publishedAt"`
}

// List envelopes.

type searchListResponse struct {
	Items         []searchResult `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

type searchResult struct {
	ID searchResultID `json:"id"`
}

type searchResultID struct {
	Kind      string `json:"kind"`
	ChannelID string `json:"channelId"`
}

type channelListResponse struct {
	Items []RawChannel `json:"items"`
}

type playlistItemListResponse struct {
	Items         []playlistItem `json:"items"`
	NextPageToken string         `json:"nextPageToken"`
}

type playlistItem struct {
	ContentDetails playlistItemContentDetails `json:"contentDetails"`
}

type playlistItemContentDetails struct {
	VideoID string `json:"videoId"`
}

type videoListResponse struct {
	Items []RawVideo `json:"items"`
}

type commentThreadListResponse struct {
	Items         []RawComment `json:"items"`
	NextPageToken string       `json:"nextPageToken"`
}

package repository

import (
	"context"
	"fmt"

	"github.com/ytharvest/harvester/internal/db"
)

// CannedQuery is one fixed, pre-authored aggregation over the normalized
// schema. Query authoring is out of scope; this list is the whole catalogue.
type CannedQuery struct {
	Key      string
	Question string
	SQL      string
}

// QueryResult holds the rows and column names of one executed query.
type QueryResult struct {
	Question string   `json:"question"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
}

var cannedQueries = []CannedQuery{
	{
		Key:      "video_channel_names",
		Question: "What are the names of all the videos and their corresponding channels?",
		SQL: `
			SELECT c.channel_name, v.video_name
			FROM channel c
			LEFT JOIN playlist p ON c.channel_id = p.channel_id
			LEFT JOIN video v ON p.playlist_id = v.playlist_id
		`,
	},
	{
		Key:      "most_videos",
		Question: "Which channels have the most number of videos, and how many videos do they have?",
		SQL: `
			SELECT c.channel_name, COUNT(v.video_id) AS video_count
			FROM channel c
			LEFT JOIN playlist p ON c.channel_id = p.channel_id
			LEFT JOIN video v ON p.playlist_id = v.playlist_id
			GROUP BY c.channel_id
			ORDER BY video_count DESC
			LIMIT 1
		`,
	},
	{
		Key:      "top10_viewed",
		Question: "What are the top 10 most viewed videos and their respective channels?",
		SQL: `
			SELECT c.channel_name, v.video_name, v.view_count
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			ORDER BY v.view_count DESC
			LIMIT 10
		`,
	},
	{
		Key:      "comment_counts",
		Question: "How many comments were made on each video, and what are their corresponding video names?",
		SQL: `
			SELECT v.video_name, COUNT(cm.comment_id) AS comment_count
			FROM video v
			LEFT JOIN comment cm ON v.video_id = cm.video_id
			GROUP BY v.video_id
		`,
	},
	{
		Key:      "most_liked",
		Question: "Which videos have the highest number of likes, and what are their corresponding channel names?",
		SQL: `
			SELECT c.channel_name, v.video_name, v.like_count
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			ORDER BY v.like_count DESC
			LIMIT 1
		`,
	},
	{
		Key:      "likes_dislikes",
		Question: "What is the total number of likes and dislikes for each video, and what are their corresponding video names?",
		SQL: `
			SELECT video_name, like_count, dislike_count
			FROM video
		`,
	},
	{
		Key:      "channel_views",
		Question: "What is the total number of views for each channel, and what are their corresponding channel names?",
		SQL: `
			SELECT c.channel_name, SUM(v.view_count) AS total_views
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			GROUP BY c.channel_id
		`,
	},
	{
		Key:      "published_2022",
		Question: "What are the names of all the channels that have published videos in the year 2022?",
		SQL: `
			SELECT DISTINCT c.channel_name
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			WHERE EXTRACT(YEAR FROM v.published_date) = 2022
		`,
	},
	{
		Key:      "avg_duration",
		Question: "What is the average duration of all videos in each channel, and what are their corresponding channel names?",
		SQL: `
			SELECT c.channel_name, AVG(v.duration) AS avg_duration
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			GROUP BY c.channel_id
		`,
	},
	{
		Key:      "most_commented",
		Question: "Which videos have the highest number of comments, and what are their corresponding channel names?",
		SQL: `
			SELECT c.channel_name, v.video_name, COUNT(cm.comment_id) AS comment_count
			FROM channel c
			JOIN playlist p ON c.channel_id = p.channel_id
			JOIN video v ON p.playlist_id = v.playlist_id
			LEFT JOIN comment cm ON v.video_id = cm.video_id
			GROUP BY v.video_id, c.channel_name
			ORDER BY comment_count DESC
			LIMIT 1
		`,
	},
}

// QueryKeys returns the catalogue keys in presentation order.
func QueryKeys() []string {
	keys := make([]string, len(cannedQueries))
	for i, q := range cannedQueries {
		keys[i] = q.Key
	}
	return keys
}

// Queries returns the full catalogue in presentation order.
func Queries() []CannedQuery {
	out := make([]CannedQuery, len(cannedQueries))
	copy(out, cannedQueries)
	return out
}

// RunQueries executes the selected canned queries and returns their rows and
// column names keyed by query key. An unknown key fails the whole call.
func (s *Store) RunQueries(ctx context.Context, keys []string) (map[string]QueryResult, error) {
	byKey := make(map[string]CannedQuery, len(cannedQueries))
	for _, q := range cannedQueries {
		byKey[q.Key] = q
	}

	results := make(map[string]QueryResult, len(keys))

	for _, key := range keys {
		q, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("unknown query key: %s", key)
		}

		result, err := s.runQuery(ctx, q)
		if err != nil {
			return nil, err
		}
		results[key] = result
	}

	return results, nil
}

func (s *Store) runQuery(ctx context.Context, q CannedQuery) (QueryResult, error) {
	rows, err := s.pool.Query(ctx, q.SQL)
	if err != nil {
		return QueryResult{}, db.WrapError(err, "run query "+q.Key)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var data [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return QueryResult{}, db.WrapError(err, "scan query "+q.Key)
		}
		data = append(data, values)
	}

	if err := rows.Err(); err != nil {
		return QueryResult{}, db.WrapError(err, "iterate query "+q.Key)
	}

	return QueryResult{
		Question: q.Question,
		Columns:  columns,
		Rows:     data,
	}, nil
}

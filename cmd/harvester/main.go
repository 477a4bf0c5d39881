// The harvester command runs one harvest end to end: search for channels,
// fetch and normalize everything reachable from the selection, show a
// preview, and persist only after explicit confirmation.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/ytharvest/harvester/internal/config"
	"github.com/ytharvest/harvester/internal/db"
	"github.com/ytharvest/harvester/internal/db/repository"
	"github.com/ytharvest/harvester/internal/harvest"
	"github.com/ytharvest/harvester/internal/youtube"
	"github.com/ytharvest/harvester/pkg/logger"
)

func main() {
	var (
		searchTerm string
		maxResults int
		channelIDs string
		autoYes    bool
		queryKeys  string
		listKeys   bool
	)

	flag.StringVar(&searchTerm, "search", "", "Search term to discover channels")
	flag.IntVar(&maxResults, "max", 10, "Maximum number of channels from search (1-50)")
	flag.StringVar(&channelIDs, "channels", "", "Comma-separated channel ids to harvest (skips search)")
	flag.BoolVar(&autoYes, "yes", false, "Commit without the interactive confirmation prompt")
	flag.StringVar(&queryKeys, "queries", "", "Comma-separated canned query keys to run after commit")
	flag.BoolVar(&listKeys, "list-queries", false, "Print the canned query catalogue and exit")
	flag.Parse()

	if listKeys {
		for _, q := range repository.Queries() {
			fmt.Printf("%-20s %s\n", q.Key, q.Question)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	client, err := youtube.NewClient(youtube.Config{
		APIKey:            cfg.YouTube.APIKey,
		BaseURL:           cfg.YouTube.BaseURL,
		Timeout:           cfg.YouTube.Timeout,
		RequestsPerSecond: cfg.YouTube.RequestsPerSecond,
	})
	if err != nil {
		logger.Log.Fatal("failed to initialize YouTube client", zap.Error(err))
	}

	harvester := harvest.NewHarvester(client, harvest.Config{
		CommentsEnabled: cfg.Harvest.CommentsEnabled,
	}, logger.Log)

	ids := splitList(channelIDs)
	if len(ids) == 0 {
		if searchTerm == "" {
			fmt.Fprintln(os.Stderr, "either -search or -channels is required")
			os.Exit(2)
		}

		ids, err = harvester.SearchChannels(ctx, searchTerm, maxResults)
		if err != nil {
			logger.Log.Fatal("channel search failed", zap.Error(err))
		}
		if len(ids) == 0 {
			fmt.Println("no channels found for search term")
			return
		}
		fmt.Printf("found %d channel(s): %s\n", len(ids), strings.Join(ids, ", "))
	}

	snapshot, err := harvester.Harvest(ctx, ids)
	if err != nil {
		logger.Log.Fatal("harvest failed", zap.Error(err))
	}

	printPreview(snapshot)

	if !autoYes && !confirm("Insert this data into the database?") {
		fmt.Println("data not inserted")
		return
	}

	pool, err := db.NewPool(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close(pool)

	store := repository.NewStore(pool)

	result, err := store.Write(ctx, snapshot)
	if err != nil {
		logger.Log.Fatal("commit failed, store unchanged", zap.Error(err))
	}

	fmt.Printf("committed run %s: %d channels, %d playlists, %d videos, %d comments (%s)\n",
		result.RunID, result.Channels, result.Playlists, result.Videos, result.Comments, result.Elapsed)

	if keys := splitList(queryKeys); len(keys) > 0 {
		results, err := store.RunQueries(ctx, keys)
		if err != nil {
			logger.Log.Fatal("query execution failed", zap.Error(err))
		}
		for _, key := range keys {
			printQueryResult(results[key])
		}
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printPreview(snapshot *harvest.Snapshot) {
	fmt.Printf("\nsnapshot %s\n", snapshot.ID)
	fmt.Printf("  channels:  %d\n", len(snapshot.Channels))
	for _, ch := range snapshot.Channels {
		fmt.Printf("    %s  %s (%d subscribers, %d views)\n",
			ch.ChannelID, ch.Name, ch.SubscriberCount, ch.Views)
	}
	fmt.Printf("  playlists: %d\n", len(snapshot.Playlists))
	fmt.Printf("  videos:    %d\n", len(snapshot.Videos))
	fmt.Printf("  comments:  %d\n", len(snapshot.Comments))
	if len(snapshot.SkippedComments) > 0 {
		fmt.Printf("  skipped comment videos: %d\n", len(snapshot.SkippedComments))
		for _, skip := range snapshot.SkippedComments {
			fmt.Printf("    %s: %s\n", skip.VideoID, skip.Reason)
		}
	}
	fmt.Println()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printQueryResult(result repository.QueryResult) {
	if result.Question == "" {
		return
	}
	fmt.Printf("\n%s\n", result.Question)
	fmt.Println(strings.Join(result.Columns, " | "))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprintf("%v", v)
		}
		fmt.Println(strings.Join(cells, " | "))
	}
}

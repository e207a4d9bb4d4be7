package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/clipshare/internal/catalog"
	"github.com/mmcdole/clipshare/internal/domain"
)

var errUsage = errors.New("invalid usage, run clipshare -h")

// command runs one non-interactive operation against the store
type command struct {
	store    *catalog.Store
	out      io.Writer
	progress io.Writer // upload percentage, nil for none
}

func (c *command) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "list":
		if err := c.store.Load(ctx); err != nil {
			return fmt.Errorf("failed to load videos: %w", err)
		}
		c.printVideos(c.store.Snapshot().Videos, catalog.EmptyText)
		return nil

	case "search":
		query := strings.TrimSpace(strings.Join(args[1:], " "))
		if query == "" {
			return fmt.Errorf("search needs a query: %w", errUsage)
		}
		if err := c.store.Search(ctx, query); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
		c.printVideos(c.store.Snapshot().Videos, fmt.Sprintf("No videos match %q", query))
		return nil

	case "stats":
		c.store.LoadStats(ctx)
		stats := c.store.Snapshot().Stats
		if stats == nil {
			return errors.New("stats unavailable")
		}
		c.printStats(stats)
		return nil

	case "like":
		if len(args) != 2 {
			return fmt.Errorf("like needs a video id: %w", errUsage)
		}
		likes, err := c.store.Like(ctx, args[1])
		if err != nil {
			return fmt.Errorf("like failed: %w", err)
		}
		fmt.Fprintf(c.out, "%s now has %d likes\n", args[1], likes)
		return nil

	case "upload":
		return c.upload(ctx, args[1:])
	}

	return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
}

func (c *command) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "video title")
	description := fs.String("description", "", "video description")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%v: %w", err, errUsage)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("upload needs exactly one file: %w", errUsage)
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open video: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat video: %w", err)
	}

	req := domain.UploadRequest{
		Title:       *title,
		Description: *description,
		Media: &domain.MediaPayload{
			Filename: filepath.Base(path),
			Size:     info.Size(),
			Reader:   f,
		},
	}

	lastPct := int64(-1)
	onProgress := func(sent, total int64) {
		if c.progress == nil || total <= 0 {
			return
		}
		if pct := sent * 100 / total; pct != lastPct {
			lastPct = pct
			fmt.Fprintf(c.progress, "\rUploading… %d%%", pct)
		}
	}

	video, err := c.store.Upload(ctx, req, onProgress)
	if c.progress != nil && lastPct >= 0 {
		fmt.Fprintln(c.progress)
	}
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Fprintf(c.out, "Uploaded %q as %s\n", video.Title, video.ID)
	if len(video.Tags) > 0 {
		fmt.Fprintf(c.out, "Tags: %s\n", strings.Join(video.Tags, ", "))
	}
	return nil
}

func (c *command) printVideos(videos []domain.Video, empty string) {
	if len(videos) == 0 {
		fmt.Fprintln(c.out, empty)
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		BorderLeft(false).
		BorderRight(false).
		BorderTop(false).
		BorderBottom(false).
		Headers("ID", "TITLE", "VIEWS", "LIKES", "UPLOADED")
	for _, v := range videos {
		t.Row(v.ID, v.Title, strconv.Itoa(v.Views), strconv.Itoa(v.Likes), v.FormattedDate())
	}
	fmt.Fprintln(c.out, t.Render())
}

func (c *command) printStats(s *domain.Stats) {
	fmt.Fprintf(c.out, "Videos:  %d\n", s.TotalVideos)
	fmt.Fprintf(c.out, "Views:   %d\n", s.TotalViews)
	fmt.Fprintf(c.out, "Likes:   %d\n", s.TotalLikes)
	if label := s.StorageMode.Label(); label != "" {
		fmt.Fprintf(c.out, "Storage: %s\n", label)
	}
	ai := "disabled"
	if s.CognitiveServices {
		ai = "enabled"
	}
	fmt.Fprintf(c.out, "AI tags: %s\n", ai)
}

// Command anchorctl loads a document and its comments, anchors the comments
// in the text and prints the annotated result.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/config"
	"chronicle/anchoring/internal/drafts"
	"chronicle/anchoring/internal/editor"
	"chronicle/anchoring/internal/export"
	"chronicle/anchoring/internal/prosemirror"
)

type jsonOutput struct {
	Anchors   []anchor.Span  `json:"anchors"`
	Badges    []anchor.Badge `json:"badges"`
	Unlocated []string       `json:"unlocated"`
	Orphaned  []string       `json:"orphaned,omitempty"`
}

func main() {
	docPath := flag.String("doc", "", "document to annotate (.md or ProseMirror .json)")
	commentsPath := flag.String("comments", "", "JSON array of comments with id and selectedText")
	format := flag.String("format", "html", "output format: html, text, markdown, json, review, pdf or docx")
	draftID := flag.String("draft", "", "draft id; loads the draft if one exists and saves the result back")
	outPath := flag.String("out", "", "write output to this file instead of stdout")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stderr, "anchorctl: ", log.LstdFlags)
	ctx := context.Background()

	var store *drafts.RedisStore
	if *draftID != "" && strings.TrimSpace(cfg.RedisURL) != "" {
		s, err := drafts.NewRedisStore(cfg.RedisURL, cfg.DraftTTL)
		if err != nil {
			logger.Fatalf("redis connection failed: %v", err)
		}
		defer s.Close()
		store = s
	}

	doc, err := loadDocument(ctx, store, *draftID, *docPath)
	if err != nil {
		logger.Fatalf("load document: %v", err)
	}
	comments, err := loadComments(*commentsPath)
	if err != nil {
		logger.Fatalf("load comments: %v", err)
	}

	locator, err := cfg.NewLocator()
	if err != nil {
		logger.Fatal(err)
	}
	strategy, err := cfg.EditorStrategy()
	if err != nil {
		logger.Fatal(err)
	}
	cache, err := anchor.NewTextCache(cfg.TextCacheSize)
	if err != nil {
		logger.Fatal(err)
	}

	var orphaned []string
	ed := editor.New(doc, editor.Options{
		Strategy:       strategy,
		MinMatchLength: cfg.MinMatchLength,
		Locator:        locator,
		Cache:          cache,
		Logger:         logger,
		OnOrphanedComments: func(ids []string) {
			orphaned = append(orphaned, ids...)
		},
	})
	defer ed.Destroy()
	editor.RehydrateCommentMarks(ed, comments)
	ed.Settle()

	report := ed.LastReport()
	if len(report.Unlocated) > 0 {
		logger.Printf("%d of %d comments could not be anchored", len(report.Unlocated), len(comments))
	}

	if store != nil {
		if err := store.Save(ctx, *draftID, ed.State().Doc); err != nil {
			logger.Printf("save draft %s: %v", *draftID, err)
		}
	}

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Fatalf("create output: %v", err)
		}
		defer f.Close()
		out = f
	}

	title := cfg.ExportTitle
	if *docPath != "" {
		title = strings.TrimSuffix(filepath.Base(*docPath), filepath.Ext(*docPath))
	}
	if err := write(ctx, out, *format, ed, comments, orphaned, title); err != nil {
		logger.Fatal(err)
	}
}

func loadDocument(ctx context.Context, store *drafts.RedisStore, draftID, path string) (*prosemirror.Node, error) {
	if store != nil {
		draft, err := store.Load(ctx, draftID)
		switch {
		case err == nil:
			return draft.Doc, nil
		case !errors.Is(err, drafts.ErrNotFound):
			return nil, err
		}
	}
	if path == "" {
		return nil, errors.New("-doc is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return prosemirror.ParseJSON(data)
	}
	return export.FromMarkdown(data)
}

func loadComments(path string) ([]anchor.Comment, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var comments []anchor.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return comments, nil
}

func write(ctx context.Context, out io.Writer, format string, ed *editor.Editor, comments []anchor.Comment, orphaned []string, title string) error {
	doc := ed.State().Doc
	switch format {
	case "html":
		_, err := io.WriteString(out, export.HTML(doc, export.HTMLOptions{
			Badges:     ed.Badges(),
			Highlights: ed.Decorations(),
		}))
		return err
	case "text":
		_, err := io.WriteString(out, export.PlainText(doc)+"\n")
		return err
	case "markdown":
		_, err := io.WriteString(out, export.Markdown(doc))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			Anchors:   anchor.Spans(doc),
			Badges:    ed.Badges(),
			Unlocated: ed.LastReport().Unlocated,
			Orphaned:  orphaned,
		})
	case "review", "pdf", "docx":
		exportFormat := export.Format(format)
		if format == "review" {
			exportFormat = export.FormatHTML
		}
		req := export.Request{
			Title:           title,
			UpdatedAt:       time.Now(),
			Doc:             doc,
			Format:          exportFormat,
			IncludeComments: true,
		}
		for _, c := range comments {
			req.Comments = append(req.Comments, export.ReviewComment{ID: c.ID, SelectedText: c.SelectedText})
		}
		result, err := export.NewService().Export(ctx, req)
		if err != nil {
			return err
		}
		_, err = out.Write(result.Data)
		return err
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

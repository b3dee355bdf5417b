package drafts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"chronicle/anchoring/internal/anchor"
	"chronicle/anchoring/internal/prosemirror"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+s.Addr(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	return store, s
}

func annotatedDoc(t *testing.T) (*prosemirror.Node, *prosemirror.Node) {
	t.Helper()
	plain := prosemirror.Doc(prosemirror.Paragraph(prosemirror.NewText("The quick brown fox")))
	state := prosemirror.NewState(plain)
	tr, err := anchor.Bind(state, "c1", 5, 10)
	if err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	next, _ := state.ApplyTransaction(tr)
	return plain, next.Doc
}

func TestNewRedisStore(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	store, err := NewRedisStore("redis://"+s.Addr(), 0)
	if err != nil {
		t.Fatalf("NewRedisStore failed: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewRedisStoreBadURL(t *testing.T) {
	if _, err := NewRedisStore("not a url", time.Hour); err == nil {
		t.Error("expected an error for an invalid URL")
	}
}

func TestSaveAndLoadStripsAnchors(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	plain, doc := annotatedDoc(t)

	if err := store.Save(ctx, "doc-1", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	draft, err := store.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if draft.DocumentID != "doc-1" {
		t.Errorf("expected document ID doc-1, got %s", draft.DocumentID)
	}
	if !draft.Doc.Equal(plain) {
		t.Error("loaded draft should equal the document without anchors")
	}
	if ids := anchor.CommentIDs(draft.Doc); len(ids) != 0 {
		t.Errorf("anchors persisted: %v", ids)
	}
	if draft.SavedAt.IsZero() {
		t.Error("expected SavedAt to be set")
	}
	if ttl := s.TTL("draft:doc-1"); ttl != time.Hour {
		t.Errorf("expected TTL 1h, got %v", ttl)
	}
}

func TestLoadMissingDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	_, err := store.Load(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDraftExpires(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	_, doc := annotatedDoc(t)
	if err := store.Save(ctx, "doc-1", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	s.FastForward(2 * time.Hour)

	if _, err := store.Load(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired draft to be gone, got %v", err)
	}
}

func TestDeleteDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	ctx := context.Background()
	_, doc := annotatedDoc(t)
	if err := store.Save(ctx, "doc-1", doc); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "doc-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "doc-1"); err != nil {
		t.Errorf("deleting a missing draft should succeed, got %v", err)
	}
}

func TestLoadCorruptDraft(t *testing.T) {
	store, s := setupTestRedis(t)
	defer store.Close()
	defer s.Close()

	if err := s.Set("draft:bad", "{not json"); err != nil {
		t.Fatalf("failed to seed redis: %v", err)
	}
	_, err := store.Load(context.Background(), "bad")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected a decode error, got %v", err)
	}
}

package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSave(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Save("records/p1/r1/a.png", strings.NewReader("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if url != "/uploads/records/p1/r1/a.png" {
		t.Fatalf("unexpected url %s", url)
	}

	data, err := os.ReadFile(filepath.Join(store.Root, "records", "p1", "r1", "a.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content %q", data)
	}
}

func TestLocalStoreDeletePrefixPrunesEmptyParents(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, key := range []string{"records/p1/r1/a.png", "records/p1/r1/b.png"} {
		if _, err := store.Save(key, strings.NewReader("x"), "image/png"); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	if err := store.DeletePrefix("records/p1/r1/"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}

	if _, err := os.Stat(filepath.Join(store.Root, "records", "p1", "r1")); !os.IsNotExist(err) {
		t.Fatal("record dir should be gone")
	}
	// p1 had nothing else, so it goes too
	if _, err := os.Stat(filepath.Join(store.Root, "records", "p1")); !os.IsNotExist(err) {
		t.Fatal("empty player dir should be pruned")
	}
	// the store root itself stays
	if _, err := os.Stat(store.Root); err != nil {
		t.Fatalf("store root must survive: %v", err)
	}
}

func TestLocalStoreDeletePrefixKeepsSiblings(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	for _, key := range []string{"records/p1/r1/a.png", "records/p1/r2/b.png"} {
		if _, err := store.Save(key, strings.NewReader("x"), "image/png"); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	if err := store.DeletePrefix("records/p1/r1/"); err != nil {
		t.Fatalf("delete prefix: %v", err)
	}

	// r2 still exists, so p1 must not be pruned
	if _, err := os.Stat(filepath.Join(store.Root, "records", "p1", "r2", "b.png")); err != nil {
		t.Fatalf("sibling record lost: %v", err)
	}
}

func TestLocalStoreList(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	keys := []string{"records/temp/one.png", "records/temp/two.jpg"}
	for _, key := range keys {
		if _, err := store.Save(key, strings.NewReader("x"), "image/png"); err != nil {
			t.Fatalf("save %s: %v", key, err)
		}
	}

	objs, err := store.List(TempPrefix)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	for _, obj := range objs {
		if !strings.HasPrefix(obj.Key, "records/temp/") {
			t.Fatalf("unexpected key %s", obj.Key)
		}
		if obj.ModTime.IsZero() {
			t.Fatalf("missing mod time on %s", obj.Key)
		}
	}
}

func TestLocalStoreListMissingPrefix(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	objs, err := store.List("records/nothing/")
	if err != nil {
		t.Fatalf("list of absent prefix must not error: %v", err)
	}
	if len(objs) != 0 {
		t.Fatalf("expected no objects, got %d", len(objs))
	}
}

func TestLocalStoreKeyFromURL(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	url, err := store.Save("records/p1/r1/a.png", strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := store.KeyFromURL(url); got != "records/p1/r1/a.png" {
		t.Fatalf("key round-trip failed, got %s", got)
	}
}

package driver

import (
	"path/filepath"
	"testing"

	"baml/internal/render"
	"baml/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := NewDiskCache(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.baml", []byte("br")))
	key, err := CacheKey(file, render.Options{})
	if err != nil {
		t.Fatal(err)
	}

	var got DiskPayload
	if ok, err := cache.Get(key, &got); err != nil || ok {
		t.Fatalf("empty cache must miss: %v %v", ok, err)
	}
	if err := cache.Put(key, &DiskPayload{Path: "a.baml", HTML: []byte("<br />\n"), Tokens: 2, Nodes: 1}); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &got)
	if err != nil || !ok {
		t.Fatalf("expected hit: %v %v", ok, err)
	}
	if string(got.HTML) != "<br />\n" || got.Nodes != 1 || got.Version == "" {
		t.Fatalf("unexpected payload %+v", got)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &got); ok {
		t.Fatal("DropAll must clear entries")
	}
}

func TestCacheKeyDependsOnOptions(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.baml", []byte("br")))
	a, _ := CacheKey(file, render.Options{})
	b, _ := CacheKey(file, render.Options{IndentWidth: 4})
	c, _ := CacheKey(file, render.Options{UseTabs: true})
	if a == b || a == c || b == c {
		t.Fatal("keys must differ per option set")
	}
	if _, err := CacheKey(file, render.Options{IndentWidth: 1000}); err == nil {
		t.Fatal("expected overflow error for huge indent")
	}
	var nilCache *DiskCache
	if ok, err := nilCache.Get(a, &DiskPayload{}); ok || err != nil {
		t.Fatal("nil cache must always miss")
	}
}

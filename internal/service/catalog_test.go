package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"Thread_of_Hope/internal/logging"
	"Thread_of_Hope/internal/model"
	"Thread_of_Hope/internal/pkg"
	"Thread_of_Hope/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func TestEbookPublishFlow(t *testing.T) {
	f := newFixture(t)
	svc := NewEbookService(f.repos.Ebooks, nil, logging.Discard())
	ctx := context.Background()

	_, err := svc.Create(ctx, EbookInput{Title: str("Buku")})
	assertStatus(t, err, http.StatusBadRequest, "Missing required fields")

	e, err := svc.Create(ctx, EbookInput{
		Title: str("Merawat Diri"), Description: str("panduan"), Author: str("Tim"),
		Category: str("self-care"), ExternalURL: str("https://example.com/buku.pdf"),
	})
	require.NoError(t, err)
	assert.False(t, e.IsPublished)

	_, err = svc.Get(ctx, e.ID, false)
	assertStatus(t, err, http.StatusNotFound, "E-book not found")
	_, err = svc.Get(ctx, e.ID, true)
	require.NoError(t, err)

	public, _, err := svc.List(ctx, model.EbookFilter{PublishedOnly: true}, pkg.NewPage(1, DefaultCatalogPageSize, DefaultCatalogPageSize))
	require.NoError(t, err)
	assert.Empty(t, public)

	yes := true
	e, err = svc.Update(ctx, e.ID, EbookInput{IsPublished: &yes, Title: str(" ")})
	require.NoError(t, err)
	assert.True(t, e.IsPublished)
	assert.Equal(t, "Merawat Diri", e.Title)

	public, p, err := svc.List(ctx, model.EbookFilter{PublishedOnly: true, Category: "self-care"}, pkg.NewPage(1, 12, 12))
	require.NoError(t, err)
	assert.Len(t, public, 1)
	assert.Equal(t, int64(1), p.TotalPages)

	other, _, err := svc.List(ctx, model.EbookFilter{PublishedOnly: true, Category: "novel"}, pkg.NewPage(1, 12, 12))
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, svc.RecordView(ctx, e.ID))
	require.NoError(t, svc.RecordView(ctx, e.ID))
	require.NoError(t, svc.RecordDownload(ctx, e.ID))
	got, err := svc.Get(ctx, e.ID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)
	assert.Equal(t, int64(1), got.DownloadCount)

	assertStatus(t, svc.RecordView(ctx, "missing"), http.StatusNotFound, "E-book not found")
	require.NoError(t, svc.Delete(ctx, e.ID))
	assertStatus(t, svc.Delete(ctx, e.ID), http.StatusNotFound, "E-book not found")
}

func TestParseEventDate(t *testing.T) {
	for _, raw := range []string{"2024-05-01T19:00:00+07:00", "2024-05-01T19:00", "2024-05-01 19:00", "2024-05-01"} {
		got, err := parseEventDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, 2024, got.Year())
		assert.Equal(t, time.May, got.Month())
	}
	_, err := parseEventDate("besok")
	assertStatus(t, err, http.StatusBadRequest, "Invalid event date")
}

func TestEventUpcomingOrdering(t *testing.T) {
	f := newFixture(t)
	svc := NewEventService(f.repos.Events, nil, logging.Discard())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	for _, d := range []string{"2024-07-10", "2024-05-01", "2024-06-15"} {
		_, err := svc.Create(ctx, EventInput{Title: str("acara " + d), EventDate: str(d)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, EventInput{Title: str("tanpa tanggal")})
	assertStatus(t, err, http.StatusBadRequest, "Missing required fields")

	all, _, err := svc.List(ctx, false, pkg.NewPage(1, 10, 10))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "acara 2024-05-01", all[0].Title)

	upcoming, p, err := svc.List(ctx, true, pkg.NewPage(1, 10, 10))
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, int64(2), p.Total)
	assert.Equal(t, "acara 2024-06-15", upcoming[0].Title)

	moved, err := svc.Update(ctx, upcoming[0].ID, EventInput{EventDate: str("2024-08-01"), Location: str("Jakarta")})
	require.NoError(t, err)
	assert.Equal(t, time.August, moved.EventDate.Month())
	require.NotNil(t, moved.Location)
	assert.Equal(t, "Jakarta", *moved.Location)

	_, err = svc.Update(ctx, moved.ID, EventInput{EventDate: str("nanti")})
	assertStatus(t, err, http.StatusBadRequest, "Invalid event date")
	_, err = svc.Get(ctx, "missing")
	assertStatus(t, err, http.StatusNotFound, "Event not found")
}

func TestGalleryDefaultCategory(t *testing.T) {
	f := newFixture(t)
	svc := NewGalleryService(f.repos.Gallery, nil, logging.Discard())
	ctx := context.Background()

	g, err := svc.Create(ctx, GalleryInput{Title: str("Kopdar"), ImagePath: str("/uploads/a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultGalleryCategory, g.Category)

	_, err = svc.Create(ctx, GalleryInput{Title: str("Kopdar"), ImagePath: str("/uploads/b.jpg"), Category: str("event")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, GalleryInput{Title: str("tanpa gambar")})
	assertStatus(t, err, http.StatusBadRequest, "Missing required fields")

	list, _, err := svc.List(ctx, "event", pkg.NewPage(1, 10, 10))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, _, err = svc.List(ctx, "all", pkg.NewPage(1, 10, 10))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	yes := true
	g, err = svc.Update(ctx, g.ID, GalleryInput{IsFeatured: &yes})
	require.NoError(t, err)
	assert.True(t, g.IsFeatured)
	assertStatus(t, svc.Delete(ctx, "missing"), http.StatusNotFound, "Gallery item not found")
}

func TestCatalogReleasesReplacedUploads(t *testing.T) {
	f := newFixture(t)
	files := storage.NewMemoryStore("/uploads")
	ctx := context.Background()
	put := func(name string) string {
		url, err := files.Put(ctx, name, []byte("img"), "image/png")
		require.NoError(t, err)
		return url
	}

	t.Run("gallery image replaced then deleted", func(t *testing.T) {
		svc := NewGalleryService(f.repos.Gallery, files, logging.Discard())
		first, second := put("gallery-1.png"), put("gallery-2.png")
		g, err := svc.Create(ctx, GalleryInput{Title: str("Kopdar"), ImagePath: &first})
		require.NoError(t, err)

		_, err = svc.Update(ctx, g.ID, GalleryInput{Title: str("Kopdar lagi")})
		require.NoError(t, err)
		_, ok := files.Get(first)
		assert.True(t, ok, "untouched image must stay")

		_, err = svc.Update(ctx, g.ID, GalleryInput{ImagePath: &second})
		require.NoError(t, err)
		_, ok = files.Get(first)
		assert.False(t, ok)

		require.NoError(t, svc.Delete(ctx, g.ID))
		_, ok = files.Get(second)
		assert.False(t, ok)
	})

	t.Run("ebook cover and pdf removed on delete", func(t *testing.T) {
		svc := NewEbookService(f.repos.Ebooks, files, logging.Discard())
		cover, pdf := put("cover.png"), put("ebook-1.pdf")
		e, err := svc.Create(ctx, EbookInput{
			Title: str("Buku"), Description: str("d"), Author: str("a"), Category: str("c"),
			ExternalURL: &pdf, CoverImagePath: &cover,
		})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, e.ID))
		_, ok := files.Get(cover)
		assert.False(t, ok)
		_, ok = files.Get(pdf)
		assert.False(t, ok)
		assertStatus(t, svc.Delete(ctx, e.ID), http.StatusNotFound, "E-book not found")
	})

	t.Run("event image cleared", func(t *testing.T) {
		svc := NewEventService(f.repos.Events, files, logging.Discard())
		img := put("event-1.png")
		e, err := svc.Create(ctx, EventInput{Title: str("Temu"), EventDate: str("2030-01-02"), ImagePath: &img})
		require.NoError(t, err)

		_, err = svc.Update(ctx, e.ID, EventInput{ImagePath: str("")})
		require.NoError(t, err)
		_, ok := files.Get(img)
		assert.False(t, ok)
	})
}

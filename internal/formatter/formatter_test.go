package formatter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
	th "github.com/desertthunder/vidshelf/internal/testing"
)

func sampleExport() *PlaylistExport {
	added := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := models.NewPlaylistItem(th.SampleVideo("v1", "Song One"), added)
	first.Rating = 4
	second := models.NewPlaylistItem(th.SampleVideo("v2", "Song, Two"), added)

	p := models.Playlist{
		ID:        "pl-123",
		Name:      "Favorites",
		CreatedAt: added,
		Items:     []models.PlaylistItem{first, second},
	}
	return NewPlaylistExport("ana", p, added)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"csv":      FormatCSV,
		"CSV":      FormatCSV,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
		"txt":      FormatText,
		"text":     FormatText,
		" json ":   FormatJSON,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleExport())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "ID,Title,Channel,Duration,Views,Rating,Added,URL") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "v1,Song One,Channel v1,3:20,12345,4,2024-05-01T12:00:00Z,https://www.youtube.com/watch?v=v1") {
			t.Errorf("CSV missing first row, got: %s", output)
		}
		if !strings.Contains(output, `"Song, Two"`) {
			t.Errorf("CSV should quote titles with commas, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		t.Run("without cover image", func(t *testing.T) {
			data, err := ExportToMarkdown(sampleExport(), "")
			if err != nil {
				t.Fatalf("ExportToMarkdown failed: %v", err)
			}

			output := string(data)
			for _, want := range []string{
				"# Favorites",
				"**Owner**: ana",
				"**Videos**: 2",
				"## Videos",
				"1. [Song One](https://www.youtube.com/watch?v=v1) - Channel v1 [3:20] ★★★★☆",
			} {
				if !strings.Contains(output, want) {
					t.Errorf("Markdown missing %q, got:\n%s", want, output)
				}
			}
			if strings.Contains(output, "![Cover]") {
				t.Error("Markdown should not include a cover without an image")
			}
		})

		t.Run("with cover image", func(t *testing.T) {
			data, _ := ExportToMarkdown(sampleExport(), "cover.jpg")
			if !strings.Contains(string(data), "![Cover](cover.jpg)") {
				t.Errorf("Markdown missing cover, got:\n%s", data)
			}
		})
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText(sampleExport())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)
		if !strings.Contains(output, "Playlist: Favorites") || !strings.Contains(output, "Videos: 2") {
			t.Errorf("Text missing header, got:\n%s", output)
		}
		if !strings.Contains(output, "1. Channel v1 - Song One (3:20)") {
			t.Errorf("Text missing first item, got:\n%s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(sampleExport())
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}

		var decoded PlaylistExport
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Playlist.Name != "Favorites" || len(decoded.Items) != 2 || decoded.Items[0].Rating != 4 {
			t.Errorf("unexpected decoded export: %+v", decoded)
		}
	})

	t.Run("empty playlist", func(t *testing.T) {
		export := NewPlaylistExport("ana", models.Playlist{ID: "p", Name: "Empty"}, time.Now())
		if export.Items == nil {
			t.Fatal("expected non-nil items")
		}
		if export.CoverURL() != "" {
			t.Error("expected no cover for an empty playlist")
		}
		data, _ := ExportToCSV(export)
		if lines := strings.Count(string(data), "\n"); lines != 1 {
			t.Errorf("expected header only, got %d lines", lines)
		}
	})
}

func TestDownloadImage(t *testing.T) {
	t.Run("EmptyURL", func(t *testing.T) {
		if _, err := DownloadImage(""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("jpegdata"))
		}))
		defer server.Close()

		data, err := DownloadImage(server.URL)
		if err != nil || string(data) != "jpegdata" {
			t.Errorf("unexpected result %q (%v)", data, err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := DownloadImage(server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestWriters(t *testing.T) {
	t.Run("WriteCSVExport", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "out", "favorites")

		path, err := WriteCSVExport(sampleExport(), base)
		if err != nil {
			t.Fatalf("WriteCSVExport failed: %v", err)
		}
		if path != base+".csv" {
			t.Errorf("unexpected path %s", path)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.Contains(content, "Song One") {
			t.Errorf("CSV file missing content: %s", content)
		}
	})

	t.Run("WriteMarkdownExport", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte("img"))
		}))
		defer server.Close()

		export := sampleExport()
		export.Items[0].Thumbnail = server.URL + "/cover.jpg"
		dir := filepath.Join(t.TempDir(), "favorites")

		result, err := WriteMarkdownExport(export, dir, true)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if len(result.Files) != 2 || result.CoverImage == "" || hits != 1 {
			t.Fatalf("expected README and cover, got %+v (hits=%d)", result, hits)
		}
		th.AssertFileExists(t, filepath.Join(dir, "README.md"))
		if content := th.MustReadFile(t, filepath.Join(dir, "README.md")); !strings.Contains(content, "![Cover](cover.jpg)") {
			t.Errorf("README missing cover reference:\n%s", content)
		}
	})

	t.Run("WriteMarkdownExport without cover", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "favorites")

		result, err := WriteMarkdownExport(sampleExport(), dir, false)
		if err != nil {
			t.Fatalf("WriteMarkdownExport failed: %v", err)
		}
		if len(result.Files) != 1 || result.CoverImage != "" {
			t.Errorf("expected README only, got %+v", result)
		}
	})

	t.Run("Write dispatches by format", func(t *testing.T) {
		dir := t.TempDir()
		for _, f := range []Format{FormatCSV, FormatText, FormatJSON, FormatMarkdown} {
			files, err := Write(sampleExport(), f, filepath.Join(dir, string(f), "favorites"), false)
			if err != nil {
				t.Fatalf("Write(%s) failed: %v", f, err)
			}
			for _, file := range files {
				th.AssertFileExists(t, file)
			}
		}

		if _, err := Write(sampleExport(), Format("xml"), filepath.Join(dir, "x"), false); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

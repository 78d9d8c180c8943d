// package formatter exports playlists to files in various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vidshelf/internal/models"
	"github.com/desertthunder/vidshelf/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat maps a user-supplied name to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, s)
	}
}

// PlaylistExport is a playlist snapshot ready to be written out.
//
// Items holds the entries to export in display order, which may be a filtered or sorted view.
type PlaylistExport struct {
	Owner      string                `json:"owner"`
	Playlist   models.Playlist       `json:"playlist"`
	Items      []models.PlaylistItem `json:"items"`
	ExportedAt time.Time             `json:"exportedAt"`
}

// NewPlaylistExport snapshots p with its stored item order.
func NewPlaylistExport(owner string, p models.Playlist, exportedAt time.Time) *PlaylistExport {
	items := p.Items
	if items == nil {
		items = []models.PlaylistItem{}
	}
	return &PlaylistExport{Owner: owner, Playlist: p, Items: items, ExportedAt: exportedAt}
}

// CoverURL returns the thumbnail of the first exported item, or "".
func (e *PlaylistExport) CoverURL() string {
	for _, item := range e.Items {
		if item.Thumbnail != "" {
			return item.Thumbnail
		}
	}
	return ""
}

// ExportToCSV converts a PlaylistExport to CSV format with columns: ID, Title, Channel, Duration, Views, Rating, Added, URL
func ExportToCSV(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Channel", "Duration", "Views", "Rating", "Added", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range export.Items {
		record := []string{
			item.ID,
			item.Title,
			item.ChannelTitle,
			shared.FormatDuration(item.Duration),
			item.ViewCount,
			strconv.Itoa(item.Rating),
			formatTime(item.AddedAt),
			watchURL(item.ID),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a PlaylistExport to Markdown format with optional cover image
func ExportToMarkdown(export *PlaylistExport, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Playlist.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Cover](%s)\n\n", imageFilename))
	}

	if export.Owner != "" {
		buf.WriteString(fmt.Sprintf("**Owner**: %s\n", export.Owner))
	}
	buf.WriteString(fmt.Sprintf("**Videos**: %d\n", len(export.Items)))
	if !export.Playlist.CreatedAt.IsZero() {
		buf.WriteString(fmt.Sprintf("**Created**: %s\n", formatTime(export.Playlist.CreatedAt)))
	}
	buf.WriteString("\n## Videos\n\n")

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. [%s](%s) - %s [%s] %s\n",
			i+1, item.Title, watchURL(item.ID), item.ChannelTitle, shared.FormatDuration(item.Duration), shared.Stars(item.Rating)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a PlaylistExport to plain text format
func ExportToText(export *PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", export.Playlist.Name))
	if export.Owner != "" {
		buf.WriteString(fmt.Sprintf("Owner: %s\n", export.Owner))
	}
	buf.WriteString(fmt.Sprintf("Videos: %d\n\n", len(export.Items)))

	for i, item := range export.Items {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%s)\n", i+1, item.ChannelTitle, item.Title, shared.FormatDuration(item.Duration)))
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a PlaylistExport to indented JSON
func ExportToJSON(export *PlaylistExport) ([]byte, error) {
	return shared.MarshalJSON(export, true)
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// WriteCSVExport writes {base}.csv, defaulting the base path to the playlist ID.
func WriteCSVExport(export *PlaylistExport, basePath string) (string, error) {
	data, err := ExportToCSV(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}
	return writeFile(defaultBase(export, basePath)+".csv", data)
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport exports a playlist to Markdown format in a dedicated directory.
//
// Directory name defaults to the playlist ID.
// When downloadCover is set, the first item's thumbnail is saved as cover.jpg; failures only skip the image.
// Creates a directory structure: {dir}/README.md and optionally {dir}/cover.jpg
func WriteMarkdownExport(export *PlaylistExport, outputDir string, downloadCover bool) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Playlist.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var coverImageFilename string
	if imageURL := export.CoverURL(); downloadCover && imageURL != "" {
		imageData, err := DownloadImage(imageURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download cover image: %v\n", err)
		} else {
			coverImageFilename = "cover.jpg"
			coverImagePath := filepath.Join(outputDir, coverImageFilename)
			if err := os.WriteFile(coverImagePath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save cover image: %v\n", err)
				coverImageFilename = ""
			} else {
				result.CoverImage = coverImagePath
				result.Files = append(result.Files, coverImagePath)
			}
		}
	}

	mdData, err := ExportToMarkdown(export, coverImageFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes {base}.txt, defaulting the base path to the playlist ID.
func WriteTextExport(export *PlaylistExport, basePath string) (string, error) {
	data, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return writeFile(defaultBase(export, basePath)+".txt", data)
}

// WriteJSONExport writes {base}.json, defaulting the base path to the playlist ID.
func WriteJSONExport(export *PlaylistExport, basePath string) (string, error) {
	data, err := ExportToJSON(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate JSON: %w", err)
	}
	return writeFile(defaultBase(export, basePath)+".json", data)
}

// Write exports in format to basePath and returns the files created.
func Write(export *PlaylistExport, format Format, basePath string, downloadCover bool) ([]string, error) {
	switch format {
	case FormatCSV:
		f, err := WriteCSVExport(export, basePath)
		return []string{f}, err
	case FormatMarkdown:
		res, err := WriteMarkdownExport(export, basePath, downloadCover)
		if err != nil {
			return nil, err
		}
		return res.Files, nil
	case FormatText:
		f, err := WriteTextExport(export, basePath)
		return []string{f}, err
	case FormatJSON:
		f, err := WriteJSONExport(export, basePath)
		return []string{f}, err
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

func defaultBase(export *PlaylistExport, basePath string) string {
	if basePath == "" {
		return export.Playlist.ID
	}
	return basePath
}

func writeFile(path string, data []byte) (string, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func watchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

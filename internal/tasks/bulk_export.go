package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/vidshelf/internal/formatter"
	"github.com/desertthunder/vidshelf/internal/library"
	"github.com/desertthunder/vidshelf/internal/session"
	"github.com/desertthunder/vidshelf/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultWorkers   = 5
	maxWorkers       = 10
	defaultRateLimit = 5.0
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format        formatter.Format // Export format: csv, md, txt, json
	OutputDir     string           // Base output directory (default: vidshelf_export_{epoch})
	NumWorkers    int              // Concurrent workers (default: 5, max: 10)
	RateLimit     float64          // Playlists dispatched per second (default: 5)
	DownloadCover bool             // Markdown only: save the first thumbnail as cover.jpg
	Filter        string           // Title filter applied before export
	Sort          library.SortMode // Item order applied before export
}

// PlaylistExportJob is a single unit of work for an export worker.
type PlaylistExportJob struct {
	Index  int
	Export *formatter.PlaylistExport
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string   `json:"playlistId"`
	PlaylistName string   `json:"playlistName"`
	Success      bool     `json:"success"`
	Files        []string `json:"files"`
	Error        error    `json:"-"`
	ErrorMessage string   `json:"error,omitempty"`
}

// BulkExportResult summarises a bulk export. Results keep the requested playlist order.
type BulkExportResult struct {
	Owner             string                 `json:"owner"`
	Format            formatter.Format       `json:"format"`
	TotalPlaylists    int                    `json:"totalPlaylists"`
	SuccessfulExports int                    `json:"successfulExports"`
	FailedExports     int                    `json:"failedExports"`
	OutputDirectory   string                 `json:"outputDirectory"`
	ExportedAt        time.Time              `json:"exportedAt"`
	Results           []PlaylistExportResult `json:"results"`
	ManifestPath      string                 `json:"-"`
}

// Exporter exports playlists from the library engine to files.
type Exporter struct {
	engine *library.Engine
	logger *log.Logger
	now    func() time.Time
}

// NewExporter creates an [Exporter]. A nil logger discards output.
func NewExporter(engine *library.Engine, logger *log.Logger) *Exporter {
	if logger == nil {
		logger = shared.NewLogger(io.Discard)
	}
	return &Exporter{engine: engine, logger: logger, now: time.Now}
}

// BulkExport exports the caller's playlists concurrently with rate limiting and progress tracking.
//
// An empty ids exports every playlist. Unknown ids are reported as failed results, not errors.
func (x *Exporter) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	sc session.Context,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if x.engine == nil {
		return nil, fmt.Errorf("%w: library engine not initialized", shared.ErrServiceUnavailable)
	}
	if sc.IsZero() {
		return nil, shared.ErrNotAuthenticated
	}

	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("vidshelf_export_%d", x.now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = defaultWorkers
	}
	if opts.NumWorkers > maxWorkers {
		opts.NumWorkers = maxWorkers
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(ids) == 0 {
		for _, p := range x.engine.ListPlaylists(ctx, sc) {
			ids = append(ids, p.ID)
		}
	}
	sendProgress(prog, resolvingUpdate(len(ids)))

	result := &BulkExportResult{
		Owner:           sc.Username,
		Format:          opts.Format,
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		ExportedAt:      x.now(),
		Results:         make([]PlaylistExportResult, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlaylistExportJob, len(ids))
	results := make(chan indexedResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go x.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, playlistID := range ids {
			select {
			case <-ctx.Done():
				return
			default:
			}

			p, ok := x.engine.FindPlaylist(ctx, sc, playlistID)
			if !ok {
				results <- indexedResult{index: i, res: PlaylistExportResult{
					PlaylistID:   playlistID,
					PlaylistName: fmt.Sprintf("Unknown (%s)", playlistID),
					Files:        []string{},
					Error:        fmt.Errorf("%w: %s", shared.ErrMissingPlaylist, playlistID),
				}}
				continue
			}

			if err := limiter.Wait(ctx); err != nil {
				return
			}

			p.Items = library.VisibleItems(p.Items, opts.Filter, opts.Sort)
			export := formatter.NewPlaylistExport(sc.Username, *p, result.ExportedAt)
			jobs <- PlaylistExportJob{Index: i, Export: export}
			sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), p.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for ir := range results {
		completed++
		res := ir.res
		if res.Error != nil {
			res.ErrorMessage = res.Error.Error()
		}
		result.Results[ir.index] = res

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			x.logger.Warn("playlist export failed", "playlist", res.PlaylistID, "error", res.Error)
			sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := writeManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))
	return result, nil
}

type indexedResult struct {
	index int
	res   PlaylistExportResult
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (x *Exporter) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- indexedResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		results <- indexedResult{index: job.Index, res: exportSinglePlaylist(job, opts)}
	}
}

// exportSinglePlaylist exports a single playlist to the requested format.
func exportSinglePlaylist(j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	result := PlaylistExportResult{
		PlaylistID:   j.Export.Playlist.ID,
		PlaylistName: j.Export.Playlist.Name,
		Files:        []string{},
	}

	base := filepath.Join(opts.OutputDir, j.Export.Playlist.ID)
	files, err := formatter.Write(j.Export, opts.Format, base, opts.DownloadCover)
	if err != nil {
		result.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		return result
	}

	result.Files = files
	result.Success = true
	return result
}

func writeManifest(result *BulkExportResult, path string) error {
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

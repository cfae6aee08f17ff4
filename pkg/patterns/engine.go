package patterns

import (
	"context"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"imgvault/pkg/logger"
	"imgvault/pkg/storage"
)

// patternSize is the fixed square every stored image is resampled to.
const patternSize = 64

// Engine walks the image store, decodes and resizes each stored file, and
// counts the ones that survive. The resized pixels are discarded: this is
// an existence check over the store, not feature extraction.
type Engine struct {
	store  *storage.Store
	logger logger.Logger
}

// New creates a pattern engine over the given store.
func New(store *storage.Store, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{store: store, logger: log}
}

// Extract re-reads every stored file from scratch and returns how many
// decode and resize cleanly. Undecodable files are skipped silently.
func (e *Engine) Extract(ctx context.Context) (int, error) {
	paths, err := e.store.List()
	if err != nil {
		return 0, fmt.Errorf("failed to list image store: %w", err)
	}

	total := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if e.extractOne(path) {
			total++
		}
	}

	e.logger.WithFields(map[string]interface{}{
		"scanned":  len(paths),
		"patterns": total,
	}).Info("pattern extraction complete")

	return total, nil
}

// extractOne decodes and resamples a single file.
func (e *Engine) extractOne(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		e.logger.WithError(err).WithField("path", path).Debug("skipping unreadable file")
		return false
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		e.logger.WithField("path", path).Debug("skipping undecodable file")
		return false
	}

	dst := image.NewRGBA(image.Rect(0, 0, patternSize, patternSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return true
}

// SummaryString renders the count the way the dispatcher reports it.
func SummaryString(count int) string {
	return fmt.Sprintf("%d patterns internalized.", count)
}

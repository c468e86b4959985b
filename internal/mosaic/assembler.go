package mosaic

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Options configures an Assembler.
type Options struct {
	TileWidth  int
	TileHeight int

	// SampleStride is the pixel step used when averaging a tile.
	SampleStride int

	// RowConcurrency caps how many rows resolve at once. Zero means every
	// row is dispatched immediately.
	RowConcurrency int
}

// Assembler turns a source image into a Grid: it cuts tiles, samples their
// colors, resolves one swatch per tile and assembles the result in grid
// order.
type Assembler struct {
	tiler    Tiler
	sampler  *Sampler
	resolver Resolver
	rowLimit int
	log      log.FieldLogger
}

// NewAssembler builds an Assembler. A nil logger uses the standard logger.
func NewAssembler(opts Options, resolver Resolver, logger log.FieldLogger) (*Assembler, error) {
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if opts.TileWidth <= 0 || opts.TileHeight <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %dx%d", opts.TileWidth, opts.TileHeight)
	}
	if opts.RowConcurrency < 0 {
		return nil, fmt.Errorf("row concurrency must not be negative, got %d", opts.RowConcurrency)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}

	return &Assembler{
		tiler:    NewTiler(opts.TileWidth, opts.TileHeight),
		sampler:  NewSampler(opts.SampleStride, logger),
		resolver: resolver,
		rowLimit: opts.RowConcurrency,
		log:      logger,
	}, nil
}

// Tiler exposes the tiler so callers can lay out an image with the exact
// grid the Assembler uses.
func (a *Assembler) Tiler() Tiler {
	return a.tiler
}

// Analyze cuts and samples img without resolving any swatch. The cells are
// returned in row-major order with empty artifacts.
func (a *Assembler) Analyze(img image.Image) (Layout, []Cell, error) {
	layout, rasters, err := a.tiler.Cut(img)
	if err != nil {
		return Layout{}, nil, err
	}

	cells := make([]Cell, 0, len(rasters))
	for _, raster := range rasters {
		cells = append(cells, a.sample(raster))
	}
	return layout, cells, nil
}

// Assemble builds the mosaic for img.
//
// Within a row every tile is resolved concurrently and the row completes once
// all of its tiles have settled; the grid completes once every row has. The
// swatch for tile (r, c) always lands in Rows[r][c], whatever order the
// responses arrive in.
//
// Assembly is all-or-nothing: if any tile fails to resolve, Assemble returns a
// *TileError (reachable with errors.As) and no grid. The first failure cancels
// the context handed to the remaining requests. Every call issues a fresh set
// of requests.
func (a *Assembler) Assemble(ctx context.Context, img image.Image) (*Grid, error) {
	started := time.Now()
	id := uuid.NewString()
	logger := a.log.WithField("grid", id)

	layout, rasters, err := a.tiler.Cut(img)
	if err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{
		"rows": layout.Rows,
		"cols": layout.Cols,
	}).Debug("image tiled")

	rowRasters := make([][]TileRaster, layout.Rows)
	rows := make([][]Cell, layout.Rows)
	for r := range rows {
		rows[r] = make([]Cell, layout.Cols)
	}
	for _, raster := range rasters {
		rowRasters[raster.Spec.Row] = append(rowRasters[raster.Spec.Row], raster)
	}

	group, gctx := errgroup.WithContext(ctx)
	if a.rowLimit > 0 {
		group.SetLimit(a.rowLimit)
	}
	for r := range rowRasters {
		group.Go(func() error {
			return a.resolveRow(gctx, rowRasters[r], rows[r])
		})
	}
	if err := group.Wait(); err != nil {
		logger.WithError(err).Warn("mosaic assembly failed")
		return nil, err
	}

	grid := &Grid{ID: id, Layout: layout, Rows: rows}
	logger.WithFields(log.Fields{
		"tiles":     layout.Len(),
		"fallbacks": grid.Fallbacks(),
		"elapsed":   time.Since(started).String(),
	}).Info("mosaic assembled")
	return grid, nil
}

// resolveRow resolves every tile of one row concurrently and stores each
// cell at its column index in out.
func (a *Assembler) resolveRow(ctx context.Context, rasters []TileRaster, out []Cell) error {
	group, gctx := errgroup.WithContext(ctx)
	for _, raster := range rasters {
		group.Go(func() error {
			cell := a.sample(raster)
			artifact, err := a.resolver.Resolve(gctx, cell.Key)
			if err != nil {
				return &TileError{Row: cell.Spec.Row, Col: cell.Spec.Col, Key: cell.Key, Err: err}
			}
			cell.Artifact = artifact
			out[cell.Spec.Col] = cell
			return nil
		})
	}
	return group.Wait()
}

func (a *Assembler) sample(raster TileRaster) Cell {
	sample := a.sampler.AverageColor(raster)
	return Cell{
		Spec:     raster.Spec,
		Color:    sample.Color,
		Key:      ToKey(sample.Color),
		Fallback: sample.Err,
	}
}

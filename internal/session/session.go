// Package session holds the explicit state of one exploration session: the
// raw upload, its normalized table, the capability set and the current
// selection. A Context is never modified; every interaction derives a new one.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/incidentscope-cli/internal/dataset"
	"github.com/KaramelBytes/incidentscope-cli/internal/filter"
	"github.com/KaramelBytes/incidentscope-cli/internal/incident"
	"github.com/KaramelBytes/incidentscope-cli/internal/normalize"
	"github.com/KaramelBytes/incidentscope-cli/internal/schema"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Context is an immutable session snapshot.
type Context struct {
	id       string
	revision int
	source   string
	sample   bool
	loadedAt time.Time

	raw      *dataset.Table
	table    *incident.Table
	caps     schema.Capabilities
	warnings []string

	selection filter.Selection
	result    filter.Result
}

// FromTable starts a session over an already decoded table. Detection and
// normalization run here, once.
func FromTable(raw *dataset.Table, sample bool) *Context {
	caps := schema.Detect(raw.Columns)
	norm := normalize.Normalize(raw, caps)
	c := &Context{
		id:       uuid.NewString(),
		source:   raw.Name,
		sample:   sample,
		loadedAt: time.Now(),
		raw:      raw,
		table:    norm.Table,
		caps:     norm.Caps,
		warnings: norm.Warnings,
	}
	c.selection = filter.Selection{}
	c.result = filter.Apply(c.table, c.caps, c.selection)
	return c
}

// Sample starts a session over the built-in illustrative table.
func Sample() *Context {
	return FromTable(dataset.Sample(), true)
}

// Upload decodes content named name and starts a session over it. A decode
// failure is returned as a *dataset.LoadError and no session is produced.
func Upload(name string, content []byte, cache *dataset.Cache, opt dataset.Options) (*Context, error) {
	var (
		raw *dataset.Table
		err error
	)
	if cache != nil {
		raw, err = cache.Load(name, content, opt)
	} else {
		raw, err = dataset.Load(name, content, opt)
	}
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("file", raw.Name).
		Str("size", humanize.Bytes(uint64(len(content)))).
		Int("rows", len(raw.Rows)).
		Int("columns", len(raw.Columns)).
		Msg("dataset loaded")
	return FromTable(raw, false), nil
}

// Open reads path and starts a session over it. An empty path opens the
// built-in sample.
func Open(path string, cache *dataset.Cache, opt dataset.Options) (*Context, error) {
	if path == "" {
		return Sample(), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &dataset.LoadError{Name: filepath.Base(path), Err: fmt.Errorf("read file: %w", err)}
	}
	return Upload(path, content, cache, opt)
}

// WithSelection derives the context for a new selection. Filtering is
// recomputed in full from the normalized table.
func (c *Context) WithSelection(sel filter.Selection) *Context {
	next := *c
	next.revision = c.revision + 1
	next.selection = sel.Clone()
	next.result = filter.Apply(c.table, c.caps, next.selection)
	log.Debug().
		Str("session", c.id).
		Int("revision", next.revision).
		Str("state", string(next.result.State)).
		Int("rows", next.result.Table.Len()).
		Msg("selection applied")
	return &next
}

// ID identifies the upload; it is stable across selection changes.
func (c *Context) ID() string { return c.id }

// Revision counts selection changes since the upload.
func (c *Context) Revision() int { return c.revision }

// Source is the uploaded file name, or the sample name.
func (c *Context) Source() string { return c.source }

// IsSample reports whether the built-in sample is in effect.
func (c *Context) IsSample() bool { return c.sample }

// LoadedAt is when the upload was decoded.
func (c *Context) LoadedAt() time.Time { return c.loadedAt }

// Raw is the decoded table before normalization.
func (c *Context) Raw() *dataset.Table { return c.raw }

// Table is the normalized, unfiltered table.
func (c *Context) Table() *incident.Table { return c.table }

// Capabilities is the feature set of the session.
func (c *Context) Capabilities() schema.Capabilities { return c.caps }

// Warnings lists normalization notes for the user.
func (c *Context) Warnings() []string { return append([]string(nil), c.warnings...) }

// Selection is a copy of the current selection.
func (c *Context) Selection() filter.Selection { return c.selection.Clone() }

// Result is the current filter outcome.
func (c *Context) Result() filter.Result { return c.result }

// Working is the filtered table the views consume.
func (c *Context) Working() *incident.Table { return c.result.Table }

// NoData reports the empty-selection terminal state.
func (c *Context) NoData() bool { return c.result.State == filter.NoData }

// Controls describes the filter widgets for the current selection.
func (c *Context) Controls() []filter.Control {
	return filter.Controls(c.table, c.caps, c.selection)
}

package links

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/ledger"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/go-resty/resty/v2"
)

// ErrObjectPathTaken is returned when a link's object path, and its
// fallback, already belong to another link of the same run.
var ErrObjectPathTaken = errors.New("object path taken by another link")

// ObjectStore is the storage the migrator uploads into.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, objectPath string, body []byte, contentType string, upsert bool) error
	Remove(ctx context.Context, bucket string, objectPaths ...string) error
	PublicURL(bucket, objectPath string) string
}

// MigrateReport summarizes a migration run.
type MigrateReport struct {
	Migrated int // Uploaded in this run
	Reused   int // Found in the ledger
	Renamed  int // Uploaded under a fallback name
	Failed   int
	Failures []Failure
}

// Migrator moves linked files into object storage and points the cells at
// their new public URLs.
type Migrator struct {
	fetcher *resty.Client
	store   ObjectStore
	router  *Router
	ledger  ledger.Ledger
	limiter *Limiter
	workers int
}

// MigratorOptions wires a Migrator. Ledger and Limiter are optional.
type MigratorOptions struct {
	Fetcher *resty.Client
	Store   ObjectStore
	Router  *Router
	Ledger  ledger.Ledger
	Limiter *Limiter
	Workers int
}

// NewMigrator creates a migrator.
func NewMigrator(opts MigratorOptions) *Migrator {
	l := opts.Ledger
	if l == nil {
		l = ledger.Noop{}
	}
	router := opts.Router
	if router == nil {
		router = NewRouter("")
	}
	return &Migrator{
		fetcher: opts.Fetcher,
		store:   opts.Store,
		router:  router,
		ledger:  l,
		limiter: opts.Limiter,
		workers: opts.Workers,
	}
}

// cell is one link to migrate.
type cell struct {
	Row    int
	Column string
	URL    string // Normalized
}

// migrated is the outcome of one cell.
type migrated struct {
	publicURL string
	reused    bool
	renamed   bool
}

// Migrate uploads every bubble.io file referenced by s, a table of the given
// kind, and replaces each link with the file's public URL. Cells whose file
// fails keep their original link and are listed in the report.
func (m *Migrator) Migrate(ctx context.Context, s *core.Sheet, kind string) (*MigrateReport, error) {
	def, ok := core.Get(kind)
	if !ok {
		return nil, &core.UnknownTableKindError{Kind: kind}
	}

	cols := FileColumns(s)
	if len(cols) == 0 {
		return nil, ErrNoFileColumns
	}

	var cells []cell
	for i, row := range s.Rows {
		for _, col := range cols {
			if v := row.Text(col); IsBubbleURL(v) {
				cells = append(cells, cell{Row: i, Column: col, URL: NormalizeURL(v)})
			}
		}
	}

	log := logging.FromContext(ctx).With(slog.String("table", kind))
	log.Info("migration started", slog.Int("files", len(cells)), slog.Any("columns", cols))

	counter := NewCounter()
	claims := newPathClaims()
	results := make([]migrated, len(cells))

	// Rows are only read while the workers run; cells are rewritten after.
	errs, runErr := run(ctx, len(cells), m.workers, func(ctx context.Context, i int) error {
		c := cells[i]
		seq := Sequence{Counter: counter, Table: kind, Column: core.NormalizeColumn(c.Column)}
		var err error
		results[i], err = m.migrateOne(ctx, def, s.Rows[c.Row], c, seq, claims)
		return err
	})

	report := &MigrateReport{}
	for i, c := range cells {
		if err := errs[i]; err != nil {
			report.Failed++
			report.Failures = append(report.Failures, Failure{Row: c.Row, Column: c.Column, URL: c.URL, Err: err})
			log.Warn("file migration failed",
				slog.Int("row", c.Row),
				slog.String("column", c.Column),
				slog.String("url", c.URL),
				slog.String("error", err.Error()),
			)
			continue
		}

		r := results[i]
		s.Rows[c.Row][c.Column] = r.publicURL
		switch {
		case r.reused:
			report.Reused++
		case r.renamed:
			report.Renamed++
			report.Migrated++
		default:
			report.Migrated++
		}
	}

	log.Info("migration finished",
		slog.Int("migrated", report.Migrated),
		slog.Int("reused", report.Reused),
		slog.Int("renamed", report.Renamed),
		slog.Int("failed", report.Failed),
		slotsAttr(m.limiter),
	)

	if runErr != nil {
		return report, fmt.Errorf("migrate: %w", runErr)
	}
	return report, nil
}

func (m *Migrator) migrateOne(ctx context.Context, def core.TableDefinition, row core.Row, c cell, seq Sequence, claims *pathClaims) (migrated, error) {
	if e, ok, err := m.ledger.Lookup(ctx, c.URL); err != nil {
		logging.FromContext(ctx).Warn("ledger lookup failed", slog.String("url", c.URL), slog.String("error", err.Error()))
	} else if ok {
		return migrated{publicURL: e.PublicURL, reused: true}, nil
	}

	// Ledger hits above need no slot; the transfer below does.
	release, err := acquire(ctx, m.limiter)
	if err != nil {
		return migrated{}, err
	}
	defer release()

	body, err := m.download(ctx, c.URL)
	if err != nil {
		return migrated{}, err
	}
	contentType := detectMIME(body)

	name := OriginalName(c.URL)
	dest := m.router.Resolve(def, c.Column, name)
	objectPath := dest.ObjectPath(name)

	var out migrated
	if claims.claim(dest.Bucket, objectPath, c.URL) {
		err = m.put(ctx, dest.Bucket, objectPath, body, contentType)
	} else {
		err = ErrObjectPathTaken
	}

	var status *StatusError
	if errors.Is(err, ErrObjectPathTaken) || (errors.As(err, &status) && status.IsBadRequest()) {
		retryName := fallbackName(dest, seq, row, fileExt(name, body))
		logging.FromContext(ctx).Debug("object name unusable, retrying",
			slog.String("name", name),
			slog.String("retry", retryName),
			slog.String("reason", err.Error()),
		)
		objectPath = dest.ObjectPath(retryName)
		if claims.claim(dest.Bucket, objectPath, c.URL) {
			err = m.put(ctx, dest.Bucket, objectPath, body, contentType)
		} else {
			err = fmt.Errorf("%w: %s/%s", ErrObjectPathTaken, dest.Bucket, objectPath)
		}
		out.renamed = true
	}
	if err != nil {
		return migrated{}, err
	}

	out.publicURL = m.store.PublicURL(dest.Bucket, objectPath)

	rec := ledger.Entry{
		SourceURL:   c.URL,
		Bucket:      dest.Bucket,
		ObjectPath:  objectPath,
		PublicURL:   out.publicURL,
		ContentType: contentType,
		Size:        int64(len(body)),
		TableKind:   def.Info.Kind,
		ColumnName:  core.NormalizeColumn(c.Column),
	}
	if err := m.ledger.Record(ctx, rec); err != nil {
		logging.FromContext(ctx).Warn("ledger record failed", slog.String("url", c.URL), slog.String("error", err.Error()))
	}
	return out, nil
}

// put replaces any object at objectPath with body. A failed removal is not
// an error; the object usually does not exist yet.
func (m *Migrator) put(ctx context.Context, bucket, objectPath string, body []byte, contentType string) error {
	if err := m.store.Remove(ctx, bucket, objectPath); err != nil {
		logging.FromContext(ctx).Debug("remove before upload failed",
			slog.String("bucket", bucket),
			slog.String("path", objectPath),
			slog.String("error", err.Error()),
		)
	}
	return m.store.Upload(ctx, bucket, objectPath, body, contentType, false)
}

// pathClaims records which link owns each object path during one run, so
// two different files never land on the same object.
type pathClaims struct {
	mu    sync.Mutex
	owner map[string]string
}

func newPathClaims() *pathClaims {
	return &pathClaims{owner: make(map[string]string)}
}

// claim reports whether u may write bucket/objectPath. The first link to
// ask owns the path; asking again with the same link succeeds.
func (p *pathClaims) claim(bucket, objectPath, u string) bool {
	key := bucket + "/" + objectPath

	p.mu.Lock()
	defer p.mu.Unlock()
	if owner, ok := p.owner[key]; ok {
		return owner == u
	}
	p.owner[key] = u
	return true
}

func (m *Migrator) download(ctx context.Context, u string) ([]byte, error) {
	resp, err := m.fetcher.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", u, err)
	}
	if resp.IsError() {
		return nil, &StatusError{Op: "download", Code: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

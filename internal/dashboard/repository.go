package dashboard

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/medvision/internal/reports"
	"github.com/JaimeStill/medvision/internal/results"
	"github.com/JaimeStill/medvision/internal/sessions"
	"github.com/JaimeStill/medvision/pkg/pagination"
	"github.com/JaimeStill/medvision/pkg/query"
	"github.com/JaimeStill/medvision/pkg/repository"
	"github.com/JaimeStill/medvision/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	sessions   sessions.System
	reports    reports.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates the dashboard repository.
func New(
	db *sql.DB,
	store storage.System,
	sess sessions.System,
	exporter reports.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		sessions:   sess,
		reports:    exporter,
		logger:     logger.With("system", "dashboard"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.sessions, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[SavedReport], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Diagnosis", "PatientFile")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count saved reports: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSavedReport)
	if err != nil {
		return nil, fmt.Errorf("query saved reports: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*SavedReport, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	sr, err := repository.QueryOne(ctx, r.db, q, args, scanSavedReport)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &sr, nil
}

func (r *repo) Save(ctx context.Context, sess *sessions.Session) (*SavedReport, error) {
	result, category, err := sess.Result()
	if err != nil {
		return nil, err
	}

	doc := r.reports.Build(result, category, sess.File(), time.Now())

	pdf, err := r.reports.Render(doc, reports.FormatPDF)
	if err != nil {
		return nil, err
	}
	html, err := r.reports.Render(doc, reports.FormatHTML)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(results.Envelope{Result: result})
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	id := uuid.New()
	pdfKey := buildStorageKey(id, pdf.Filename)
	htmlKey := buildStorageKey(id, html.Filename)

	if err := r.upload(ctx, map[string]*reports.Artifact{pdfKey: pdf, htmlKey: html}); err != nil {
		r.discard(ctx, pdfKey, htmlKey)
		return nil, err
	}

	d := result.Display()
	info, _ := reports.Find[reports.InfoSection](doc)

	q := `
		INSERT INTO saved_reports(id, session_id, category, kind, title, diagnosis, confidence, severity, patient_file, stem, pdf_key, html_key, pdf_size, html_size, pdf_pages, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, session_id, category, kind, title, diagnosis, confidence, severity, patient_file, stem, pdf_key, html_key, pdf_size, html_size, pdf_pages, result, saved_at`

	insertArgs := []any{
		id,
		sess.ID(),
		category,
		string(result.Kind()),
		d.Title,
		d.Diagnosis,
		d.Confidence,
		d.Severity,
		info.PatientFile,
		doc.Stem,
		pdfKey,
		htmlKey,
		int64(len(pdf.Data)),
		int64(len(html.Data)),
		pdf.Pages,
		payload,
	}

	sr, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (SavedReport, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanSavedReport)
	})

	if err != nil {
		r.discard(ctx, pdfKey, htmlKey)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("report saved", "id", sr.ID, "session", sr.SessionID, "category", sr.Category)
	return &sr, nil
}

func (r *repo) Download(ctx context.Context, id uuid.UUID, format reports.Format) (*storage.Blob, string, error) {
	sr, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	key := sr.PDFKey
	if format == reports.FormatHTML {
		key = sr.HTMLKey
	}

	blob, err := r.storage.Download(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", format, err)
	}
	if blob.ContentType == "" {
		blob.ContentType = format.ContentType()
	}

	return blob, sr.Stem + "." + string(format), nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	sr, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM saved_reports WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.discard(ctx, sr.PDFKey, sr.HTMLKey)

	r.logger.Info("saved report deleted", "id", id)
	return nil
}

func (r *repo) upload(ctx context.Context, artifacts map[string]*reports.Artifact) error {
	g, gctx := errgroup.WithContext(ctx)

	for key, a := range artifacts {
		g.Go(func() error {
			if err := r.storage.Upload(gctx, key, bytes.NewReader(a.Data), a.ContentType()); err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			return nil
		})
	}

	return g.Wait()
}

// discard removes blobs left behind by a failed save or a deleted record.
func (r *repo) discard(ctx context.Context, keys ...string) {
	for _, key := range keys {
		err := r.storage.Delete(context.WithoutCancel(ctx), key)
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("blob delete failed", "key", key, "error", err)
		}
	}
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("reports/%s/%s", id, filename)
}

package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"gridimport/domain/core"
	"gridimport/domain/imports"
	"gridimport/domain/ingestion"
	"gridimport/domain/table"
	"gridimport/internal"
	"gridimport/internal/coercion"
	"gridimport/internal/guess"
	"gridimport/internal/profiling"
	"gridimport/internal/report"
	"gridimport/ports"
)

// ImportOptions selects which containers get text guessing
type ImportOptions struct {
	GuessCSV  bool
	GuessXLSX bool
}

// DefaultImportOptions guesses CSV only; xlsx cells carry native tags
func DefaultImportOptions() ImportOptions {
	return ImportOptions{GuessCSV: true}
}

// ImportService turns spreadsheet files into typed tables
type ImportService struct {
	reader   ports.WorkbookReader
	engine   *coercion.Engine
	guesser  *guess.Guesser
	profiler *profiling.Profiler
	repo     ports.ImportRepository
	events   ports.ImportEventPublisher
	options  ImportOptions
	logger   *internal.Logger
	now      func() time.Time
}

// NewImportService creates an import service. repo may be nil, in which
// case Import parses without storing.
func NewImportService(reader ports.WorkbookReader, engine *coercion.Engine, guesser *guess.Guesser, repo ports.ImportRepository, options ImportOptions, logger *internal.Logger) *ImportService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if guesser == nil {
		guesser = guess.NewGuesser(guess.DefaultConfig())
	}
	return &ImportService{
		reader:   reader,
		engine:   engine,
		guesser:  guesser,
		profiler: profiling.NewProfiler(),
		repo:     repo,
		options:  options,
		logger:   logger,
		now:      time.Now,
	}
}

// WithEvents publishes import lifecycle events to p
func (s *ImportService) WithEvents(p ports.ImportEventPublisher) *ImportService {
	s.events = p
	return s
}

func (s *ImportService) publish(eventType imports.EventType, rec *imports.Record) {
	if s.events == nil {
		return
	}
	s.events.Publish(imports.Event{
		Type:       eventType,
		ImportID:   rec.ID,
		Filename:   rec.OriginalFilename,
		TableCount: len(rec.Tables),
		Warnings:   len(rec.Warnings),
		Error:      rec.ErrorMessage,
		Timestamp:  s.now().UTC(),
	})
}

// Supports reports whether filename has a readable extension
func (s *ImportService) Supports(filename string) bool {
	return s.reader.Supports(filename)
}

// ParseFile reads the file at path and returns one typed table per non-empty
// sheet, in workbook order. originalFilename picks the container format.
// Reader errors are returned as they are.
func (s *ImportService) ParseFile(ctx context.Context, path, originalFilename string) ([]string, []table.Table, error) {
	start := time.Now()

	wb, err := s.reader.Read(ctx, path, originalFilename)
	if err != nil {
		return nil, nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", core.ErrEmptyWorkbook, originalFilename)
	}

	warnings := []string{}
	tables := make([]table.Table, 0, len(wb.Sheets))
	for _, sheet := range wb.Sheets {
		t, results, err := s.engine.ProcessSheet(ctx, sheet)
		if err != nil {
			return nil, nil, err
		}
		if len(t.ColumnMetadata) == 0 {
			warnings = append(warnings, fmt.Sprintf("sheet %q has no data and was skipped", sheet.Name))
			continue
		}

		for i, res := range results {
			warnings = append(warnings, res.Warnings...)
			if s.shouldGuess(wb.Format) && res.Type == table.ColumnAny && res.Summary.PureText() {
				warnings = append(warnings, s.applyGuess(&t, i, sheet.Name, res)...)
			}
		}
		tables = append(tables, t)
	}

	s.logger.Info("[ImportService] parsed %s: %d tables, %d warnings in %.2fms",
		originalFilename, len(tables), len(warnings), float64(time.Since(start).Nanoseconds())/1e6)

	return warnings, tables, nil
}

// Parse is ParseFile returning a single result value
func (s *ImportService) Parse(ctx context.Context, path, originalFilename string) (*table.ParseResult, error) {
	warnings, tables, err := s.ParseFile(ctx, path, originalFilename)
	if err != nil {
		return nil, err
	}
	return &table.ParseResult{Warnings: warnings, Tables: tables}, nil
}

func (s *ImportService) shouldGuess(format ingestion.Format) bool {
	if format.Textual() {
		return s.options.GuessCSV
	}
	return s.options.GuessXLSX
}

// applyGuess retypes column idx of t in place when the guesser accepts it
func (s *ImportService) applyGuess(t *table.Table, idx int, sheet string, res coercion.ColumnResult) []string {
	texts := make([]string, len(res.Values))
	for i, v := range res.Values {
		texts[i] = v.Text
	}

	guessed, ok := s.guesser.Guess(texts)
	if !ok {
		return nil
	}
	t.ColumnMetadata[idx].Type = guessed.Type
	t.TableData[idx] = guessed.Values

	s.logger.Debug("[ImportService] sheet %q column %q guessed as %s (%s)", sheet, res.ID, guessed.Type, guessed.Format)

	if guessed.Unparsed == 0 {
		return nil
	}
	return []string{fmt.Sprintf("sheet %q column %q: %d values did not parse as %s and were kept as text",
		sheet, res.ID, guessed.Unparsed, guessed.Kind)}
}

// Import parses the file at path and stores the outcome. A failed parse is
// stored with status failed and its error is returned.
func (s *ImportService) Import(ctx context.Context, path, originalFilename string) (*imports.Record, error) {
	start := time.Now()
	rec := &imports.Record{
		ID:               core.NewImportID(),
		OriginalFilename: originalFilename,
		Format:           ingestion.FormatOf(originalFilename),
		Warnings:         []string{},
		Tables:           []table.Table{},
		CreatedAt:        s.now().UTC(),
	}

	hash, size, err := fingerprint(path)
	if err != nil {
		return nil, core.NewUnreadableFileError(originalFilename, err)
	}
	rec.ContentHash = hash
	rec.SizeBytes = size
	s.publish(imports.EventStarted, rec)

	warnings, tables, parseErr := s.ParseFile(ctx, path, originalFilename)
	rec.DurationMS = time.Since(start).Milliseconds()
	if parseErr != nil {
		rec.Status = imports.StatusFailed
		rec.ErrorMessage = parseErr.Error()
		s.logger.Warn("[ImportService] import %s of %s failed: %v", rec.ID, originalFilename, parseErr)
	} else {
		rec.Status = imports.StatusReady
		rec.Warnings = warnings
		rec.Tables = tables
	}

	if s.repo != nil && ctx.Err() == nil {
		if err := s.repo.Save(ctx, rec); err != nil {
			return nil, fmt.Errorf("failed to save import %s: %w", rec.ID, err)
		}
	}
	if parseErr != nil {
		s.publish(imports.EventFailed, rec)
		return rec, parseErr
	}
	s.publish(imports.EventCompleted, rec)

	s.logger.Info("[ImportService] import %s stored (%s, hash %s)", rec.ID, originalFilename, hash.Short())
	return rec, nil
}

// Get returns a stored import
func (s *ImportService) Get(ctx context.Context, id core.ImportID) (*imports.Record, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("%w: %s", core.ErrImportNotFound, id)
	}
	return s.repo.Get(ctx, id)
}

// List returns stored imports, newest first
func (s *ImportService) List(ctx context.Context, limit, offset int) ([]imports.Summary, error) {
	if s.repo == nil {
		return []imports.Summary{}, nil
	}
	return s.repo.List(ctx, limit, offset)
}

// Profile computes column profiles for tables
func (s *ImportService) Profile(tables []table.Table) []profiling.TableProfile {
	return s.profiler.ProfileTables(tables)
}

// Report renders the HTML report of a stored import
func (s *ImportService) Report(ctx context.Context, id core.ImportID) ([]byte, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return report.HTML(ReportInput(rec, s.Profile(rec.Tables))), nil
}

// ReportInput assembles the report view of a record
func ReportInput(rec *imports.Record, profiles []profiling.TableProfile) report.Input {
	return report.Input{
		Filename:  rec.OriginalFilename,
		ImportID:  rec.ID.String(),
		CreatedAt: rec.CreatedAt,
		Warnings:  rec.Warnings,
		Tables:    rec.Tables,
		Profiles:  profiles,
	}
}

func fingerprint(path string) (core.Hash, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", 0, err
	}
	hash, err := core.HashReader(f)
	if err != nil {
		return "", 0, err
	}
	return hash, info.Size(), nil
}

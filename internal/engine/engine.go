// Package engine orchestrates the capture-classify-save session flow.
// It owns the session state machine and coordinates the classifier,
// disposal advisor, locator, and history store.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ecosnap/ecosnap/internal/common"
	"github.com/ecosnap/ecosnap/internal/history"
	"github.com/ecosnap/ecosnap/internal/imaging"
	"github.com/ecosnap/ecosnap/internal/model"
	"github.com/ecosnap/ecosnap/internal/service"
	"github.com/ecosnap/ecosnap/internal/vision"
)

// ErrInvalidTransition is returned when an operation is invoked from a
// state that does not permit it.
var ErrInvalidTransition = errors.New("invalid state transition")

// Classifier produces a classification outcome for an image. Satisfied
// by vision.Classifier.
type Classifier interface {
	Classify(ctx context.Context, img imaging.TransportImage) vision.Outcome
}

// Session is a snapshot of the current flow state handed to callers.
// Err holds the last user-facing error message, cleared on the next
// image selection.
type Session struct {
	State    State
	Image    imaging.TransportImage
	Result   *model.ClassificationRecord
	Err      string
	DetailID string
}

// Config wires the engine's collaborators. Locator may be nil, in
// which case suggestions omit facility ranking.
type Config struct {
	Classifier Classifier
	Advisor    service.Advisor
	Locator    service.Locator
	History    *history.Store
	Logger     *slog.Logger
}

// Engine drives a single classification session over a shared history.
// It is safe for concurrent use: a mutex guards the session and the
// history store, and is released while the remote classification call
// runs so snapshot reads never block on it.
type Engine struct {
	classifier Classifier
	advisor    service.Advisor
	locator    service.Locator
	logger     *slog.Logger

	mu      sync.Mutex
	history *history.Store
	session Session

	location    *model.Location
	locResolved bool
}

// New validates the wiring and returns a ready engine in the idle
// state.
func New(cfg Config) (*Engine, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if cfg.Advisor == nil {
		return nil, fmt.Errorf("advisor is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		classifier: cfg.Classifier,
		advisor:    cfg.Advisor,
		locator:    cfg.Locator,
		history:    cfg.History,
		logger:     logger,
		session:    Session{State: StateIdle},
	}, nil
}

// Session returns a copy of the current session snapshot.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

// History exposes the underlying history store for single-threaded
// surfaces like the CLI. Concurrent callers use HistoryEntries and
// HistoryEntry instead.
func (e *Engine) History() *history.Store {
	return e.history
}

// HistoryEntries returns the stored records, newest first.
func (e *Engine) HistoryEntries() []model.ClassificationRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Entries()
}

// HistoryEntry looks up one stored record by id.
func (e *Engine) HistoryEntry(id string) (model.ClassificationRecord, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Get(id)
}

// SelectImage installs a new source image and resets any prior result
// or error. Valid from every state.
func (e *Engine) SelectImage(img imaging.TransportImage) error {
	if img.Empty() {
		return common.NewUserError("No image data was provided.", common.ErrNotImage)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Image = img
	e.session.Result = nil
	e.session.Err = ""
	e.session.State = StateImageSelected
	return nil
}

// SelectImageFile encodes raw file bytes and installs them as the
// session image. A decode failure leaves the session untouched.
func (e *Engine) SelectImageFile(raw []byte) error {
	img, err := imaging.EncodeFile(raw)
	if err != nil {
		return err
	}
	return e.SelectImage(img)
}

// Classify runs the selected image through the classifier, assembles
// the transient result record, and moves to ResultReady. A classifier
// configuration failure aborts back to ImageSelected with the image
// retained and a config-specific error message.
func (e *Engine) Classify(ctx context.Context) error {
	e.mu.Lock()
	if e.session.State != StateImageSelected || e.session.Image.Empty() {
		defer e.mu.Unlock()
		return fmt.Errorf("classify from %s: %w", e.session.State, ErrInvalidTransition)
	}
	e.session.State = StateClassifying
	e.session.Err = ""
	img := e.session.Image
	e.mu.Unlock()

	loc := e.resolveLocation(ctx)
	outcome := e.classifier.Classify(ctx, img)

	e.mu.Lock()
	defer e.mu.Unlock()

	if outcome.Category == model.CategoryUnknown && strings.Contains(outcome.Reasoning, "API Key") {
		e.session.State = StateImageSelected
		e.session.Err = fmt.Sprintf("Classification failed: %s Please ensure the API key is correctly configured.", outcome.Reasoning)
		return common.NewUserError(e.session.Err, common.ErrMissingAPIKey)
	}

	confidence := outcome.Confidence
	record := &model.ClassificationRecord{
		ImageData:   img.Data,
		ImageMIME:   img.MIME,
		Category:    outcome.Category,
		Confidence:  &confidence,
		Reasoning:   outcome.Reasoning,
		Suggestions: e.advisor.Suggest(outcome.Category, loc),
		Timestamp:   time.Now().UnixMilli(),
		Location:    loc,
	}

	e.session.Result = record
	e.session.State = StateResultReady

	e.logger.Debug("classification complete",
		"category", outcome.Category,
		"confidence", outcome.Confidence)
	return nil
}

// Save persists the current result to history with a thumbnail in
// place of the full image. Saving an already-saved result is a no-op;
// any other state is a transition error.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.session.State {
	case StateSaved:
		return nil
	case StateResultReady:
	default:
		return fmt.Errorf("save from %s: %w", e.session.State, ErrInvalidTransition)
	}

	record := *e.session.Result
	record.ID = model.NewRecordID()

	thumb := imaging.Thumbnail(imaging.TransportImage{
		Data: record.ImageData,
		MIME: record.ImageMIME,
	})
	record.ImageData = thumb.Data
	record.ImageMIME = thumb.MIME

	if err := e.history.Append(ctx, record); err != nil {
		e.session.Err = "Could not save the result to history."
		return fmt.Errorf("saving record: %w", err)
	}

	e.session.Result = &record
	e.session.State = StateSaved
	return nil
}

// OpenDetail marks a history entry as being viewed. Unknown ids are
// ignored.
func (e *Engine) OpenDetail(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.history.Get(id); ok {
		e.session.DetailID = id
	}
}

// CloseDetail clears the open detail view, if any.
func (e *Engine) CloseDetail() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.DetailID = ""
}

// DeleteHistoryItem removes one entry. If its detail view is open it
// is closed. Valid from every state; the session flow is unaffected.
func (e *Engine) DeleteHistoryItem(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.history.Remove(ctx, id); err != nil {
		return fmt.Errorf("deleting history item: %w", err)
	}
	if e.session.DetailID == id {
		e.session.DetailID = ""
	}
	return nil
}

// ClearHistory removes every entry and closes any open detail view.
func (e *Engine) ClearHistory(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.history.Clear(ctx); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	e.session.DetailID = ""
	return nil
}

// resolveLocation fetches the device position once per engine and
// caches the result, including failure. Location problems degrade
// suggestions but never fail a classification.
func (e *Engine) resolveLocation(ctx context.Context) *model.Location {
	e.mu.Lock()
	if e.locResolved {
		defer e.mu.Unlock()
		return e.location
	}
	e.locResolved = true
	e.mu.Unlock()

	if e.locator == nil {
		return nil
	}

	lctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	loc, err := e.locator.CurrentPosition(lctx)
	if err != nil {
		e.logger.Warn("location unavailable, suggestions will omit nearby facilities", "error", err)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.location = &loc
	return e.location
}

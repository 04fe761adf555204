package form

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/hash"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/preview"
	"github.com/hydrosmart/reporter/internal/query"
	"github.com/hydrosmart/reporter/internal/types"
)

var tracer = otel.Tracer("github.com/hydrosmart/reporter/internal/form")

// Success banners are cleared after this long. Error banners stay until
// replaced.
const StatusTTL = 3 * time.Second

// Runs f once after d. The returned func cancels it.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func timeAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type Option func(*Form)

func WithAfterFunc(afterFunc AfterFunc) Option {
	return func(f *Form) {
		f.afterFunc = afterFunc
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(f *Form) {
		f.log = l
	}
}

// The in-progress, unsaved submission
type Draft struct {
	Image       *types.Image
	Preview     string
	Description string
	Location    *types.Location
}

// Point in time copy of the form, safe to keep
type Snapshot struct {
	Location        *types.Location
	Status          types.Status
	ImageName       string
	Preview         string
	Description     string
	Version         uint64
	State           State
	HasImage        bool
	LocationLoading bool
	// Whether the submit affordance is enabled
	CanSubmit bool
}

// Form is the submission controller: one draft, one banner and the
// idle → validating → submitting → succeeded|failed → idle lifecycle.
//
// All methods are safe for concurrent use. Location acquisition and preview
// conversion run in the background; Wait blocks until they finish.
// Subscribers are called outside the internal lock, possibly from
// background goroutines; Snapshot.Version orders deliveries.
type Form struct {
	locator   geo.Locator
	submitter query.Submitter
	previewer preview.Previewer
	afterFunc AfterFunc
	log       *slog.Logger

	pending sync.WaitGroup

	mu              sync.Mutex
	draft           Draft
	status          types.Status
	stopStatusTimer func() bool
	listeners       []listener
	statusSeq       uint64
	imageSeq        uint64
	version         uint64
	nextListener    int
	locating        int
	state           State
	closed          bool
}

type listener struct {
	fn func(Snapshot)
	id int
}

type notice struct {
	listeners []listener
	snap      Snapshot
}

func (n notice) send() {
	for _, l := range n.listeners {
		l.fn(n.snap)
	}
}

func New(
	locator geo.Locator,
	submitter query.Submitter,
	previewer preview.Previewer,
	opts ...Option,
) *Form {
	f := &Form{
		locator:   locator,
		submitter: submitter,
		previewer: previewer,
		afterFunc: timeAfterFunc,
		log:       logger.Logger,
		status:    types.NoStatus(),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.log = f.log.With("component", "form")
	return f
}

// Starts the first location acquisition
func (f *Form) Mount(ctx context.Context) {
	f.log.DebugContext(ctx, "mounting form")
	f.FetchLocation(ctx)
}

// Registers fn for every change. The returned func unsubscribes.
func (f *Form) Subscribe(fn func(Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextListener
	f.nextListener++
	f.listeners = append(f.listeners, listener{id: id, fn: fn})

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.listeners = slices.DeleteFunc(f.listeners, func(l listener) bool { return l.id == id })
	}
}

func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Blocks until every background acquisition and conversion started so far
// has finished
func (f *Form) Wait() {
	f.pending.Wait()
}

// Tears the form down. Pending timers are stopped and background work that
// finishes later no longer touches the form.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	f.closed = true
	if f.stopStatusTimer != nil {
		f.stopStatusTimer()
		f.stopStatusTimer = nil
	}
	f.listeners = nil
}

// Queries the locator once in the background.
//
// Calls are not deduplicated. Completions apply in arrival order, so a slow
// earlier query can overwrite the fix of a later one.
// TODO: decide whether overlapping acquisitions should be coalesced or
// sequenced; today the last completion wins.
func (f *Form) FetchLocation(ctx context.Context) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.locating++
	f.pending.Add(1)
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()

	go func() {
		defer f.pending.Done()
		f.locate(ctx)
	}()
}

func (f *Form) locate(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "Form.FetchLocation")
	defer span.End()

	loc, err := f.locator.Locate(ctx)

	f.mu.Lock()
	f.locating--
	if f.closed {
		f.mu.Unlock()
		span.SetStatus(codes.Ok, "form closed before location arrived")
		return
	}

	if err != nil {
		f.setStatusLocked(types.ErrorStatus(locationMessage(err)))
	} else {
		f.draft.Location = &loc
		f.setStatusLocked(types.SuccessStatus(MsgLocationCaptured))
	}
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()

	if err != nil {
		f.log.WarnContext(ctx, "failed to acquire location", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to acquire location")
		return
	}

	f.log.DebugContext(ctx, "acquired location", "location", loc.String())
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "acquired location")
}

// Replaces the draft image and starts converting it for preview. The prior
// preview stays until the conversion finishes.
func (f *Form) SelectImage(ctx context.Context, image types.Image) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.imageSeq++
	seq := f.imageSeq
	f.draft.Image = &image
	f.pending.Add(1)
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()

	if f.log.Enabled(ctx, slog.LevelDebug) {
		f.log.DebugContext(ctx, "selected image",
			"name", image.Name,
			"size", image.Size(),
			"digest", hash.Short(hash.Image(image)),
		)
	}

	go func() {
		defer f.pending.Done()
		f.convert(ctx, seq, image)
	}()
}

func (f *Form) convert(ctx context.Context, seq uint64, image types.Image) {
	ctx, span := tracer.Start(ctx, "Form.convert", trace.WithAttributes(
		attribute.String("name", image.Name),
	))
	defer span.End()

	encoded, err := f.previewer.Preview(ctx, image)

	f.mu.Lock()
	if f.closed || seq != f.imageSeq {
		f.mu.Unlock()
		span.SetStatus(codes.Ok, "image replaced before preview finished")
		return
	}
	if err != nil {
		f.draft.Preview = ""
	} else {
		f.draft.Preview = encoded
	}
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()

	if err != nil {
		f.log.WarnContext(ctx, "failed to build preview", "name", image.Name, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build preview")
		return
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "built preview")
}

func (f *Form) SetDescription(description string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.draft.Description = description
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()
}

// Validates the draft and, when complete, sends it with exactly one request.
//
// Returns a *ValidationError when the draft is incomplete, ErrSubmitInProgress
// when another submission is in flight, or the submitter error. Whatever the
// outcome the form settles back to StateIdle with the banner set.
func (f *Form) Submit(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Form.Submit")
	defer span.End()

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		span.RecordError(ErrClosed)
		span.SetStatus(codes.Error, "form closed")
		return ErrClosed
	}
	if f.state != StateIdle {
		f.mu.Unlock()
		span.RecordError(ErrSubmitInProgress)
		span.SetStatus(codes.Error, "submission in flight")
		return ErrSubmitInProgress
	}

	f.state = StateValidating
	submission, verr := f.validateLocked()
	if verr != nil {
		f.setStatusLocked(types.ErrorStatus(verr.Message))
		f.state = StateIdle
		n := f.changedLocked()
		f.mu.Unlock()
		n.send()

		f.log.DebugContext(ctx, "draft incomplete", "field", verr.Field)
		span.RecordError(verr)
		span.SetStatus(codes.Error, "draft incomplete")
		return verr
	}

	f.state = StateSubmitting
	f.setStatusLocked(types.NoStatus())
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()

	_, err := f.submitter.Submit(ctx, submission)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		span.SetStatus(codes.Ok, "form closed during submission")
		return err
	}
	if err != nil {
		f.state = StateFailed
		f.setStatusLocked(types.ErrorStatus(submitMessage(err)))
	} else {
		f.state = StateSucceeded
		f.imageSeq++
		f.draft.Image = nil
		f.draft.Preview = ""
		f.draft.Description = ""
		f.setStatusLocked(types.SuccessStatus(MsgSubmitted))
	}
	settled := f.changedLocked()
	f.state = StateIdle
	idle := f.changedLocked()
	f.mu.Unlock()
	settled.send()
	idle.send()

	if err != nil {
		f.log.WarnContext(ctx, "submission failed", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
		return err
	}

	f.log.InfoContext(ctx, "submission accepted")

	// pre-populate the next draft; must outlive the caller's request scope
	f.FetchLocation(context.WithoutCancel(ctx))

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted")
	return nil
}

func (f *Form) validateLocked() (query.Submission, *ValidationError) {
	switch {
	case f.draft.Image == nil:
		return query.Submission{}, &ValidationError{Field: FieldImage, Message: MsgImageRequired}
	case strings.TrimSpace(f.draft.Description) == "":
		return query.Submission{}, &ValidationError{
			Field:   FieldDescription,
			Message: MsgDescriptionRequired,
		}
	case f.draft.Location == nil:
		return query.Submission{}, &ValidationError{
			Field:   FieldLocation,
			Message: MsgLocationRequired,
		}
	}

	return query.Submission{
		Image:       *f.draft.Image,
		Description: f.draft.Description,
		Location:    *f.draft.Location,
	}, nil
}

// Replaces the banner. Success banners schedule their own removal; the
// sequence check keeps an old timer from clearing a newer banner.
func (f *Form) setStatusLocked(status types.Status) {
	if f.stopStatusTimer != nil {
		f.stopStatusTimer()
		f.stopStatusTimer = nil
	}
	f.statusSeq++
	f.status = status

	if status.Kind != types.StatusSuccess {
		return
	}
	seq := f.statusSeq
	f.stopStatusTimer = f.afterFunc(StatusTTL, func() { f.expireStatus(seq) })
}

func (f *Form) expireStatus(seq uint64) {
	f.mu.Lock()
	if f.closed || seq != f.statusSeq {
		f.mu.Unlock()
		return
	}
	f.status = types.NoStatus()
	f.stopStatusTimer = nil
	n := f.changedLocked()
	f.mu.Unlock()
	n.send()
}

func (f *Form) changedLocked() notice {
	f.version++
	return notice{
		snap:      f.snapshotLocked(),
		listeners: slices.Clone(f.listeners),
	}
}

func (f *Form) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:         f.version,
		State:           f.state,
		HasImage:        f.draft.Image != nil,
		Preview:         f.draft.Preview,
		Description:     f.draft.Description,
		LocationLoading: f.locating > 0,
		Status:          f.status,
	}
	if f.draft.Image != nil {
		snap.ImageName = f.draft.Image.Name
	}
	if f.draft.Location != nil {
		loc := *f.draft.Location
		snap.Location = &loc
	}
	snap.CanSubmit = f.state == StateIdle && snap.Location != nil
	return snap
}

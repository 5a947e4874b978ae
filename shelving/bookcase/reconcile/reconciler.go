package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/createbookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/command/deletebookcase"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/bookcase/query/bookcases"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/core"
	"github.com/AntonStoeckl/dynamic-streams-shelving/shelving/shared/shell"
)

const (
	DefaultStaleAfter = time.Minute
	DefaultInterval   = 30 * time.Second

	logMsgPassCompleted = "reconcile pass completed"
	logMsgPassFailed    = "reconcile pass failed"
	logMsgFinding       = "dangling placement repaired"

	logAttrResumedDeletions = "resumed_deletions"
	logAttrResumedCreations = "resumed_creations"
	logAttrFindings         = "findings"
)

// Handlers are the bookcase handlers a pass drives.
type Handlers struct {
	Bookcases      shell.CoreQueryHandler[bookcases.Query, bookcases.Bookcases]
	CreateBookcase shell.CoreCommandHandler[createbookcase.Command]
	DeleteBookcase shell.CoreCommandHandler[deletebookcase.Command]
}

type Reconciler struct {
	handlers         Handlers
	shelves          bookcase.ShelfAccessPort
	staleAfter       time.Duration
	now              func() time.Time
	logger           shell.Logger
	contextualLogger shell.ContextualLogger
}

type Option func(*Reconciler)

// WithStaleAfter sets how old an incomplete creation must be before a pass resumes it.
// Younger ones may still be running.
func WithStaleAfter(d time.Duration) Option {
	return func(r *Reconciler) {
		r.staleAfter = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		r.now = now
	}
}

func WithLogger(logger shell.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(r *Reconciler) {
		r.contextualLogger = logger
	}
}

func NewReconciler(handlers Handlers, shelves bookcase.ShelfAccessPort, opts ...Option) *Reconciler {
	reconciler := &Reconciler{
		handlers:   handlers,
		shelves:    shelves,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(reconciler)
	}

	return reconciler
}

// ReconcileOnce runs one pass. A failing step does not stop the others; their errors are joined.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (Report, error) {
	var report Report
	var errs []error

	list, err := r.handlers.Bookcases.Handle(ctx, bookcases.BuildQueryIncludingDeleting())
	if err != nil {
		return report, err
	}

	staleBefore := r.now().Add(-r.staleAfter)

	for _, bc := range list.Bookcases {
		bookcaseID := core.MustBookcaseID(bc.BookcaseID)

		switch {
		case bc.Status == bookcases.StatusDeleting:
			if err = r.resumeDeletion(ctx, bookcaseID); err != nil {
				errs = append(errs, err)
				continue
			}

			report.ResumedDeletions = append(report.ResumedDeletions, bookcaseID)

		case bc.CreatedAt.Before(staleBefore):
			resumed, resumeErr := r.resumeCreation(ctx, bc)
			if resumeErr != nil {
				errs = append(errs, resumeErr)
				continue
			}

			if resumed {
				report.ResumedCreations = append(report.ResumedCreations, bookcaseID)
			}
		}
	}

	repaired, err := r.shelves.RepairDanglingPlacements(ctx)
	if err != nil {
		errs = append(errs, err)
	}

	for _, placement := range repaired {
		finding := Finding{Placement: placement}
		report.Findings = append(report.Findings, finding)
		r.logWarn(ctx, logMsgFinding, shell.LogAttrError, finding.Err().Error())
	}

	return report, errors.Join(errs...)
}

// Run reconciles every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		r.runPass(ctx)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Reconciler) runPass(ctx context.Context) {
	report, err := r.ReconcileOnce(ctx)
	if err != nil {
		r.logError(ctx, logMsgPassFailed, shell.LogAttrError, err.Error())
	}

	if !report.IsEmpty() {
		r.logInfo(ctx, logMsgPassCompleted,
			logAttrResumedDeletions, len(report.ResumedDeletions),
			logAttrResumedCreations, len(report.ResumedCreations),
			logAttrFindings, len(report.Findings),
		)
	}
}

func (r *Reconciler) resumeDeletion(ctx context.Context, bookcaseID core.BookcaseID) error {
	_, err := r.handlers.DeleteBookcase.Handle(ctx, deletebookcase.BuildCommand(bookcaseID, r.now()))

	return err
}

// resumeCreation replays the creation command when the bookcase has fewer shelves than it should.
func (r *Reconciler) resumeCreation(ctx context.Context, bc bookcases.Bookcase) (bool, error) {
	bookcaseID := core.MustBookcaseID(bc.BookcaseID)

	shelfIDs, err := r.shelves.ShelfIDsInBookcase(ctx, bookcaseID)
	if err != nil {
		return false, err
	}

	if len(shelfIDs) >= bc.ShelfCapacity {
		return false, nil
	}

	command := createbookcase.BuildCommand(
		bookcaseID,
		core.MustOwnerID(bc.OwnerID),
		bc.Label,
		bc.Location,
		bc.Zone,
		bc.ZoneIndex,
		bc.ShelfCapacity,
		bc.BookCapacityPerShelf,
		r.now(),
	)

	if _, err = r.handlers.CreateBookcase.Handle(ctx, command); err != nil {
		return false, err
	}

	return true, nil
}

func (r *Reconciler) logInfo(ctx context.Context, msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.InfoContext(ctx, msg, args...)
	case r.logger != nil:
		r.logger.Info(msg, args...)
	}
}

func (r *Reconciler) logWarn(ctx context.Context, msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.WarnContext(ctx, msg, args...)
	case r.logger != nil:
		r.logger.Warn(msg, args...)
	}
}

func (r *Reconciler) logError(ctx context.Context, msg string, args ...any) {
	switch {
	case r.contextualLogger != nil:
		r.contextualLogger.ErrorContext(ctx, msg, args...)
	case r.logger != nil:
		r.logger.Error(msg, args...)
	}
}

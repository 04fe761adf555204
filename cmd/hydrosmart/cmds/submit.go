package cmds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hydrosmart/reporter/internal/audit"
	"github.com/hydrosmart/reporter/internal/capture"
	"github.com/hydrosmart/reporter/internal/clierrors"
	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/query"
	"github.com/hydrosmart/reporter/internal/types"
)

var errNoLocation = errors.New("location still not available")

// First wait between re-acquisitions
var locateBackoff = time.Second

type submitOptions struct {
	imagePath      string
	description    string
	locateAttempts int
	json           bool
}

var submitOpts submitOptions
var submitLocation locationFlags

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit one photo with a description and the current location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		submitLocation.set = cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng")
		if submitLocation.set && !(cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng")) {
			return clierrors.ExitErrorWrap(
				types.ExitErrored,
				errors.New("--lat and --lng must be given together"),
			)
		}

		d, err := newDeps(submitLocation)
		if err != nil {
			return clierrors.ExitErrorWrap(types.ExitErrored, err)
		}

		return runSubmit(cmd.Context(), d, submitOpts, cmd.OutOrStdout())
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitOpts.imagePath, "image", "", "photo of the water quality issue")
	submitCmd.Flags().StringVar(&submitOpts.description, "description", "", "what is wrong with the water")
	submitCmd.Flags().Float64Var(&submitLocation.latitude, "lat", 0, "latitude, skips location lookup")
	submitCmd.Flags().Float64Var(&submitLocation.longitude, "lng", 0, "longitude, skips location lookup")
	submitCmd.Flags().IntVar(
		&submitOpts.locateAttempts,
		"locate-attempts",
		2,
		"extra location lookups when the first one fails",
	)
	submitCmd.Flags().BoolVar(&submitOpts.json, "json", false, "print JSON outcome events instead of text")

	rootCmd.AddCommand(submitCmd)
}

// Re-triggers acquisition until a fix arrives or attempts run out, the way a
// user would keep pressing "Enable"
func awaitLocation(ctx context.Context, f *form.Form, attempts int) error {
	if f.Snapshot().Location != nil {
		return nil
	}
	if attempts <= 0 {
		return errNoLocation
	}

	b := retry.NewFibonacci(locateBackoff)
	b = retry.WithMaxRetries(uint64(attempts-1), b)

	return retry.Do(ctx, b, func(ctx context.Context) error {
		f.FetchLocation(ctx)
		f.Wait()
		if f.Snapshot().Location == nil {
			return retry.RetryableError(errNoLocation)
		}
		return nil
	})
}

func runSubmit(ctx context.Context, d *deps, opts submitOptions, out io.Writer) error {
	ctx, span := tracer.Start(ctx, "runSubmit", trace.WithAttributes(
		attribute.String("image", opts.imagePath),
		attribute.Int("locateAttempts", opts.locateAttempts),
	))
	defer span.End()

	session := audit.NewContext()

	var image *types.Image
	if opts.imagePath != "" {
		img, err := capture.FromFile(ctx, opts.imagePath)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read image")
			if errors.Is(err, capture.ErrNotImage) {
				return clierrors.ExitErrorWrap(types.ExitValidation, err)
			}
			return clierrors.ExitErrorWrap(types.ExitErrored, err)
		}
		image = &img
	}

	f := d.newForm()
	defer f.Close()
	f.Mount(ctx)

	if image != nil {
		f.SelectImage(ctx, *image)
	}
	f.SetDescription(opts.description)
	f.Wait()

	locErr := awaitLocation(ctx, f, opts.locateAttempts)
	snap := f.Snapshot()
	switch {
	case locErr != nil:
		if opts.json {
			audit.LogLocationFailed(session, snap.Status.Message)
		} else {
			fmt.Fprintln(out, bannerLine(snap.Status))
		}
	case opts.json:
		audit.LogLocationCaptured(session, *snap.Location, form.MsgLocationCaptured)
	default:
		renderLocation(out, snap.Location)
	}

	// the follow-up acquisition replaces the banner quickly; keep the one
	// the submission settled with
	var banner types.Status
	unsubscribe := f.Subscribe(func(s form.Snapshot) {
		if s.State == form.StateSucceeded || s.State == form.StateFailed {
			banner = s.Status
		}
	})
	err := f.Submit(ctx)
	unsubscribe()
	if banner.Empty() {
		banner = f.Snapshot().Status
	}

	if !opts.json {
		fmt.Fprintln(out, bannerLine(banner))
	}

	code := submitExitCode(err)
	if opts.json {
		var verr *form.ValidationError
		var rejected *query.RejectedError
		switch {
		case err == nil:
			audit.LogSubmissionAccepted(session, image, d.submitter.Last(), banner.Message)
		case errors.As(err, &verr):
			audit.LogSubmissionInvalid(session, image, verr.Field, banner.Message)
		case errors.As(err, &rejected):
			audit.LogSubmissionRejected(session, image, rejected.StatusCode, banner.Message)
		default:
			audit.LogSubmissionFailed(session, image, banner.Message)
		}
	}

	// let the follow-up acquisition finish before tearing down
	f.Wait()

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission failed")
		return clierrors.ExitErrorWrap(code, err)
	}

	span.RecordError(nil)
	span.SetStatus(codes.Ok, "submitted")
	return nil
}

func submitExitCode(err error) int {
	var verr *form.ValidationError
	var rejected *query.RejectedError
	var network *query.NetworkError

	switch {
	case err == nil:
		return types.ExitNormal
	case errors.As(err, &verr):
		return types.ExitValidation
	case errors.As(err, &rejected):
		return types.ExitRejected
	case errors.As(err, &network):
		return types.ExitNetwork
	default:
		return types.ExitErrored
	}
}

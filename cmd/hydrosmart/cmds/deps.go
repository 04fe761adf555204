package cmds

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hydrosmart/reporter/internal/config"
	"github.com/hydrosmart/reporter/internal/form"
	"github.com/hydrosmart/reporter/internal/geo"
	"github.com/hydrosmart/reporter/internal/logger"
	"github.com/hydrosmart/reporter/internal/preview"
	"github.com/hydrosmart/reporter/internal/query"
	"github.com/hydrosmart/reporter/internal/types"
)

// Coordinates given on the command line win over the configured provider
type locationFlags struct {
	latitude  float64
	longitude float64
	set       bool
}

func newLocator(c *config.LocationConfig, flags locationFlags) (geo.Locator, error) {
	if flags.set {
		return geo.NewStatic(flags.latitude, flags.longitude)
	}

	switch c.Provider {
	case config.ProviderStatic:
		return geo.NewStatic(*c.Latitude, *c.Longitude)
	case config.ProviderIP:
		retryClient := retryablehttp.NewClient()
		retryClient.RetryMax = c.RetryMax
		retryClient.Logger = logger.Logger
		retryClient.HTTPClient.Transport = otelhttp.NewTransport(retryClient.HTTPClient.Transport)

		client := retryClient.StandardClient()
		client.Timeout = c.Timeout
		return geo.NewIPLocator(client, c.IPLookupURL), nil
	case config.ProviderNone:
		return geo.Unsupported{}, nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", c.Provider)
	}
}

// No client timeout: the submission is bounded by the transport only
func newSubmitter() (*query.HTTPSubmitter, error) {
	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	return query.NewHTTPSubmitter(client, config.Endpoint)
}

func newPreviewer(c *config.PreviewConfig) preview.Previewer {
	return preview.DataURL{MaxDimension: c.MaxDimension}
}

// Keeps the last accepted response so commands can report its id
type recordingSubmitter struct {
	query.Submitter

	last *types.QueryResponse
	mu   sync.Mutex
}

var _ query.Submitter = (*recordingSubmitter)(nil)

func (r *recordingSubmitter) Submit(
	ctx context.Context,
	submission query.Submission,
) (*types.QueryResponse, error) {
	resp, err := r.Submitter.Submit(ctx, submission)
	if err == nil {
		r.mu.Lock()
		r.last = resp
		r.mu.Unlock()
	}
	return resp, err
}

func (r *recordingSubmitter) Last() *types.QueryResponse {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

type deps struct {
	locator   geo.Locator
	submitter *recordingSubmitter
	previewer preview.Previewer
}

func newDeps(flags locationFlags) (*deps, error) {
	locator, err := newLocator(cfg.Location, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to create locator: %w", err)
	}

	submitter, err := newSubmitter()
	if err != nil {
		return nil, fmt.Errorf("failed to create submitter: %w", err)
	}

	return &deps{
		locator:   locator,
		submitter: &recordingSubmitter{Submitter: submitter},
		previewer: newPreviewer(cfg.Preview),
	}, nil
}

func (d *deps) newForm() *form.Form {
	return form.New(d.locator, d.submitter, d.previewer, form.WithLogger(logger.Logger))
}

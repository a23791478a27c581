// Package orchestrator drives the generate/download flow against the portal
// backend on behalf of an interactive client. It owns the per-action state
// so a UI only has to render what the callbacks report.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gestion-contratistas/portal/internal/common"
)

// State of a single document action. Transitions are strictly
// Idle -> Requesting -> Succeeded | Failed; a new action resets to
// Requesting again.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Affordance tells the UI which action to offer next.
type Affordance int

const (
	AffordanceGenerate Affordance = iota
	AffordanceDownload
)

// GenericErrorMessage is shown when the server answer cannot be understood.
const GenericErrorMessage = "Error al generar el documento"

// Result of a completed action. Message comes from the server verbatim.
type Result struct {
	URL     string
	Message string
}

type serverResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Orchestrator talks to the backend and keeps the action state. URL opening
// and UI updates happen through the injected callbacks; the orchestrator
// itself renders nothing.
type Orchestrator struct {
	baseURL string
	token   string
	client  *http.Client

	openURL       func(url string) error
	onStateChange func(s State)
	onAffordance  func(a Affordance)

	state State
}

type Option func(*Orchestrator)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Orchestrator) { o.client = c }
}

// WithURLOpener sets the callback used to open a received download URL.
func WithURLOpener(f func(url string) error) Option {
	return func(o *Orchestrator) { o.openURL = f }
}

// WithStateCallback sets the callback invoked on every state transition.
func WithStateCallback(f func(s State)) Option {
	return func(o *Orchestrator) { o.onStateChange = f }
}

// WithAffordanceCallback sets the callback invoked when the offered action
// changes (generate becomes download after a success).
func WithAffordanceCallback(f func(a Affordance)) Option {
	return func(o *Orchestrator) { o.onAffordance = f }
}

func New(baseURL, token string, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		baseURL:       baseURL,
		token:         token,
		client:        &http.Client{},
		openURL:       func(string) error { return nil },
		onStateChange: func(State) {},
		onAffordance:  func(Affordance) {},
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the state of the last action.
func (o *Orchestrator) State() State {
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.state = s
	o.onStateChange(s)
}

// GenerateDocuments asks the backend to generate (or recover) the document
// bundle for a solicitud and opens the returned URL. On success the offered
// action switches to download.
func (o *Orchestrator) GenerateDocuments(ctx context.Context, solicitudID int64) (*Result, error) {
	url := fmt.Sprintf("%s/api/sst/generar-documentos/%d", o.baseURL, solicitudID)
	return o.run(ctx, http.MethodPost, url, true)
}

// DownloadDocument fetches a fresh signed URL for an already generated
// bundle and opens it.
func (o *Orchestrator) DownloadDocument(ctx context.Context, solicitudID int64) (*Result, error) {
	url := fmt.Sprintf("%s/descargar-solicitud/%d", o.baseURL, solicitudID)
	return o.run(ctx, http.MethodGet, url, false)
}

func (o *Orchestrator) run(ctx context.Context, method, url string, switchAffordance bool) (*Result, error) {
	o.setState(StateRequesting)

	res, err := o.call(ctx, method, url)
	if err != nil {
		o.setState(StateFailed)
		return nil, err
	}

	if err := o.openURL(res.URL); err != nil {
		o.setState(StateFailed)
		return nil, fmt.Errorf("open url: %w", err)
	}

	o.setState(StateSucceeded)
	if switchAffordance {
		o.onAffordance(AffordanceDownload)
	}
	return res, nil
}

func (o *Orchestrator) call(ctx context.Context, method, url string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(&http.Cookie{Name: common.TokenCookieName, Value: o.token})

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	var sr serverResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		// Whatever came back, the user only sees the generic message.
		return nil, fmt.Errorf("%w: %s", common.ErrGenerationFailed, GenericErrorMessage)
	}

	if resp.StatusCode != http.StatusOK || !sr.Success {
		msg := sr.Message
		if msg == "" {
			msg = GenericErrorMessage
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", common.ErrorNotFound, msg)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", common.ErrorUnauthorized, msg)
		default:
			return nil, fmt.Errorf("%w: %s", common.ErrGenerationFailed, msg)
		}
	}

	return &Result{URL: sr.URL, Message: sr.Message}, nil
}

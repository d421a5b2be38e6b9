// Package fetch talks to provider APIs. Every call negotiates a protocol
// version by walking the source's candidate x-v values, is bounded by the
// per-request timeout and gated by a run-wide in-flight ceiling. The fetcher
// never logs; it reports every attempt as structured data and leaves the
// decision of what to surface to the caller.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/semaphore"

	"github.com/piyushpill-ai/banking-tracker/internal/pkg/model"
)

// Error is a classified fetch failure, produced once a version cascade is
// exhausted or terminally stopped.
type Error struct {
	Class model.FailureClass
	msg   string
}

func (e *Error) Error() string { return e.msg }

func newError(class model.FailureClass, format string, args ...interface{}) *Error {
	return &Error{Class: class, msg: fmt.Sprintf(format, args...)}
}

// Classify extracts the failure class from an error returned by this
// package, defaulting to the network class for anything foreign.
func Classify(err error) model.FailureClass {
	if e, ok := err.(*Error); ok {
		return e.Class
	}
	return model.FailureNetwork
}

type Client struct {
	http *resty.Client
	sem  *semaphore.Weighted
}

// NewClient builds a fetcher. globalLimit caps in-flight HTTP calls across
// all sources so no third party sees more than its share of the pool.
func NewClient(timeout time.Duration, globalLimit int64) *Client {
	c := resty.New()
	c.SetTimeout(timeout)
	c.SetHeader("Accept", "application/json")
	c.SetHeader("User-Agent", "banking-tracker/1.0")
	c.SetRedirectPolicy(resty.FlexibleRedirectPolicy(3))

	return &Client{
		http: c,
		sem:  semaphore.NewWeighted(globalLimit),
	}
}

type listingEnvelope struct {
	Data *struct {
		Products []model.RawDocument `json:"products"`
	} `json:"data"`
}

type detailEnvelope struct {
	Data model.RawDocument `json:"data"`
}

// FetchListing retrieves a source's product listing, trying each candidate
// protocol version in preference order. A version-unsupported response moves
// on to the next candidate; so do a transient network failure and a
// malformed body (a different version may serve a well-formed one). A
// not-found response stops the cascade: another version cannot make the
// collection exist. The attempt log is always returned, also on success.
func (c *Client) FetchListing(ctx context.Context, src model.SourceDescriptor) (model.RawListing, []model.FetchAttempt, error) {
	var listing model.RawListing

	attempts, err := c.cascade(ctx, src.Versions, src.ProductsURL, func(body []byte) error {
		var envelope listingEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr != nil {
			return fmt.Errorf("listing body is not JSON: %w", jsonErr)
		}
		if envelope.Data == nil {
			return fmt.Errorf("listing envelope missing data.products")
		}
		listing = model.RawListing{SourceID: src.ID, Products: envelope.Data.Products}
		return nil
	})
	if err != nil {
		return model.RawListing{}, attempts, err
	}
	return listing, attempts, nil
}

// FetchDetail retrieves one product's detail document with the same cascade
// semantics as FetchListing.
func (c *Client) FetchDetail(ctx context.Context, src model.SourceDescriptor, productID string) (model.RawDetail, []model.FetchAttempt, error) {
	var detail model.RawDetail

	url := src.ProductsURL + "/" + productID
	attempts, err := c.cascade(ctx, src.Versions, url, func(body []byte) error {
		var envelope detailEnvelope
		if jsonErr := json.Unmarshal(body, &envelope); jsonErr != nil {
			return fmt.Errorf("detail body is not JSON: %w", jsonErr)
		}
		if envelope.Data == nil {
			return fmt.Errorf("detail envelope missing data")
		}
		detail = model.RawDetail{SourceID: src.ID, ProductID: productID, Document: envelope.Data}
		return nil
	})
	if err != nil {
		return model.RawDetail{}, attempts, err
	}
	return detail, attempts, nil
}

// NegotiatedVersion returns the version of the succeeding attempt, or ""
// when none succeeded.
func NegotiatedVersion(attempts []model.FetchAttempt) string {
	for _, a := range attempts {
		if a.Class == model.FailureNone {
			return a.Version
		}
	}
	return ""
}

// cascade runs one GET per candidate version until one is accepted and its
// body decodes. The returned error carries the class of the attempt that
// ended the cascade.
func (c *Client) cascade(ctx context.Context, versions []string, url string, decode func([]byte) error) ([]model.FetchAttempt, error) {
	var attempts []model.FetchAttempt
	lastClass := model.FailureClass("")
	lastErr := ""

	record := func(a model.FetchAttempt) {
		attempts = append(attempts, a)
		if a.Class != model.FailureNone {
			lastClass, lastErr = a.Class, a.Err
		}
	}

	for _, v := range versions {
		if semErr := c.sem.Acquire(ctx, 1); semErr != nil {
			record(model.FetchAttempt{Version: v, Class: model.FailureNetwork, Err: semErr.Error()})
			return attempts, newError(model.FailureNetwork, "request slot: %v", semErr)
		}
		res, reqErr := c.http.R().
			SetContext(ctx).
			SetHeader("x-v", v).
			Get(url)
		c.sem.Release(1)

		if reqErr != nil {
			// terminal for this attempt, remaining versions still get tried
			record(model.FetchAttempt{Version: v, Class: model.FailureNetwork, Err: reqErr.Error()})
			continue
		}

		status := res.StatusCode()
		switch status {
		case http.StatusOK:
			if decodeErr := decode(res.Body()); decodeErr != nil {
				record(model.FetchAttempt{
					Version: v, Status: status,
					Class: model.FailureMalformed, Err: decodeErr.Error(),
				})
				continue
			}
			record(model.FetchAttempt{Version: v, Status: status, Class: model.FailureNone})
			return attempts, nil

		case http.StatusNotAcceptable:
			record(model.FetchAttempt{
				Version: v, Status: status,
				Class: model.FailureVersionUnsupported, Err: "version rejected",
			})
			continue

		case http.StatusNotFound:
			// the entity genuinely does not exist; other versions cannot
			// change that
			record(model.FetchAttempt{Version: v, Status: status, Class: model.FailureNotFound})
			return attempts, newError(model.FailureNotFound, "GET %s: not found", url)

		default:
			record(model.FetchAttempt{
				Version: v, Status: status,
				Class: model.FailureNetwork, Err: fmt.Sprintf("unexpected status %d", status),
			})
			continue
		}
	}

	if lastClass == "" {
		lastClass, lastErr = model.FailureNetwork, "no versions attempted"
	}
	return attempts, newError(lastClass, "GET %s: all versions exhausted: %s", url, lastErr)
}

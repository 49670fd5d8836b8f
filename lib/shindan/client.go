package shindan

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"shindan-scraper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36 Edg/140.0.0.0"

// DefaultTimeout bounds each individual network call unless overridden
// through ClientOptions. Pages either answer fast or not at all.
const DefaultTimeout = time.Second * 3

// Client talks to one regional ShindanMaker deployment. It holds no
// session state between calls and is safe for concurrent use.
type Client struct {
	domain  Domain
	baseUrl string
	assets  SnapshotAssets
	http    *resty.Client
}

type ClientOptions struct {
	// Domain picks the regional deployment. Defaults to DomainJP.
	Domain Domain
	// BaseUrl overrides the url derived from Domain, mainly for tests
	// pointed at a local stand-in.
	BaseUrl string
	// Timeout bounds each network call. Defaults to DefaultTimeout.
	Timeout time.Duration
	// Assets overrides the static text inlined into snapshots.
	Assets *SnapshotAssets
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Domain == "" {
		opts.Domain = DomainJP
	}
	domain, err := ParseDomain(string(opts.Domain))
	if err != nil {
		return nil, err
	}

	baseUrl := domain.BaseURL()
	if opts.BaseUrl != "" {
		baseUrl = opts.BaseUrl
		if !strings.HasSuffix(baseUrl, "/") {
			baseUrl += "/"
		}
	}
	parsed, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	client := resty.New()
	// the session cookie is negotiated per exchange and threaded
	// explicitly, a shared jar would leak it across concurrent calls
	client.SetCookieJar(nil)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsed.Hostname()))
	client.SetTimeout(timeout)

	telemetry.InstrumentResty(client, "shindan/http")

	assets := DefaultSnapshotAssets()
	if opts.Assets != nil {
		assets = *opts.Assets
	}

	return &Client{
		domain:  domain,
		baseUrl: baseUrl,
		assets:  assets,
		http:    client,
	}, nil
}

func (c *Client) Domain() Domain {
	return c.domain
}

func (c *Client) fetchDocument(ctx context.Context, id string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(c.baseUrl + id)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}

// GetTitle fetches a shindan page and returns its title. No submission
// is made.
func (c *Client) GetTitle(ctx context.Context, id string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:GetTitle")
	defer span.End()

	doc, err := c.fetchDocument(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch shindan page")
		return "", err
	}
	title, err := extractTitle(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract title")
		return "", err
	}
	return title, nil
}

// GetDescription fetches a shindan page and returns its description. No
// submission is made.
func (c *Client) GetDescription(ctx context.Context, id string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:GetDescription")
	defer span.End()

	doc, err := c.fetchDocument(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch shindan page")
		return "", err
	}
	description, err := extractDescription(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract description")
		return "", err
	}
	return description, nil
}

// GetTitleWithDescription fetches a shindan page once and returns both
// the title and the description.
func (c *Client) GetTitleWithDescription(ctx context.Context, id string) (string, string, error) {
	ctx, span := tracer.Start(ctx, "client:GetTitleWithDescription")
	defer span.End()

	doc, err := c.fetchDocument(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch shindan page")
		return "", "", err
	}
	title, err := extractTitle(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract title")
		return "", "", err
	}
	description, err := extractDescription(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract description")
		return "", "", err
	}
	return title, description, nil
}

// Submit runs the two request exchange for the given display name and
// returns the raw result page html.
func (c *Client) Submit(ctx context.Context, id, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Submit")
	defer span.End()

	_, body, err := c.exchange(ctx, id, name, false)
	return body, err
}

// GetSegments submits a shindan and returns the result as an ordered
// segment sequence.
func (c *Client) GetSegments(ctx context.Context, id, name string) (Segments, error) {
	ctx, span := tracer.Start(ctx, "client:GetSegments")
	defer span.End()

	_, body, err := c.exchange(ctx, id, name, false)
	if err != nil {
		return nil, err
	}
	segments, err := ParseSegments(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse result segments")
		return nil, err
	}
	return segments, nil
}

// GetSegmentsWithTitle is GetSegments plus the title off the initial
// page, saving the extra fetch GetTitle would make.
func (c *Client) GetSegmentsWithTitle(ctx context.Context, id, name string) (Segments, string, error) {
	ctx, span := tracer.Start(ctx, "client:GetSegmentsWithTitle")
	defer span.End()

	title, body, err := c.exchange(ctx, id, name, true)
	if err != nil {
		return nil, "", err
	}
	segments, err := ParseSegments(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse result segments")
		return nil, "", err
	}
	return segments, title, nil
}

// GetHTML submits a shindan and returns the result as a standalone html
// document.
func (c *Client) GetHTML(ctx context.Context, id, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:GetHTML")
	defer span.End()

	_, body, err := c.exchange(ctx, id, name, false)
	if err != nil {
		return "", err
	}
	snapshot, err := buildSnapshot(id, body, c.baseUrl, c.assets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build result snapshot")
		return "", err
	}
	return snapshot, nil
}

// GetHTMLWithTitle is GetHTML plus the title off the initial page.
func (c *Client) GetHTMLWithTitle(ctx context.Context, id, name string) (string, string, error) {
	ctx, span := tracer.Start(ctx, "client:GetHTMLWithTitle")
	defer span.End()

	title, body, err := c.exchange(ctx, id, name, true)
	if err != nil {
		return "", "", err
	}
	snapshot, err := buildSnapshot(id, body, c.baseUrl, c.assets)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to build result snapshot")
		return "", "", err
	}
	return snapshot, title, nil
}

package shindan

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/codes"
)

const sessionCookieName = "_session"

// formField is one (name, value) pair of the submission body. Pairs are
// kept in a slice because submission order has to match discovery order,
// url.Values would sort them by key.
type formField struct {
	name  string
	value string
}

// session carries everything negotiated from the initial page fetch that
// the submission POST needs. It lives for exactly one exchange and is
// never shared or reused.
type session struct {
	fields []formField
	parts  []string
	cookie string
}

// negotiateSession pulls the session cookie and the hidden form fields
// off the initial page response.
func negotiateSession(res *resty.Response, doc *goquery.Document) (*session, error) {
	var cookie string
	for _, c := range res.Cookies() {
		if c.Name == sessionCookieName {
			cookie = c.Value
			break
		}
	}
	if cookie == "" {
		return nil, ErrSessionCookieNotFound
	}

	fields, parts, err := extractFormFields(doc)
	if err != nil {
		return nil, err
	}
	return &session{fields: fields, parts: parts, cookie: cookie}, nil
}

// extractFormFields reads the hidden submission fields off a shindan
// page. Every required token must resolve to a value, a silent submit
// with blank tokens only produces an error page.
func extractFormFields(doc *goquery.Document) ([]formField, []string, error) {
	var fields []formField
	for _, token := range requiredTokens {
		value, exists := doc.FindMatcher(token.sel).Attr("value")
		if !exists {
			return nil, nil, TokenNotFoundError{Field: token.name}
		}
		fields = append(fields, formField{name: token.name, value: value})
	}

	// shindan_token only exists on some layouts, but when the input is
	// there its value has to be too
	shindanToken := doc.FindMatcher(selShindanToken)
	if shindanToken.Length() > 0 {
		value, exists := shindanToken.Attr("value")
		if !exists {
			return nil, nil, TokenNotFoundError{Field: "shindan_token"}
		}
		fields = append(fields, formField{name: "shindan_token", value: value})
	}

	var parts []string
	doc.FindMatcher(selParts).Each(func(_ int, input *goquery.Selection) {
		name, exists := input.Attr("name")
		if !exists {
			return
		}
		parts = append(parts, name)
	})

	return fields, parts, nil
}

// encodeForm renders the urlencoded submission body: the negotiated
// tokens in discovery order, then the display name, then one pair per
// parts input all valued with the display name.
func (s *session) encodeForm(name string) string {
	var body strings.Builder
	write := func(key, value string) {
		if body.Len() > 0 {
			body.WriteByte('&')
		}
		body.WriteString(url.QueryEscape(key))
		body.WriteByte('=')
		body.WriteString(url.QueryEscape(value))
	}

	for _, field := range s.fields {
		write(field.name, field.value)
	}
	write("user_input_value_1", name)
	for _, part := range s.parts {
		write(part, name)
	}
	return body.String()
}

// exchange performs the full two request interaction and returns the raw
// result page html. The title is only carried by the initial page, so
// when wantTitle is set it gets extracted there before the POST.
func (c *Client) exchange(ctx context.Context, id, name string, wantTitle bool) (string, string, error) {
	ctx, span := tracer.Start(ctx, "client:exchange")
	defer span.End()

	pageUrl := c.baseUrl + id

	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch shindan page")
		return "", "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse shindan page html")
		return "", "", err
	}

	var title string
	if wantTitle {
		title, err = extractTitle(doc)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to extract title")
			return "", "", err
		}
	}

	sess, err := negotiateSession(res, doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to negotiate submission session")
		return "", "", err
	}

	slog.DebugContext(
		ctx, "negotiated submission session",
		"id", id,
		"tokens", len(sess.fields),
		"parts", len(sess.parts),
	)

	res, err = c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/x-www-form-urlencoded").
		SetHeader("cookie", sessionCookieName+"="+sess.cookie+";").
		SetBody(sess.encodeForm(name)).
		Post(pageUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to submit shindan form")
		return "", "", err
	}

	return title, res.String(), nil
}

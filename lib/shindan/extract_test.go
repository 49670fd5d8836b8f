package shindan

import (
	"bytes"
	"strings"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

//go:embed shindan_page_test.html
var shindanPageTest []byte

//go:embed shindan_page_parts_test.html
var shindanPagePartsTest []byte

func parseTestPage(t testing.TB, page []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractTitle(t *testing.T) {
	doc := parseTestPage(t, shindanPageTest)

	title, err := extractTitle(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Fantasy Stats", title)

	doc = parseTestPage(t, shindanPagePartsTest)
	title, err = extractTitle(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "あなたのRPGステータス", title)
}

func TestExtractTitleMissing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><div id="main"></div></body></html>`,
	))
	if err != nil {
		t.Fatal(err)
	}

	_, err = extractTitle(doc)
	var notFound ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "shindanTitle", notFound.Name)
}

func TestExtractDescription(t *testing.T) {
	doc := parseTestPage(t, shindanPageTest)

	description, err := extractDescription(doc)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "Your stats in a fantasy world.\nUpdated daily.", description)
}

func TestExtractDescriptionLayouts(t *testing.T) {
	testCases := []struct {
		markup   string
		expected string
	}{
		// plain text comes through verbatim
		{
			markup:   `<div id="shindanDescriptionDisplay">What kind of cat are you?</div>`,
			expected: "What kind of cat are you?",
		},
		// line breaks become newlines
		{
			markup:   `<div id="shindanDescriptionDisplay">line one<br>line two</div>`,
			expected: "line one\nline two",
		},
		// a wrapped run contributes its leading text node
		{
			markup:   `<div id="shindanDescriptionDisplay">see <a href="/x">here</a> now</div>`,
			expected: "see here now",
		},
		// markup nested deeper than one level is dropped
		{
			markup:   `<div id="shindanDescriptionDisplay">kept<span><b>dropped</b></span></div>`,
			expected: "kept",
		},
		// an empty container is an empty description
		{
			markup:   `<div id="shindanDescriptionDisplay"></div>`,
			expected: "",
		},
	}

	for _, test := range testCases {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(
			"<html><body>" + test.markup + "</body></html>",
		))
		if err != nil {
			t.Fatal(err)
		}

		description, err := extractDescription(doc)
		if err != nil {
			t.Fatal(err)
		}
		require.Equal(t, test.expected, description)
	}
}

func TestExtractDescriptionMissing(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<html><body><div id="main"></div></body></html>`,
	))
	if err != nil {
		t.Fatal(err)
	}

	_, err = extractDescription(doc)
	var notFound ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "shindanDescriptionDisplay", notFound.Name)
}

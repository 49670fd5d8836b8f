package shindan

import (
	"bytes"
	"testing"

	_ "embed"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

//go:embed shindan_result_test.html
var shindanResultTest []byte

//go:embed shindan_result_effects_test.html
var shindanResultEffectsTest []byte

func TestParseSegmentsBlocks(t *testing.T) {
	testCases := []struct {
		markup   string
		expected Segments
	}{
		{
			markup: `<div id="shindanResult" data-blocks="[` +
				`{&quot;type&quot;:&quot;text&quot;,&quot;content&quot;:&quot;A&quot;},` +
				`{&quot;type&quot;:&quot;image&quot;,&quot;file&quot;:&quot;https://example.com/i.png&quot;}]"></div>`,
			expected: Segments{
				TextSegment("A"),
				ImageSegment("https://example.com/i.png"),
			},
		},
		// user_input blocks carry the submitted name
		{
			markup: `<div id="shindanResult" data-blocks="[` +
				`{&quot;type&quot;:&quot;user_input&quot;,&quot;value&quot;:&quot;Kay&quot;},` +
				`{&quot;type&quot;:&quot;text&quot;,&quot;content&quot;:&quot; wins&quot;}]"></div>`,
			expected: Segments{
				TextSegment("Kay"),
				TextSegment(" wins"),
			},
		},
		// source outranks the other image keys
		{
			markup: `<div id="shindanResult" data-blocks="[` +
				`{&quot;type&quot;:&quot;image&quot;,&quot;file&quot;:&quot;https://example.com/file.png&quot;,` +
				`&quot;source&quot;:&quot;https://example.com/source.png&quot;}]"></div>`,
			expected: Segments{
				ImageSegment("https://example.com/source.png"),
			},
		},
		// unknown kinds and blocks missing their payload key are dropped
		{
			markup: `<div id="shindanResult" data-blocks="[` +
				`{&quot;type&quot;:&quot;text&quot;,&quot;content&quot;:&quot;A&quot;},` +
				`{&quot;type&quot;:&quot;sticker&quot;,&quot;id&quot;:3},` +
				`{&quot;type&quot;:&quot;text&quot;},` +
				`{&quot;type&quot;:&quot;text&quot;,&quot;content&quot;:&quot;B&quot;}]"></div>`,
			expected: Segments{
				TextSegment("A"),
				TextSegment("B"),
			},
		},
	}

	for _, test := range testCases {
		segments, err := ParseSegments("<html><body>" + test.markup + "</body></html>")
		if err != nil {
			t.Fatal(err)
		}
		diff := cmp.Diff(test.expected, segments)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestParseSegmentsWalk(t *testing.T) {
	testCases := []struct {
		markup   string
		expected Segments
	}{
		{
			markup: `<div id="shindanResult">Hello<br><img data-src="https://example.com/i.png"></div>`,
			expected: Segments{
				TextSegment("Hello"),
				TextSegment("\n"),
				ImageSegment("https://example.com/i.png"),
			},
		},
		// wrappers are transparent, their subtree is still visited
		{
			markup: `<div id="shindanResult"><span>one </span><b>two</b></div>`,
			expected: Segments{
				TextSegment("one "),
				TextSegment("two"),
			},
		},
		// the site double escapes non breaking spaces on some pages
		{
			markup: `<div id="shindanResult">one&amp;nbsp;two</div>`,
			expected: Segments{
				TextSegment("one two"),
			},
		},
		// src is the fallback when no data-src is set, an image with
		// neither is skipped
		{
			markup: `<div id="shindanResult"><img src="https://example.com/plain.png"><img class="lazyload"></div>`,
			expected: Segments{
				ImageSegment("https://example.com/plain.png"),
			},
		},
		// a malformed data-blocks payload falls back to the walk
		{
			markup:   `<div id="shindanResult" data-blocks="[{broken">fallback</div>`,
			expected: Segments{TextSegment("fallback")},
		},
		// so does a payload yielding no segments
		{
			markup: `<div id="shindanResult" data-blocks="[` +
				`{&quot;type&quot;:&quot;sticker&quot;,&quot;id&quot;:3}]">fallback</div>`,
			expected: Segments{TextSegment("fallback")},
		},
	}

	for _, test := range testCases {
		segments, err := ParseSegments("<html><body>" + test.markup + "</body></html>")
		if err != nil {
			t.Fatal(err)
		}
		diff := cmp.Diff(test.expected, segments)
		if diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestParseSegmentsMissingContainer(t *testing.T) {
	_, err := ParseSegments(`<html><body><div id="main"></div></body></html>`)
	var notFound ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "shindanResult", notFound.Name)
}

func TestParseSegmentsResultPage(t *testing.T) {
	segments, err := ParseSegments(string(shindanResultTest))
	if err != nil {
		t.Fatal(err)
	}

	diff := cmp.Diff(Segments{
		TextSegment("Arturia"),
		TextSegment("'s adventure begins.\n"),
		TextSegment("HP: 92\n"),
		ImageSegment("https://img.shindanmaker.com/i/fantasy_stats.png"),
	}, segments)
	if diff != "" {
		t.Fatal(diff)
	}

	// parsing is idempotent
	again, err := ParseSegments(string(shindanResultTest))
	if err != nil {
		t.Fatal(err)
	}
	diff = cmp.Diff(segments, again)
	if diff != "" {
		t.Fatal(diff)
	}
}

// The result page ships the same content twice, a data-blocks payload and
// the rendered markup. Decoding the payload and walking the markup have
// to read back the same.
func TestParseSegmentsStrategyEquivalence(t *testing.T) {
	blockSegments, err := ParseSegments(string(shindanResultTest))
	if err != nil {
		t.Fatal(err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(shindanResultTest))
	if err != nil {
		t.Fatal(err)
	}
	doc.FindMatcher(selResult).RemoveAttr("data-blocks")
	rewritten, err := doc.Html()
	if err != nil {
		t.Fatal(err)
	}

	walkSegments, err := ParseSegments(rewritten)
	if err != nil {
		t.Fatal(err)
	}

	// the block payload groups runs differently than the markup walk, so
	// only the linearized text is comparable
	require.Equal(t, 4, len(blockSegments))
	require.Equal(t, 5, len(walkSegments))
	require.Equal(t, blockSegments.String(), walkSegments.String())
	require.Equal(
		t,
		"Arturia's adventure begins.\nHP: 92\nhttps://img.shindanmaker.com/i/fantasy_stats.png",
		blockSegments.String(),
	)
}

func TestParseSegmentsEffectsPage(t *testing.T) {
	segments, err := ParseSegments(string(shindanResultEffectsTest))
	if err != nil {
		t.Fatal(err)
	}

	diff := cmp.Diff(Segments{
		TextSegment("ケイの今日のラッキーアイテムは"),
		TextSegment("\n"),
		TextSegment("_"),
		TextSegment("「古い鍵」"),
		TextSegment("です。"),
	}, segments)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSegmentsFilter(t *testing.T) {
	segments := Segments{
		TextSegment("a"),
		ImageSegment("https://example.com/1.png"),
		TextSegment("b"),
		ImageSegment("https://example.com/2.png"),
	}

	diff := cmp.Diff(Segments{
		ImageSegment("https://example.com/1.png"),
		ImageSegment("https://example.com/2.png"),
	}, segments.Filter(SegmentImage))
	if diff != "" {
		t.Fatal(diff)
	}

	diff = cmp.Diff(Segments{
		TextSegment("a"),
		TextSegment("b"),
	}, segments.Filter(SegmentText))
	if diff != "" {
		t.Fatal(diff)
	}

	require.Equal(t, "ahttps://example.com/1.pngbhttps://example.com/2.png", segments.String())
}

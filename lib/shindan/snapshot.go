package shindan

import (
	_ "embed"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// SnapshotAssets is the static text inlined into snapshot documents built
// by GetHTML. Snapshots are meant to render standalone, so styles and
// scripts get embedded instead of referenced.
type SnapshotAssets struct {
	// Stylesheet is inlined into the head of every snapshot.
	Stylesheet string
	// BaselineScript runs in every snapshot. The default swaps lazily
	// loaded images in so captures aren't full of placeholders.
	BaselineScript string
	// AppScript and ChartScript are only emitted on pages that render
	// charts. When left empty the snapshot references the deployment's
	// own bundles through the base url instead of inlining.
	AppScript   string
	ChartScript string
}

//go:embed static/app.css
var defaultStylesheet string

//go:embed static/shindan.js
var defaultBaselineScript string

// DefaultSnapshotAssets returns the assets compiled into this package.
func DefaultSnapshotAssets() SnapshotAssets {
	return SnapshotAssets{
		Stylesheet:     defaultStylesheet,
		BaselineScript: defaultBaselineScript,
	}
}

// pages that render stat charts always mention the chart bundle in their
// raw markup
const chartMarker = "chart.js"

const snapshotTemplate = `<!DOCTYPE html>
<html lang="en" style="height: 100%;">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0, minimum-scale=1.0">
    <base href="<!-- BASE_URL -->">
    <title>ShindanMaker</title>
    <style>
<!-- STYLESHEET -->
    </style>
</head>
<body style="position: relative; min-height: 100%; top: 0;">
<div id="main-container">
    <div id="main">
        <!-- TITLE_AND_RESULT -->
    </div>
</div>
<script>
<!-- BASELINE_SCRIPT -->
</script>
<!-- SCRIPTS -->
</body>
</html>
`

// buildSnapshot turns a raw result page into a standalone document that
// renders without fetching the deployment's layout.
func buildSnapshot(id, responseText, baseUrl string, assets SnapshotAssets) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(responseText))
	if err != nil {
		return "", err
	}

	container := doc.FindMatcher(selTitleResult).First()
	if container.Length() == 0 {
		return "", ElementNotFoundError{Name: "title_and_result"}
	}
	content, err := goquery.OuterHtml(container)
	if err != nil {
		return "", err
	}

	content = stripEffects(doc, content)

	var scripts string
	if strings.Contains(responseText, chartMarker) {
		scripts, err = chartScripts(doc, id, assets)
		if err != nil {
			return "", err
		}
	}

	replacer := strings.NewReplacer(
		"<!-- BASE_URL -->", baseUrl,
		"<!-- STYLESHEET -->", assets.Stylesheet,
		"<!-- TITLE_AND_RESULT -->", content,
		"<!-- BASELINE_SCRIPT -->", assets.BaselineScript,
		"<!-- SCRIPTS -->", scripts,
	)
	return replacer.Replace(snapshotTemplate), nil
}

// effect wrappers animate their text with scripts that never run inside a
// snapshot, each one is followed by a noscript twin holding the plain
// content
var effectSelectors = []cascadia.Selector{selEffectTyping, selEffectShuffle}

// stripEffects rewrites animated effect wrappers into their static
// noscript fallback so the snapshot shows final text instead of an empty
// shell. The surgery happens on the serialized container since the
// wrappers live inside it.
func stripEffects(doc *goquery.Document, content string) string {
	for _, sel := range effectSelectors {
		doc.FindMatcher(sel).Each(func(_ int, effect *goquery.Selection) {
			sibling := effect.Next()
			if sibling.Length() == 0 || sibling.Nodes[0].Data != "noscript" {
				return
			}

			effectHtml, err := goquery.OuterHtml(effect)
			if err != nil {
				return
			}
			siblingHtml, err := goquery.OuterHtml(sibling)
			if err != nil {
				return
			}

			// noscript parses as raw text, so Text() is its markup
			content = strings.ReplaceAll(content, effectHtml, "")
			content = strings.ReplaceAll(content, siblingHtml, sibling.Text())
		})
	}
	return content
}

// chartScripts assembles the script region for chart pages: the app and
// chart bundles followed by the page script driving this shindan's chart,
// located by id since result pages carry several unrelated scripts.
func chartScripts(doc *goquery.Document, id string, assets SnapshotAssets) (string, error) {
	var pageScript string
	doc.FindMatcher(selScript).EachWithBreak(func(_ int, script *goquery.Selection) bool {
		markup, err := goquery.OuterHtml(script)
		if err != nil {
			return true
		}
		if strings.Contains(markup, id) {
			pageScript = markup
			return false
		}
		return true
	})
	if pageScript == "" {
		return "", ScriptNotFoundError{ID: id}
	}

	var out strings.Builder
	if assets.AppScript != "" {
		out.WriteString("<script>")
		out.WriteString(assets.AppScript)
		out.WriteString("</script>\n")
	} else {
		out.WriteString(`<script src="js/app.js" defer=""></script>` + "\n")
	}
	if assets.ChartScript != "" {
		out.WriteString("<script>")
		out.WriteString(assets.ChartScript)
		out.WriteString("</script>\n")
	} else {
		out.WriteString(`<script src="js/chart.js" defer=""></script>` + "\n")
	}
	out.WriteString(pageScript)
	return out.String(), nil
}

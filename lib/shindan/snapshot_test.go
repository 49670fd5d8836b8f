package shindan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildSnapshotChartPage(t *testing.T) {
	out, err := buildSnapshot(
		"1222992", string(shindanResultTest),
		"https://en.shindanmaker.com/", DefaultSnapshotAssets(),
	)
	if err != nil {
		t.Fatal(err)
	}

	require.Contains(t, out, `<base href="https://en.shindanmaker.com/">`)
	require.Contains(t, out, `id="title_and_result"`)
	require.Contains(t, out, "data-blocks")
	require.Contains(t, out, defaultStylesheet)
	require.Contains(t, out, defaultBaselineScript)

	// chart pages pull the deployment bundles through the base url and
	// carry over the page script driving the chart
	require.Contains(t, out, `<script src="js/app.js" defer=""></script>`)
	require.Contains(t, out, `<script src="js/chart.js" defer=""></script>`)
	require.Contains(t, out, "chart-1222992")

	require.NotContains(t, out, "<!-- TITLE_AND_RESULT -->")
	require.NotContains(t, out, "<!-- SCRIPTS -->")
}

func TestBuildSnapshotCustomAssets(t *testing.T) {
	assets := SnapshotAssets{
		Stylesheet:     "/* style */",
		BaselineScript: "/* baseline */",
		AppScript:      "/* app */",
		ChartScript:    "/* chart */",
	}
	out, err := buildSnapshot(
		"1222992", string(shindanResultTest),
		"https://en.shindanmaker.com/", assets,
	)
	if err != nil {
		t.Fatal(err)
	}

	require.Contains(t, out, "<script>/* app */</script>")
	require.Contains(t, out, "<script>/* chart */</script>")
	require.Contains(t, out, "/* style */")
	require.Contains(t, out, "/* baseline */")
	require.NotContains(t, out, "js/app.js")
	require.NotContains(t, out, "js/chart.js")
}

func TestBuildSnapshotEffects(t *testing.T) {
	out, err := buildSnapshot(
		"520637", string(shindanResultEffectsTest),
		"https://shindanmaker.com/", DefaultSnapshotAssets(),
	)
	if err != nil {
		t.Fatal(err)
	}

	// the animated wrapper is gone and the noscript twin collapsed into
	// its plain content
	require.Contains(t, out, "ケイの今日のラッキーアイテムは<br/>「古い鍵」です。")
	require.NotContains(t, out, "shindanEffects")
	require.NotContains(t, out, "<noscript>")

	// no chart on this page, so no script region
	require.NotContains(t, out, "js/chart.js")
	require.NotContains(t, out, "<!-- SCRIPTS -->")
}

func TestBuildSnapshotScriptNotFound(t *testing.T) {
	_, err := buildSnapshot(
		"4073322", string(shindanResultTest),
		"https://en.shindanmaker.com/", DefaultSnapshotAssets(),
	)
	var notFound ScriptNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "4073322", notFound.ID)
	require.Equal(t, "could not find script with id 4073322", err.Error())
}

func TestBuildSnapshotMissingContainer(t *testing.T) {
	_, err := buildSnapshot(
		"1222992", `<html><body><div id="main"></div></body></html>`,
		"https://en.shindanmaker.com/", DefaultSnapshotAssets(),
	)
	var notFound ElementNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "title_and_result", notFound.Name)
}

func TestDefaultSnapshotAssets(t *testing.T) {
	assets := DefaultSnapshotAssets()
	require.Contains(t, assets.Stylesheet, "#shindanResult")
	require.Contains(t, assets.BaselineScript, "data-src")
	require.Empty(t, assets.AppScript)
	require.Empty(t, assets.ChartScript)

	if !strings.Contains(snapshotTemplate, "<!DOCTYPE html>") {
		t.Fatal("snapshot template lost its doctype")
	}
}

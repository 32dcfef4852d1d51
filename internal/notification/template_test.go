package notification_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaharia-lab/notifyd/internal/notification"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"greeting.html": {Data: []byte(`<p>Hello {{.Name}}, see {{.Link}}</p>`)},
		"plain.html":    {Data: []byte(`<p>static</p>`)},
	}
}

func TestLoadTemplates(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html", "plain.html")
	require.NoError(t, err)
	assert.Equal(t, []string{"greeting.html", "plain.html"}, set.Names())
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	_, err := notification.LoadTemplates(testFS(), "greeting.html", "absent.html")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.html")
}

func TestLoadTemplates_NoNames(t *testing.T) {
	_, err := notification.LoadTemplates(testFS())
	require.Error(t, err)
}

func TestLoadTemplates_ParseError(t *testing.T) {
	fsys := fstest.MapFS{"broken.html": {Data: []byte(`<p>{{.Name</p>`)}}
	_, err := notification.LoadTemplates(fsys, "broken.html")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html")
	require.NoError(t, err)

	html, err := set.Render("greeting.html", map[string]any{"Name": "Ada", "Link": "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, `<p>Hello Ada, see https://example.com</p>`, html)
}

func TestRender_EscapesHTML(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html")
	require.NoError(t, err)

	html, err := set.Render("greeting.html", map[string]any{"Name": "<script>", "Link": "x"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRender_MissingKeyFails(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html")
	require.NoError(t, err)

	_, err = set.Render("greeting.html", map[string]any{"Name": "Ada"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Link")
}

func TestRender_UnknownTemplate(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html")
	require.NoError(t, err)

	_, err = set.Render("plain.html", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, notification.ErrTemplateNotFound))
}

func TestRender_NilSet(t *testing.T) {
	var set *notification.TemplateSet
	_, err := set.Render("greeting.html", nil)
	assert.ErrorIs(t, err, notification.ErrTemplateNotFound)
}

func TestRender_Deterministic(t *testing.T) {
	set, err := notification.LoadTemplates(testFS(), "greeting.html")
	require.NoError(t, err)

	data := map[string]any{"Name": "Ada", "Link": "https://example.com"}
	first, err := set.Render("greeting.html", data)
	require.NoError(t, err)
	second, err := set.Render("greeting.html", data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestWarn_NoRequest(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(&buf)()

	Warn("report.date.unparsable", map[string]any{"id": "S1"})

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "report.date.unparsable", got[0]["action"])
	assert.Equal(t, "warning", got[0]["level"])
	assert.Equal(t, "S1", got[0]["fields"].(map[string]any)["id"])
	assert.NotContains(t, got[0], "path")
}

func TestError_WithRequest(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(&buf)()

	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("requestid", "rid-1")
		Error(c, "sale.delete.fail", errors.New("boom"), nil)
		return c.SendStatus(fiber.StatusTeapot)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)

	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "sale.delete.fail", got[0]["action"])
	assert.Equal(t, "boom", got[0]["err"])
	assert.Equal(t, "/x", got[0]["path"])
	assert.Equal(t, "rid-1", got[0]["req_id"])
}

func TestSetup_Level(t *testing.T) {
	var buf bytes.Buffer
	defer SetOutput(logg.Out)()
	defer logg.SetLevel(logg.Level)

	Setup(&buf, "error")
	Info(nil, "quiet", nil)
	Warn("quiet", nil)
	Error(nil, "loud", errors.New("x"), nil)
	got := lines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "loud", got[0]["action"])

	buf.Reset()
	Setup(&buf, "nonsense")
	Info(nil, "heard", nil)
	assert.Len(t, lines(t, &buf), 1)
}

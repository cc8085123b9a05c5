package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logg = newLogger(os.Stdout, logrus.InfoLevel)

func newLogger(w io.Writer, lvl logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{logrus.FieldKeyTime: "ts", logrus.FieldKeyMsg: "action"},
	})
	l.SetLevel(lvl)
	l.SetOutput(w)
	return l
}

// Setup points the shared logger at w with the named level. An unknown
// level falls back to info.
func Setup(w io.Writer, level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logg.SetOutput(w)
	logg.SetLevel(lvl)
}

// SetOutput swaps the sink and returns a func restoring the previous one.
func SetOutput(w io.Writer) (restore func()) {
	old := logg.Out
	logg.SetOutput(w)
	return func() { logg.SetOutput(old) }
}

func write(level logrus.Level, kind string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	f := logrus.Fields{"kind": kind}
	if len(fields) > 0 {
		f["fields"] = fields
	}
	if c != nil {
		f["ip"] = c.IP()
		f["method"] = c.Method()
		f["path"] = c.Path()
		f["status"] = c.Response().StatusCode()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			f["req_id"] = rid
		}
	}
	if err != nil {
		f["err"] = err.Error()
	}
	logg.WithFields(f).Log(level, action)
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "info", c, action, nil, fields)
}
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.InfoLevel, "audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write(logrus.WarnLevel, "security", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write(logrus.ErrorLevel, "error", c, action, err, fields)
}

// Warn is for code running outside a request.
func Warn(action string, fields map[string]any) {
	write(logrus.WarnLevel, "warn", nil, action, nil, fields)
}

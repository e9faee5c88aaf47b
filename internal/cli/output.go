package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"
)

var (
	errNotJSON      = errors.New("response is not JSON")
	errPathNotFound = errors.New("select path not found")
)

// printer writes command output, colored unless disabled.
type printer struct {
	out    io.Writer
	errOut io.Writer

	ok    *color.Color
	warn  *color.Color
	bad   *color.Color
	title *color.Color
	faint *color.Color
}

func newPrinter(out, errOut io.Writer, noColor bool) *printer {
	p := &printer{
		out:    out,
		errOut: errOut,
		ok:     color.New(color.FgGreen, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		bad:    color.New(color.FgRed, color.Bold),
		title:  color.New(color.FgCyan),
		faint:  color.New(color.Faint),
	}

	if noColor {
		for _, c := range []*color.Color{p.ok, p.warn, p.bad, p.title, p.faint} {
			c.DisableColor()
		}
	}

	return p
}

func (p *printer) status(code int, message string) {
	c := p.ok
	switch {
	case code >= 500:
		c = p.bad
	case code >= 400:
		c = p.warn
	}

	_, _ = c.Fprintf(p.out, "%d %s\n", code, message)
}

func (p *printer) heading(s string) {
	_, _ = p.title.Fprintf(p.out, "==> %s\n", s)
}

func (p *printer) progress(s string) {
	_, _ = p.faint.Fprintln(p.out, s)
}

func (p *printer) success(format string, args ...any) {
	_, _ = p.ok.Fprintf(p.out, format+"\n", args...)
}

func (p *printer) failure(err error) {
	_, _ = p.bad.Fprintf(p.errOut, "error: %v\n", err)
}

// body prints raw, or only the value at selectPath when one is given.
func (p *printer) body(raw, selectPath string) error {
	if selectPath == "" {
		if raw != "" {
			_, _ = fmt.Fprintln(p.out, strings.TrimRight(raw, "\n"))
		}
		return nil
	}

	if !gjson.Valid(raw) {
		return errNotJSON
	}

	r := gjson.Get(raw, selectPath)
	if !r.Exists() {
		return fmt.Errorf("%w: %s", errPathNotFound, selectPath)
	}

	if r.Type == gjson.String {
		_, _ = fmt.Fprintln(p.out, r.String())
		return nil
	}

	_, _ = fmt.Fprintln(p.out, r.Raw)
	return nil
}

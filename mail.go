package portfolio

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"
	"time"
)

// Mailer delivers rendered reports over SMTP with STARTTLS. With Test set,
// the composed message is written to Out instead of being sent, so the
// MIME structure can be inspected without an SMTP account.
type Mailer struct {
	Config EmailConfig
	Test   bool
	Out    io.Writer // defaults to os.Stdout in test mode
}

// Send composes a multipart/alternative message from the rendered text and
// HTML bodies and delivers it to the configured recipients. A chart file
// named in the report is attached inline. An incomplete configuration
// aborts the send with an error wrapping ErrConfigIncomplete.
func (m *Mailer) Send(r *ReportData, text, html string) error {
	if err := m.Config.Validate(); err != nil {
		return fmt.Errorf("cannot send report: %w", err)
	}
	msg, err := m.compose(r, text, html)
	if err != nil {
		return err
	}
	if m.Test {
		out := m.Out
		if out == nil {
			out = os.Stdout
		}
		_, err := out.Write(msg)
		return err
	}
	cfg := m.Config
	addr := fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPServer)
	if err := smtp.SendMail(addr, auth, cfg.Sender, cfg.Recipients, msg); err != nil {
		return fmt.Errorf("sending report to %v: %w", cfg.Recipients, err)
	}
	return nil
}

func (m *Mailer) compose(r *ReportData, text, html string) ([]byte, error) {
	cfg := m.Config
	var buf bytes.Buffer
	mixed := multipart.NewWriter(&buf)

	fmt.Fprintf(&buf, "From: %s\r\n", cfg.Sender)
	fmt.Fprintf(&buf, "Reply-To: %s\r\n", cfg.Sender)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(cfg.Recipients, ", "))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Subject: %s\r\n", r.Title)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", mixed.Boundary())

	alt := multipart.NewWriter(nil)
	part, err := mixed.CreatePart(textproto.MIMEHeader{
		"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alt.Boundary())},
	})
	if err != nil {
		return nil, fmt.Errorf("composing message: %w", err)
	}
	altw := multipart.NewWriter(part)
	if err := altw.SetBoundary(alt.Boundary()); err != nil {
		return nil, fmt.Errorf("composing message: %w", err)
	}
	for _, body := range []struct{ ctype, content string }{
		{"text/plain; charset=utf-8", text},
		{"text/html; charset=utf-8", html},
	} {
		w, err := altw.CreatePart(textproto.MIMEHeader{"Content-Type": {body.ctype}})
		if err != nil {
			return nil, fmt.Errorf("composing message: %w", err)
		}
		if _, err := io.WriteString(w, body.content); err != nil {
			return nil, fmt.Errorf("composing message: %w", err)
		}
	}
	if err := altw.Close(); err != nil {
		return nil, fmt.Errorf("composing message: %w", err)
	}

	if r.ChartFile != "" {
		if err := attachChart(mixed, r.ChartFile); err != nil {
			return nil, err
		}
	}
	if err := mixed.Close(); err != nil {
		return nil, fmt.Errorf("composing message: %w", err)
	}
	return buf.Bytes(), nil
}

// attachChart adds the chart image as an inline attachment, addressable
// from the HTML body as cid:portfolio-summary.
func attachChart(mw *multipart.Writer, path string) error {
	img, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot attach chart: %w", err)
	}
	w, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"image/png"},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {`attachment; filename="portfolio.png"`},
		"Content-Id":                {"<portfolio-summary>"},
	})
	if err != nil {
		return fmt.Errorf("cannot attach chart: %w", err)
	}
	enc := base64.NewEncoder(base64.StdEncoding, w)
	if _, err := enc.Write(img); err != nil {
		return fmt.Errorf("cannot attach chart: %w", err)
	}
	return enc.Close()
}

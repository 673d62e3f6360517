// Package bodydecode turns a fetched BODY[...] section's raw text into
// plain text, HTML and attachment parts, decoding directly off a
// demux.Fetch with go-message/mail's Reader rather than hand-rolling a
// recursive MIME walk: Reader already flattens nested multipart structure
// and classifies each leaf part as inline or attachment, which is the
// actual question this package needs answered.
package bodydecode

import (
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message/mail"

	"github.com/emx-mail/imapcore/demux"
)

// Attachment is one non-inline MIME part extracted from a decoded message.
type Attachment struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Body is the decoded content of a fetched message's body section.
type Body struct {
	TextBody    string
	HTMLBody    string
	Attachments []Attachment
}

// Decode looks up f's attrName attribute (e.g. "BODY[]", the full RFC 5322
// message text) and classifies its parts with a mail.Reader. An inline
// text/plain part fills TextBody, an inline text/html part fills HTMLBody,
// and an attachment part (by sender disposition, or anything that isn't
// text/plain or text/html) is appended to Attachments. The first inline
// part of a given kind wins, matching how a mail client typically prefers
// the earliest alternative it can render.
func Decode(f demux.Fetch, attrName string) (Body, error) {
	attr, ok := f.Attr(attrName)
	if !ok {
		return Body{}, fmt.Errorf("bodydecode: fetch has no %s attribute", attrName)
	}

	mr, err := mail.CreateReader(strings.NewReader(attr.Raw))
	if err != nil {
		return Body{}, fmt.Errorf("bodydecode: parse message: %w", err)
	}

	var b Body
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Body{}, fmt.Errorf("bodydecode: read part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			if err := decodeInline(&b, h, part.Body); err != nil {
				return Body{}, err
			}
		case *mail.AttachmentHeader:
			a, err := decodeAttachment(h, part.Body)
			if err != nil {
				return Body{}, err
			}
			b.Attachments = append(b.Attachments, a)
		}
	}

	return b, nil
}

func decodeInline(b *Body, h *mail.InlineHeader, body io.Reader) error {
	ct, _, _ := h.ContentType()
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("bodydecode: read inline part: %w", err)
	}
	switch {
	case strings.HasPrefix(ct, "text/html"):
		if b.HTMLBody == "" {
			b.HTMLBody = string(data)
		}
	case ct == "" || strings.HasPrefix(ct, "text/plain"):
		if b.TextBody == "" {
			b.TextBody = string(data)
		}
	default:
		b.Attachments = append(b.Attachments, Attachment{ContentType: ct, Size: int64(len(data)), Data: data})
	}
	return nil
}

func decodeAttachment(h *mail.AttachmentHeader, body io.Reader) (Attachment, error) {
	ct, _, _ := h.ContentType()
	filename, _ := h.Filename()
	data, err := io.ReadAll(body)
	if err != nil {
		return Attachment{}, fmt.Errorf("bodydecode: read attachment: %w", err)
	}
	return Attachment{
		Filename:    filename,
		ContentType: ct,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

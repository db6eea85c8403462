package document

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

var ErrUnsupportedType = errors.New("unsupported file type (only PDF and plain text allowed)")

// Extract returns the plain text of an uploaded file. The type is sniffed from
// content; filename is only used in error messages.
func Extract(filename string, content []byte) (string, error) {
	mtype := mimetype.Detect(content)
	switch {
	case mtype.Is("application/pdf"):
		text, err := extractPDF(content)
		if err != nil {
			return "", fmt.Errorf("extract pdf %q: %w", filename, err)
		}
		return text, nil
	case isPlainText(mtype):
		return decodeText(filename, mtype, content)
	default:
		return "", fmt.Errorf("%w: %s is %s", ErrUnsupportedType, filename, mtype.String())
	}
}

func isPlainText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// decodeText returns content as UTF-8 with any byte-order mark removed.
// UTF-16 is converted; other non-UTF-8 charsets are rejected.
func decodeText(filename string, mtype *mimetype.MIME, content []byte) (string, error) {
	var dec *encoding.Decoder
	switch charset := textCharset(mtype); charset {
	case "utf-16le":
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "utf-16be":
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case "", "utf-8", "us-ascii":
		if !utf8.Valid(content) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedType, filename)
		}
		dec = unicode.UTF8BOM.NewDecoder()
	default:
		return "", fmt.Errorf("%w: %s has charset %s", ErrUnsupportedType, filename, charset)
	}

	out, err := dec.Bytes(content)
	if err != nil {
		return "", fmt.Errorf("decode %q: %w", filename, err)
	}
	return string(out), nil
}

func textCharset(mtype *mimetype.MIME) string {
	_, params, err := mime.ParseMediaType(mtype.String())
	if err != nil {
		return ""
	}
	return strings.ToLower(params["charset"])
}

func extractPDF(content []byte) (text string, err error) {
	// ledongthuc/pdf panics on some malformed files.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

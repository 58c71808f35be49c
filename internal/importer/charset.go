package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders maps chardet charset names to the decoders we accept. Anything
// else is read as Windows-1252, which is what Portuguese bank exports use.
var decoders = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// Decoded is a statement converted to UTF-8.
type Decoded struct {
	io.Reader
	// Charset is the detected source encoding.
	Charset string
	// Comma is the most frequent field separator on the first line.
	Comma rune
}

// Decode sniffs the encoding and field separator of a statement.
func Decode(r io.Reader) (*Decoded, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	d := &Decoded{Reader: br, Charset: "UTF-8", Comma: sniffComma(head)}

	switch {
	case bytes.HasPrefix(head, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
	case bytes.HasPrefix(head, bomUTF16LE):
		d.Charset = "UTF-16LE"
		d.Reader = transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder())
	case bytes.HasPrefix(head, bomUTF16BE):
		d.Charset = "UTF-16BE"
		d.Reader = transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder())
	case utf8.Valid(head):
	default:
		d.Charset = "windows-1252"
		enc := encoding.Encoding(charmap.Windows1252)

		if res, err := chardet.NewTextDetector().DetectBest(head); err == nil {
			if res.Charset == "UTF-8" {
				d.Charset = res.Charset
				return d, nil
			}

			if e, ok := decoders[res.Charset]; ok {
				d.Charset, enc = res.Charset, e
			}
		}

		d.Reader = transform.NewReader(br, enc.NewDecoder())
	}

	return d, nil
}

// sniffComma picks the separator by counting candidates on the first
// non-empty line. Semicolon wins ties because bank exports favour it.
func sniffComma(head []byte) rune {
	line := head
	for len(line) > 0 {
		i := bytes.IndexByte(line, '\n')
		if i < 0 {
			break
		}

		if len(bytes.TrimSpace(line[:i])) > 0 {
			line = line[:i]
			break
		}

		line = line[i+1:]
	}

	best, bestCount := ';', bytes.Count(line, []byte{';'})

	for _, c := range []rune{',', '\t'} {
		if n := bytes.Count(line, []byte(string(c))); n > bestCount {
			best, bestCount = c, n
		}
	}

	return best
}

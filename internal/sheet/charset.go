package sheet

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

var boms = []struct {
	prefix []byte
	enc    encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, unicode.UTF8BOM},
	{[]byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

// chardet names we trust; anything else falls through to windows-1252,
// which is what accounting packages on Windows emit by default.
var detected = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// NewUTF8Reader returns a reader yielding UTF-8 regardless of the source
// encoding. BOMs are honoured and stripped; BOM-less input that is not valid
// UTF-8 is classified with chardet.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	enc := classify(sample)
	if enc == nil {
		return br, nil
	}

	return transform.NewReader(br, enc.NewDecoder()), nil
}

// classify returns nil when the sample is already plain UTF-8.
func classify(sample []byte) encoding.Encoding {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.enc
		}
	}

	if utf8.Valid(sample) {
		return nil
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		if res.Charset == "UTF-8" {
			return nil
		}

		if enc, ok := detected[res.Charset]; ok {
			return enc
		}
	}

	return charmap.Windows1252
}

package ingest

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// textDecoder lossily transcodes raw bytes from a file's declared encoding
// into valid UTF-8, falling back to identity when the bytes are already
// valid UTF-8 or the declared encoding is unrecognized.
type textDecoder struct {
	dec *encoding.Decoder // nil means "no declared non-UTF-8 encoding; validate only"
}

// newTextDecoder resolves declaredEncoding (a SAS file_encoding string such
// as "WINDOWS-1252" or "UTF-8") to an x/text Decoder that replaces
// unsupported sequences with U+FFFD rather than erroring.
func newTextDecoder(declaredEncoding string) *textDecoder {
	if declaredEncoding == "" {
		return &textDecoder{}
	}
	enc, err := htmlindex.Get(declaredEncoding)
	if err != nil {
		return &textDecoder{}
	}
	return &textDecoder{dec: enc.NewDecoder()}
}

// decode returns a valid-UTF-8 string for raw. Already-valid UTF-8 input is
// returned unchanged (the common case, since most .sas7bdat files declare
// UTF-8 or plain ASCII). Invalid sequences are replaced with U+FFFD via the
// declared encoding's decoder, or, absent a usable decoder, via a direct
// byte-for-byte replacement pass.
func (t *textDecoder) decode(raw string) string {
	if utf8.ValidString(raw) {
		return raw
	}
	if t.dec != nil {
		if out, err := t.dec.String(raw); err == nil {
			return out
		}
	}
	return toValidUTF8(raw)
}

// toValidUTF8 replaces each invalid byte with U+FFFD, used only when no
// declared-encoding decoder could make sense of the bytes either.
func toValidUTF8(raw string) string {
	buf := make([]rune, 0, len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if r == utf8.RuneError && size <= 1 {
			buf = append(buf, utf8.RuneError)
			i++
			continue
		}
		buf = append(buf, r)
		i += size
	}
	return string(buf)
}

package catalog

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
	"google.golang.org/protobuf/encoding/protowire"
)

// Snapshot export fields, numbered like a .proto message so the wire
// format stays stable across releases without carrying a generated
// schema: 1=msgid, 2=type, 3=source_path, 4=source_line, 5=comment,
// 6=wrap, 7=translations (repeated, itself field-numbered 1=locale,
// 2=msgstr).
const (
	fieldMsgid      = 1
	fieldType       = 2
	fieldSourcePath = 3
	fieldSourceLine = 4
	fieldComment    = 5
	fieldWrap       = 6
	fieldTranslation = 7

	fieldTrLocale = 1
	fieldTrMsgstr = 2
)

// WriteSnapshot encodes every Message in the store as a length-delimited
// sequence of protobuf wire messages, xz-compressed, to w. This is the
// archival export format: portable across po4man versions without
// depending on the sqlite file layout.
func WriteSnapshot(w io.Writer, msgs []Message) error {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("open snapshot writer: %w", err)
	}

	for _, m := range msgs {
		buf := encodeMessage(m)
		var lenPrefix [binary10]byte
		n := putUvarint(lenPrefix[:], uint64(len(buf)))
		if _, err := zw.Write(lenPrefix[:n]); err != nil {
			return fmt.Errorf("write snapshot entry length: %w", err)
		}
		if _, err := zw.Write(buf); err != nil {
			return fmt.Errorf("write snapshot entry: %w", err)
		}
	}

	return zw.Close()
}

// ReadSnapshot decodes a stream written by WriteSnapshot.
func ReadSnapshot(r io.Reader) ([]Message, error) {
	zr, err := xz.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("open snapshot reader: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, zr); err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var msgs []Message
	rest := buf.Bytes()
	for len(rest) > 0 {
		n, rest2 := getUvarint(rest)
		if rest2 == nil {
			return nil, fmt.Errorf("corrupt snapshot: bad length prefix")
		}
		if uint64(len(rest2)) < n {
			return nil, fmt.Errorf("corrupt snapshot: truncated entry")
		}
		entry := rest2[:n]
		rest = rest2[n:]

		msg, err := decodeMessage(entry)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

const binary10 = 10 // max bytes of a protobuf varint

func putUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

func getUvarint(buf []byte) (uint64, []byte) {
	var v uint64
	var shift uint
	for i, b := range buf {
		v |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return v, buf[i+1:]
		}
		shift += 7
	}
	return 0, nil
}

func encodeMessage(m Message) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMsgid, protowire.BytesType)
	b = protowire.AppendString(b, m.Msgid)
	b = protowire.AppendTag(b, fieldType, protowire.BytesType)
	b = protowire.AppendString(b, m.Type)
	b = protowire.AppendTag(b, fieldSourcePath, protowire.BytesType)
	b = protowire.AppendString(b, m.SourcePath)
	b = protowire.AppendTag(b, fieldSourceLine, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.SourceLine))
	b = protowire.AppendTag(b, fieldComment, protowire.BytesType)
	b = protowire.AppendString(b, m.Comment)
	b = protowire.AppendTag(b, fieldWrap, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(m.Wrap))
	for _, t := range m.Translations {
		var tb []byte
		tb = protowire.AppendTag(tb, fieldTrLocale, protowire.BytesType)
		tb = protowire.AppendString(tb, t.Locale)
		tb = protowire.AppendTag(tb, fieldTrMsgstr, protowire.BytesType)
		tb = protowire.AppendString(tb, t.Msgstr)

		b = protowire.AppendTag(b, fieldTranslation, protowire.BytesType)
		b = protowire.AppendBytes(b, tb)
	}
	return b
}

func boolToVarint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

func decodeMessage(buf []byte) (Message, error) {
	var m Message
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return m, fmt.Errorf("decode snapshot entry: bad tag")
		}
		buf = buf[n:]

		switch num {
		case fieldMsgid:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return m, fmt.Errorf("decode msgid: %w", protowire.ParseError(n))
			}
			m.Msgid, buf = s, buf[n:]
		case fieldType:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return m, fmt.Errorf("decode type: %w", protowire.ParseError(n))
			}
			m.Type, buf = s, buf[n:]
		case fieldSourcePath:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return m, fmt.Errorf("decode source_path: %w", protowire.ParseError(n))
			}
			m.SourcePath, buf = s, buf[n:]
		case fieldSourceLine:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return m, fmt.Errorf("decode source_line: %w", protowire.ParseError(n))
			}
			m.SourceLine, buf = int(v), buf[n:]
		case fieldComment:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return m, fmt.Errorf("decode comment: %w", protowire.ParseError(n))
			}
			m.Comment, buf = s, buf[n:]
		case fieldWrap:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return m, fmt.Errorf("decode wrap: %w", protowire.ParseError(n))
			}
			m.Wrap, buf = v != 0, buf[n:]
		case fieldTranslation:
			tb, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return m, fmt.Errorf("decode translation: %w", protowire.ParseError(n))
			}
			buf = buf[n:]
			tr, err := decodeTranslation(tb)
			if err != nil {
				return m, err
			}
			m.Translations = append(m.Translations, tr)
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return m, fmt.Errorf("decode snapshot entry: bad field")
			}
			buf = buf[n:]
		}
	}
	return m, nil
}

func decodeTranslation(buf []byte) (Translation, error) {
	var t Translation
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return t, fmt.Errorf("decode translation entry: bad tag")
		}
		buf = buf[n:]
		switch num {
		case fieldTrLocale:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return t, fmt.Errorf("decode locale: %w", protowire.ParseError(n))
			}
			t.Locale, buf = s, buf[n:]
		case fieldTrMsgstr:
			s, n := protowire.ConsumeString(buf)
			if n < 0 {
				return t, fmt.Errorf("decode msgstr: %w", protowire.ParseError(n))
			}
			t.Msgstr, buf = s, buf[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return t, fmt.Errorf("decode translation entry: bad field")
			}
			buf = buf[n:]
		}
	}
	return t, nil
}

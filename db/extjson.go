package db

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnsupportedValue is returned when a document holds a value the sample files cannot express.
var ErrUnsupportedValue = errors.New("unsupported value")

const (
	indentUnit = "  "
	dateLayout = "2006-01-02T15:04:05.000Z"
)

// DecodeCollection parses a JSON array of relaxed extended-JSON documents, keeping field order.
func DecodeCollection(raw []byte) ([]bson.D, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("collection is not a JSON array: %w", err)
	}

	docs := make([]bson.D, 0, len(items))
	for i, item := range items {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(item, false, &doc); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// EncodeCollection writes docs the way json.dump(docs, fh, indent=2) does in the original
// tooling, followed by a newline, so untouched records stay byte-identical.
func EncodeCollection(docs []bson.D) ([]byte, error) {
	buf := &bytes.Buffer{}
	list := make(bson.A, len(docs))
	for i, doc := range docs {
		list[i] = doc
	}
	if err := writeValue(buf, list, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v interface{}, level int) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case string:
		writeString(buf, val)
	case int:
		buf.WriteString(strconv.Itoa(val))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case float32:
		buf.WriteString(formatFloat(float64(val)))
	case float64:
		buf.WriteString(formatFloat(val))
	case primitive.ObjectID:
		return writeDocument(buf, bson.D{{Key: "$oid", Value: val.Hex()}}, level)
	case *primitive.ObjectID:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		return writeValue(buf, *val, level)
	case primitive.DateTime:
		return writeDocument(buf, bson.D{{Key: "$date", Value: formatDate(val.Time())}}, level)
	case *primitive.DateTime:
		if val == nil {
			buf.WriteString("null")
			return nil
		}
		return writeValue(buf, *val, level)
	case time.Time:
		return writeDocument(buf, bson.D{{Key: "$date", Value: formatDate(val)}}, level)
	case bson.D:
		return writeDocument(buf, val, level)
	case bson.M:
		return writeDocument(buf, sortedDocument(val), level)
	case bson.A:
		return writeList(buf, []interface{}(val), level)
	case []interface{}:
		return writeList(buf, val, level)
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			items := make([]interface{}, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			return writeList(buf, items, level)
		}
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func writeDocument(buf *bytes.Buffer, doc bson.D, level int) error {
	if len(doc) == 0 {
		buf.WriteString("{}")
		return nil
	}
	inner := "\n" + strings.Repeat(indentUnit, level+1)
	buf.WriteByte('{')
	for i, e := range doc {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(inner)
		writeString(buf, e.Key)
		buf.WriteString(": ")
		if err := writeValue(buf, e.Value, level+1); err != nil {
			return fmt.Errorf("field %q: %w", e.Key, err)
		}
	}
	buf.WriteString("\n" + strings.Repeat(indentUnit, level))
	buf.WriteByte('}')
	return nil
}

func writeList(buf *bytes.Buffer, items []interface{}, level int) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}
	inner := "\n" + strings.Repeat(indentUnit, level+1)
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(inner)
		if err := writeValue(buf, item, level+1); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	buf.WriteString("\n" + strings.Repeat(indentUnit, level))
	buf.WriteByte(']')
	return nil
}

// writeString escapes everything outside printable ASCII, matching ensure_ascii output.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(buf, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(buf, `\u%04x`, r)
			}
		}
	}
	buf.WriteByte('"')
}

// formatFloat writes the shortest round-trip digits, exponent form
// outside [1e-4, 1e16), and a trailing ".0" for integral values.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	exp := int(math.Floor(math.Log10(math.Abs(f))))
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if mark := strings.IndexByte(sci, 'e'); mark >= 0 {
		if e, err := strconv.Atoi(sci[mark+1:]); err == nil {
			exp = e
		}
	}
	if exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func sortedDocument(m bson.M) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: m[k]})
	}
	return doc
}

package flatfile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandevgo/topicscribe/internal/core"
)

const (
	delimiter  = "|"
	noIDMarker = "None"
)

// ErrMalformed is returned by Decode for lines that cannot be turned into a record.
var ErrMalformed = errors.New("malformed record")

// Format tells which line layout a record was decoded from.
type Format int

const (
	// FormatFull is timestamp|author_id|author_name|external_id|text.
	FormatFull Format = iota
	// FormatLegacy is timestamp|author_id|author_name|text, written before
	// external ids were tracked.
	FormatLegacy
)

func (f Format) String() string {
	if f == FormatLegacy {
		return "legacy"
	}
	return "full"
}

var (
	fieldEscaper = strings.NewReplacer(delimiter, " ", "\n", " ", "\r", " ")
	textEscaper  = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", `\r`)
)

// Encode renders rec as one newline-terminated line. Only the text field may
// carry the delimiter; it is always last and never re-split.
func Encode(rec core.Record) string {
	name := fieldEscaper.Replace(rec.AuthorName)
	if strings.TrimSpace(name) == "" {
		name = core.UnknownName
	}
	authorID := fieldEscaper.Replace(rec.AuthorID)

	externalID := noIDMarker
	if rec.ExternalID.Valid {
		externalID = strconv.FormatInt(rec.ExternalID.ID, 10)
	}

	var sb strings.Builder
	sb.WriteString(core.FormatTimestamp(rec.Timestamp))
	sb.WriteString(delimiter)
	sb.WriteString(authorID)
	sb.WriteString(delimiter)
	sb.WriteString(name)
	sb.WriteString(delimiter)
	sb.WriteString(externalID)
	sb.WriteString(delimiter)
	sb.WriteString(textEscaper.Replace(rec.Text))
	sb.WriteString("\n")
	return sb.String()
}

// Decode parses one line. Errors wrap ErrMalformed; callers skip such lines.
func Decode(line string) (core.Record, Format, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.Split(line, delimiter)
	if len(parts) < 4 {
		return core.Record{}, FormatFull, fmt.Errorf("%w: %d fields", ErrMalformed, len(parts))
	}

	ts, err := core.ParseTimestamp(parts[0])
	if err != nil {
		return core.Record{}, FormatFull, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	rec := core.Record{
		Timestamp:  ts,
		AuthorID:   parts[1],
		AuthorName: parts[2],
	}
	if rec.AuthorName == "" {
		rec.AuthorName = core.UnknownName
	}

	if len(parts) == 4 {
		rec.Text = unescapeText(parts[3])
		return rec, FormatLegacy, nil
	}

	if parts[3] != noIDMarker {
		id, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			return core.Record{}, FormatFull, fmt.Errorf("%w: external id %q", ErrMalformed, parts[3])
		}
		rec.ExternalID = core.SomeID(id)
	}
	rec.Text = unescapeText(strings.Join(parts[4:], delimiter))
	return rec, FormatFull, nil
}

func unescapeText(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			sb.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case '\\':
			sb.WriteByte('\\')
		default:
			// unknown escape, keep it literally
			sb.WriteByte(c)
			continue
		}
		i++
	}
	return sb.String()
}

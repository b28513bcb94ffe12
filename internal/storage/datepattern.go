package storage

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DatePattern is a parsed Java/Spark-style date pattern such as "yyyy-MM-dd"
// or "MM/dd/yyyy". It renders the equivalent format for each backend so every
// engine accepts and rejects the same strings.
//
// Supported letters: y, M, d, H, m, s. Text in single quotes is literal and
// two single quotes produce one.
type DatePattern struct {
	source string
	tokens []dateToken
	re     *regexp.Regexp
}

type dateToken struct {
	letter byte // 0 for literal text
	width  int
	lit    string
}

// DefaultDatePattern is used when the workflow does not set one.
const DefaultDatePattern = "yyyy-MM-dd"

// ParseDatePattern tokenizes p.
func ParseDatePattern(p string) (DatePattern, error) {
	if strings.TrimSpace(p) == "" {
		return DatePattern{}, fmt.Errorf("date pattern must not be empty")
	}
	var (
		toks []dateToken
		lit  strings.Builder
	)
	flushLit := func() {
		if lit.Len() > 0 {
			toks = append(toks, dateToken{lit: lit.String()})
			lit.Reset()
		}
	}
	for i := 0; i < len(p); {
		c := p[i]
		switch {
		case c == '\'':
			if i+1 < len(p) && p[i+1] == '\'' {
				lit.WriteByte('\'')
				i += 2
				continue
			}
			end := strings.IndexByte(p[i+1:], '\'')
			if end < 0 {
				return DatePattern{}, fmt.Errorf("date pattern %q: unterminated quote", p)
			}
			lit.WriteString(p[i+1 : i+1+end])
			i += end + 2
		case strings.IndexByte("yMdHms", c) >= 0:
			flushLit()
			n := 1
			for i+n < len(p) && p[i+n] == c {
				n++
			}
			if n > 4 || (c != 'y' && n > 2) {
				return DatePattern{}, fmt.Errorf("date pattern %q: unsupported field %s", p, strings.Repeat(string(c), n))
			}
			toks = append(toks, dateToken{letter: c, width: n})
			i += n
		case (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
			return DatePattern{}, fmt.Errorf("date pattern %q: unsupported letter %q", p, c)
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLit()

	var hasY, hasM, hasD bool
	for _, t := range toks {
		switch t.letter {
		case 'y':
			hasY = true
		case 'M':
			hasM = true
		case 'd':
			hasD = true
		}
	}
	if !hasY || !hasM || !hasD {
		return DatePattern{}, fmt.Errorf("date pattern %q: year, month and day are required", p)
	}
	dp := DatePattern{source: p, tokens: toks}
	re, err := regexp.Compile(dp.Regexp())
	if err != nil {
		return DatePattern{}, fmt.Errorf("date pattern %q: %w", p, err)
	}
	dp.re = re
	return dp, nil
}

// MustDatePattern is ParseDatePattern that panics; for package-level defaults.
func MustDatePattern(p string) DatePattern {
	dp, err := ParseDatePattern(p)
	if err != nil {
		panic(err)
	}
	return dp
}

func (p DatePattern) String() string { return p.source }

func (t dateToken) fixed() bool {
	return t.letter == 0 || t.width >= 2 || t.letter == 'y'
}

func (t dateToken) digits() int {
	if t.letter == 'y' && t.width != 2 {
		return 4
	}
	return 2
}

// GoLayout returns the time.Parse layout.
func (p DatePattern) GoLayout() string {
	var sb strings.Builder
	for _, t := range p.tokens {
		switch t.letter {
		case 0:
			sb.WriteString(t.lit)
		case 'y':
			sb.WriteString(t.year("2006", "06"))
		case 'M':
			sb.WriteString(pick(t.width, "1", "01"))
		case 'd':
			sb.WriteString(pick(t.width, "2", "02"))
		case 'H':
			sb.WriteString("15")
		case 'm':
			sb.WriteString(pick(t.width, "4", "04"))
		case 's':
			sb.WriteString(pick(t.width, "5", "05"))
		}
	}
	return sb.String()
}

// Parse parses s and truncates the result to a date. Strings whose shape does
// not match the pattern are rejected even where time.Parse is lenient.
func (p DatePattern) Parse(s string) (time.Time, bool) {
	if p.re == nil || !p.re.MatchString(s) {
		return time.Time{}, false
	}
	ts, err := time.Parse(p.GoLayout(), s)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// PGFormat returns the Postgres to_date/to_timestamp template.
func (p DatePattern) PGFormat() string {
	var sb strings.Builder
	for _, t := range p.tokens {
		switch t.letter {
		case 0:
			if strings.ContainsAny(t.lit, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") {
				sb.WriteString(`"` + t.lit + `"`)
			} else {
				sb.WriteString(t.lit)
			}
		case 'y':
			sb.WriteString(t.year("YYYY", "YY"))
		case 'M':
			sb.WriteString("MM")
		case 'd':
			sb.WriteString("DD")
		case 'H':
			sb.WriteString("HH24")
		case 'm':
			sb.WriteString("MI")
		case 's':
			sb.WriteString("SS")
		}
	}
	return sb.String()
}

// MySQLFormat returns the STR_TO_DATE format.
func (p DatePattern) MySQLFormat() string {
	var sb strings.Builder
	for _, t := range p.tokens {
		switch t.letter {
		case 0:
			sb.WriteString(strings.ReplaceAll(t.lit, "%", "%%"))
		case 'y':
			sb.WriteString(t.year("%Y", "%y"))
		case 'M':
			sb.WriteString(pick(t.width, "%c", "%m"))
		case 'd':
			sb.WriteString(pick(t.width, "%e", "%d"))
		case 'H':
			sb.WriteString(pick(t.width, "%k", "%H"))
		case 'm':
			sb.WriteString("%i")
		case 's':
			sb.WriteString("%s")
		}
	}
	return sb.String()
}

// Regexp returns an anchored POSIX-compatible expression matching exactly the
// strings the pattern accepts by shape. Digit classes are spelled [0-9] so the
// expression needs no backslash escaping in any SQL dialect.
func (p DatePattern) Regexp() string {
	var sb strings.Builder
	sb.WriteByte('^')
	for _, t := range p.tokens {
		if t.letter == 0 {
			for _, r := range t.lit {
				switch {
				case r == '.':
					sb.WriteString("[.]")
				case r == '\'' || strings.ContainsRune(`\^$*+?()[]{}|`, r):
					sb.WriteString(regexp.QuoteMeta(string(r)))
				default:
					sb.WriteRune(r)
				}
			}
			continue
		}
		if t.fixed() {
			fmt.Fprintf(&sb, "[0-9]{%d}", t.digits())
		} else {
			sb.WriteString("[0-9]{1,2}")
		}
	}
	sb.WriteByte('$')
	return sb.String()
}

// Like returns a SQL Server LIKE pattern equivalent to Regexp. ok is false
// when a field has variable width, which LIKE cannot express.
func (p DatePattern) Like() (pattern string, ok bool) {
	var sb strings.Builder
	for _, t := range p.tokens {
		if t.letter == 0 {
			for _, r := range t.lit {
				switch r {
				case '%', '_', '[':
					sb.WriteString("[" + string(r) + "]")
				default:
					sb.WriteRune(r)
				}
			}
			continue
		}
		if !t.fixed() {
			return "", false
		}
		sb.WriteString(strings.Repeat("[0-9]", t.digits()))
	}
	return sb.String(), true
}

var mssqlStyles = map[string]int{
	"yyyy-MM-dd":          23,
	"MM/dd/yyyy":          101,
	"yyyy.MM.dd":          102,
	"dd/MM/yyyy":          103,
	"dd.MM.yyyy":          104,
	"dd-MM-yyyy":          105,
	"MM-dd-yyyy":          110,
	"yyyy/MM/dd":          111,
	"yyyyMMdd":            112,
	"yyyy-MM-dd HH:mm:ss": 120,
}

// MSSQLStyle returns the CONVERT style number for the pattern, if any.
func (p DatePattern) MSSQLStyle() (int, bool) {
	s, ok := mssqlStyles[p.source]
	return s, ok
}

func pick(width int, one, two string) string {
	if width >= 2 {
		return two
	}
	return one
}

func (t dateToken) year(four, two string) string {
	if t.width == 2 {
		return two
	}
	return four
}

// Credit to https://github.com/santhosh-tekuri/jsonschema, via the teacher's
// formats.go: the string-format checkers below are adapted from there,
// retargeted from interface{} to *Value so they read exact string instances
// instead of decoded any values.
package jsonschema

import (
	"errors"
	"net"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	errIPv6NotEnclosed = errors.New("ipv6 host must be enclosed in brackets")
	errInvalidIPv6      = errors.New("invalid ipv6 address")
)

// formatKeywordClasses returns the Format vocabulary's single keyword
// class. Whether it asserts or only annotates is decided per metaschema
// (vocabulariesRequireFormat in schema.go), not by the keyword itself —
// grounded on the teacher's format.go, which read an AssertFormat flag off
// the compiler instead.
func formatKeywordClasses() []*KeywordClass {
	return []*KeywordClass{formatKeywordClass()}
}

type formatKeyword struct{ name string }

func (k *formatKeyword) Evaluate(instance *Value, scope *Scope) {
	scope.Annotate(k.name)
	cat := scope.schemaCtx.ctx.cat
	validator, ok := cat.formatValidator(k.name)
	if !ok {
		return // unknown format names are ignored, per the validation spec
	}
	if !validator(instance) {
		scope.Fail("format", "value does not match format {format}", map[string]any{"format": k.name})
	}
}

func formatKeywordClass() *KeywordClass {
	return &KeywordClass{
		Name:   "format",
		Schema: Str(""),
		New: func(parent *Schema, value *Value) (Keyword, error) {
			return &formatKeyword{name: value.Str}, nil
		},
	}
}

// AddBuiltinFormats registers the standard string formats defined by the
// JSON Schema validation specification's format-vocabulary appendix
// (date-time, email, uri, uuid, and so on).
func AddBuiltinFormats(c *Catalogue) *Catalogue {
	return c.AddFormatValidators(map[string]FormatValidator{
		"date-time":             isDateTime,
		"date":                  isDate,
		"time":                  isTime,
		"duration":              isDuration,
		"period":                isPeriod,
		"hostname":              isHostname,
		"email":                 isEmail,
		"ip-address":            isIPV4,
		"ipv4":                  isIPV4,
		"ipv6":                  isIPV6,
		"uri":                   isURI,
		"iri":                   isURI,
		"uri-reference":         isURIReference,
		"iri-reference":         isURIReference,
		"uri-template":          isURITemplate,
		"json-pointer":          isJSONPointer,
		"relative-json-pointer": isRelativeJSONPointer,
		"uuid":                  isUUID,
		"regex":                 isRegex,
	})
}

func isDateTime(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	if len(s) < 20 {
		return false
	}
	if s[10] != 'T' && s[10] != 't' {
		return false
	}
	return isDate(Str(s[:10])) && isTime(Str(s[11:]))
}

func isDate(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	_, err := time.Parse("2006-01-02", v.Str)
	return err == nil
}

func isTime(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	str := v.Str
	if len(str) < 9 || str[2] != ':' || str[5] != ':' {
		return false
	}
	inRange := func(s string, min, max int) (int, bool) {
		n, err := strconv.Atoi(s)
		if err != nil || n < min || n > max {
			return 0, false
		}
		return n, true
	}
	var h, m, s int
	var ok bool
	if h, ok = inRange(str[0:2], 0, 23); !ok {
		return false
	}
	if m, ok = inRange(str[3:5], 0, 59); !ok {
		return false
	}
	if s, ok = inRange(str[6:8], 0, 60); !ok {
		return false
	}
	str = str[8:]

	if len(str) > 0 && str[0] == '.' {
		str = str[1:]
		digits := 0
		for str != "" && str[0] >= '0' && str[0] <= '9' {
			digits++
			str = str[1:]
		}
		if digits == 0 {
			return false
		}
	}
	if len(str) == 0 {
		return false
	}
	if str[0] == 'z' || str[0] == 'Z' {
		if len(str) != 1 {
			return false
		}
	} else {
		if len(str) != 6 || str[3] != ':' {
			return false
		}
		var sign int
		switch str[0] {
		case '+':
			sign = -1
		case '-':
			sign = 1
		default:
			return false
		}
		zh, ok := inRange(str[1:3], 0, 23)
		if !ok {
			return false
		}
		zm, ok := inRange(str[4:6], 0, 59)
		if !ok {
			return false
		}
		hm := (h*60 + m) + sign*(zh*60+zm)
		if hm < 0 {
			hm += 24 * 60
		}
		h, m = hm/60, hm%60
	}
	if s == 60 && (h != 23 || m != 59) {
		return false
	}
	return true
}

func isDuration(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	if len(s) == 0 || s[0] != 'P' {
		return false
	}
	s = s[1:]
	parseUnits := func() (units string, ok bool) {
		for len(s) > 0 && s[0] != 'T' {
			digits := false
			for len(s) != 0 && s[0] >= '0' && s[0] <= '9' {
				digits = true
				s = s[1:]
			}
			if !digits || len(s) == 0 {
				return units, false
			}
			units += s[:1]
			s = s[1:]
		}
		return units, true
	}
	units, ok := parseUnits()
	if !ok {
		return false
	}
	if units == "W" {
		return len(s) == 0
	}
	if len(units) > 0 {
		if !strings.Contains("YMD", units) {
			return false
		}
		if len(s) == 0 {
			return true
		}
	}
	if len(s) == 0 || s[0] != 'T' {
		return false
	}
	s = s[1:]
	units, ok = parseUnits()
	return ok && len(s) == 0 && len(units) > 0 && strings.Contains("HMS", units)
}

func isPeriod(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	slash := strings.IndexByte(s, '/')
	if slash == -1 {
		return false
	}
	start, end := Str(s[:slash]), Str(s[slash+1:])
	if isDateTime(start) {
		return isDateTime(end) || isDuration(end)
	}
	return isDuration(start) && isDateTime(end)
}

func isHostname(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := strings.TrimSuffix(v.Str, ".")
	if len(s) > 253 {
		return false
	}
	for _, label := range strings.Split(s, ".") {
		if n := len(label); n < 1 || n > 63 {
			return false
		}
		if s[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, c := range label {
			if valid := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-'; !valid {
				return false
			}
		}
	}
	return true
}

func isEmail(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	if len(s) > 254 {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at == -1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if len(local) > 64 {
		return false
	}
	if len(domain) >= 2 && domain[0] == '[' && domain[len(domain)-1] == ']' {
		ip := domain[1 : len(domain)-1]
		if strings.HasPrefix(ip, "IPv6:") {
			return isIPV6(Str(strings.TrimPrefix(ip, "IPv6:")))
		}
		return isIPV4(Str(ip))
	}
	if !isHostname(Str(domain)) {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}

func isIPV4(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	groups := strings.Split(v.Str, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		n, err := strconv.Atoi(g)
		if err != nil || n < 0 || n > 255 {
			return false
		}
		if n != 0 && g[0] == '0' {
			return false
		}
	}
	return true
}

func isIPV6(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	if !strings.Contains(v.Str, ":") {
		return false
	}
	return net.ParseIP(v.Str) != nil
}

func isURI(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	u, err := parseURLWithIPv6Check(v.Str)
	return err == nil && u.IsAbs()
}

func parseURLWithIPv6Check(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	hostname := u.Hostname()
	if strings.IndexByte(hostname, ':') != -1 {
		if strings.IndexByte(u.Host, '[') == -1 || strings.IndexByte(u.Host, ']') == -1 {
			return nil, errIPv6NotEnclosed
		}
		if !isIPV6(Str(hostname)) {
			return nil, errInvalidIPv6
		}
	}
	return u, nil
}

func isURIReference(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	_, err := parseURLWithIPv6Check(v.Str)
	return err == nil && !strings.Contains(v.Str, `\`)
}

func isURITemplate(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	u, err := parseURLWithIPv6Check(v.Str)
	if err != nil {
		return false
	}
	for _, item := range strings.Split(u.RawPath, "/") {
		depth := 0
		for _, ch := range item {
			switch ch {
			case '{':
				depth++
				if depth != 1 {
					return false
				}
			case '}':
				depth--
				if depth != 0 {
					return false
				}
			}
		}
		if depth != 0 {
			return false
		}
	}
	return true
}

func isJSONPointer(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	if s != "" && !strings.HasPrefix(s, "/") {
		return false
	}
	for _, item := range strings.Split(s, "/") {
		for i := 0; i < len(item); i++ {
			if item[i] == '~' {
				if i == len(item)-1 {
					return false
				}
				if item[i+1] != '0' && item[i+1] != '1' {
					return false
				}
			}
		}
	}
	return true
}

func isRelativeJSONPointer(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	if s == "" {
		return false
	}
	switch {
	case s[0] == '0':
		s = s[1:]
	case s[0] >= '0' && s[0] <= '9':
		for s != "" && s[0] >= '0' && s[0] <= '9' {
			s = s[1:]
		}
	default:
		return false
	}
	return s == "#" || isJSONPointer(Str(s))
}

func isUUID(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	s := v.Str
	parseHex := func(n int) bool {
		for n > 0 {
			if len(s) == 0 {
				return false
			}
			hex := (s[0] >= '0' && s[0] <= '9') || (s[0] >= 'a' && s[0] <= 'f') || (s[0] >= 'A' && s[0] <= 'F')
			if !hex {
				return false
			}
			s = s[1:]
			n--
		}
		return true
	}
	groups := []int{8, 4, 4, 4, 12}
	for i, numDigits := range groups {
		if !parseHex(numDigits) {
			return false
		}
		if i == len(groups)-1 {
			break
		}
		if len(s) == 0 || s[0] != '-' {
			return false
		}
		s = s[1:]
	}
	return len(s) == 0
}

func isRegex(v *Value) bool {
	if v.Kind != StringValue {
		return true
	}
	_, err := regexp.Compile(v.Str)
	return err == nil
}

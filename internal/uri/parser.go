package uri

import (
	"regexp"
	"strconv"
	"strings"
)

type segment struct {
	isFocus   bool
	focusKind string
	offset    int

	name    string
	filters map[string]string
	index   *int
	key     string
}

var (
	focusPattern = regexp.MustCompile(`^@([A-Za-z]+)([+-]\d+)?$`)
	namePattern  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\(([^)]*)\))?(\[(-?\d+)\])?(:(.+))?$`)
)

// parse splits a URI path into segments. A malformed path reports ok=false
// so the caller resolves to nil rather than raising (section 4.C.4).
func parse(path string) ([]segment, bool) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return nil, true
	}

	parts := strings.Split(path, "/")
	segs := make([]segment, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, false
		}
		if i == 0 {
			if m := focusPattern.FindStringSubmatch(part); m != nil {
				offset := 0
				if m[2] != "" {
					n, err := strconv.Atoi(m[2])
					if err != nil {
						return nil, false
					}
					offset = n
				}
				segs = append(segs, segment{isFocus: true, focusKind: m[1], offset: offset})
				continue
			}
		}

		m := namePattern.FindStringSubmatch(part)
		if m == nil {
			return nil, false
		}
		seg := segment{name: m[1]}
		if m[3] != "" {
			filters, ok := parseFilters(m[3])
			if !ok {
				return nil, false
			}
			seg.filters = filters
		}
		if m[5] != "" {
			n, err := strconv.Atoi(m[5])
			if err != nil {
				return nil, false
			}
			seg.index = &n
		}
		if m[7] != "" {
			seg.key = m[7]
		}
		segs = append(segs, seg)
	}
	return segs, true
}

func parseFilters(raw string) (map[string]string, bool) {
	filters := make(map[string]string)
	for _, clause := range strings.Split(raw, ",") {
		kv := strings.SplitN(clause, "=", 2)
		if len(kv) != 2 {
			return nil, false
		}
		filters[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
	}
	return filters, true
}

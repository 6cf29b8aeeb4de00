package meta

import "strings"

const (
	tagName = "save"

	modPersist = "persist"
	modSkip    = "-"
)

// TagInfo holds a parsed save struct tag.
type TagInfo struct {
	Persist bool
	Skip    bool
}

func parseTag(tag string) TagInfo {
	info := TagInfo{}
	if tag == "" {
		return info
	}
	for part := range strings.SplitSeq(tag, ",") {
		switch strings.TrimSpace(part) {
		case modPersist:
			info.Persist = true
		case modSkip:
			info.Skip = true
		}
	}
	if info.Skip {
		info.Persist = false
	}
	return info
}

// Denylist names fields that are never persisted or offered for selection,
// whatever their tag says.
type Denylist map[string]struct{}

func NewDenylist(names ...string) Denylist {
	d := make(Denylist, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name != "" {
			d[name] = struct{}{}
		}
	}
	return d
}

func (d Denylist) Contains(name string) bool {
	_, ok := d[name]
	return ok
}

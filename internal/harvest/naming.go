package harvest

import (
	"regexp"
	"strconv"
	"strings"
)

const maxNameLength = 200

var (
	unsafeNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	nameSeparators  = regexp.MustCompile(`[\s_]+`)
)

// Sanitize makes name safe as a single path element: reserved characters
// become underscores, runs of whitespace and underscores fold to one space,
// and the result is capped at 200 bytes.
func Sanitize(name string) string {
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.TrimSpace(nameSeparators.ReplaceAllString(name, " "))
	if len(name) > maxNameLength {
		name = strings.TrimSpace(name[:maxNameLength])
	}
	return name
}

// Namer assigns download file names within one case. Names repeat when
// documents share a label and filing date; the second and later get a
// numeric suffix in the order they are requested.
type Namer struct {
	seen map[string]int
}

// NewNamer returns a namer with no names assigned.
func NewNamer() *Namer {
	return &Namer{seen: make(map[string]int)}
}

// Name returns the file name for a document.
func (n *Namer) Name(label, filedDate string) string {
	base := Sanitize(label)
	if base == "" {
		base = "document"
	}
	if filedDate != "" {
		base += "_" + strings.ReplaceAll(filedDate, "/", "-")
	}

	count, dup := n.seen[base]
	if !dup {
		n.seen[base] = 0
		return base + ".pdf"
	}
	count++
	n.seen[base] = count
	return base + "_" + strconv.Itoa(count) + ".pdf"
}

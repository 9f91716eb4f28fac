package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/roach88/loadout/internal/domain"
)

// RenderFile returns the bytes written to each output path.
//
// Without a header the file is the composed text followed by one trailing
// newline; an empty composition renders to an empty file. With a header the
// file starts with a single HTML comment naming the loadout, generation time,
// and fingerprint, then a blank line, then the text.
func RenderFile(c domain.Composition, withHeader bool) []byte {
	var b strings.Builder
	if withHeader {
		b.WriteString(Header(c))
		b.WriteString("\n")
		if c.Content != "" {
			b.WriteString("\n")
		}
	}
	if c.Content != "" {
		b.WriteString(c.Content)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// Header formats the generated-by comment for c.
func Header(c domain.Composition) string {
	return fmt.Sprintf("<!-- loadout: %s | generated: %s | fingerprint: %s -->",
		c.LoadoutName,
		c.Metadata.GeneratedAt.UTC().Format(time.RFC3339),
		c.Fingerprint(),
	)
}

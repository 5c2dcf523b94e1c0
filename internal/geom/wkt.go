package geom

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
)

// DecodeWKT reads one WKT geometry per line. POLYGON and MULTIPOLYGON lines
// become features without properties, other geometry types are skipped.
// Blank lines and lines starting with # are ignored.
func DecodeWKT(data []byte) (*Dataset, error) {
	var b builder
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		g, err := wkt.Unmarshal(s)
		if err != nil {
			return nil, fmt.Errorf("geom: wkt line %d: %w", line, err)
		}
		b.add(g, nil, nil)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("geom: read wkt: %w", err)
	}
	return b.finish(nil)
}

package geom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNoFeatures  = errors.New("geom: no polygon features found")
	ErrInvalidBBox = errors.New("geom: dataset bbox has no area")
	ErrFetchStatus = errors.New("geom: unexpected fetch status")
)

// Decode parses a GeoJSON FeatureCollection of Polygon/MultiPolygon features.
// Feature and collection bboxes are taken from the document when present and
// computed from the geometry otherwise.
func Decode(data []byte) (*Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("geom: parse geojson: %w", err)
	}
	var b builder
	for _, f := range fc.Features {
		if f == nil {
			b.d.Skipped++
			continue
		}
		var bb *BBox
		if f.BBox.Valid() {
			v := BBoxFromBound(f.BBox.Bound())
			bb = &v
		}
		b.add(f.Geometry, bb, f.Properties)
	}
	var bb *BBox
	if fc.BBox.Valid() {
		v := BBoxFromBound(fc.BBox.Bound())
		bb = &v
	}
	return b.finish(bb)
}

// builder accumulates polygon features and their bbox union.
type builder struct {
	d     Dataset
	union BBox
}

// add flattens a Polygon or MultiPolygon into rings. Anything else is
// counted as skipped. bb overrides the geometry bound when set.
func (b *builder) add(g orb.Geometry, bb *BBox, props geojson.Properties) {
	var rings []orb.Ring
	switch g := g.(type) {
	case orb.Polygon:
		rings = append(rings, g...)
	case orb.MultiPolygon:
		for _, poly := range g {
			rings = append(rings, poly...)
		}
	default:
		b.d.Skipped++
		return
	}
	box := BBoxFromBound(g.Bound())
	if bb != nil {
		box = *bb
	}
	if len(b.d.Features) == 0 {
		b.union = box
	} else {
		b.union = b.union.Union(box)
	}
	b.d.Features = append(b.d.Features, Feature{BBox: box, Rings: rings, Properties: props})
}

func (b *builder) finish(bb *BBox) (*Dataset, error) {
	if len(b.d.Features) == 0 {
		return nil, ErrNoFeatures
	}
	d := b.d
	d.BBox = b.union
	if bb != nil {
		d.BBox = *bb
	}
	if !d.BBox.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBBox, d.BBox.Array())
	}
	return &d, nil
}

// LoadFile reads and decodes a GeoJSON file, or a WKT file when the
// extension is .wkt.
func LoadFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("geom: read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".wkt") {
		return DecodeWKT(data)
	}
	return Decode(data)
}

// Fetch downloads and decodes a GeoJSON document over HTTP.
func Fetch(ctx context.Context, client *http.Client, url string) (*Dataset, error) {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("geom: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geom: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetchStatus, url, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("geom: read %s: %w", url, err)
	}
	return Decode(data)
}

// IsURL reports whether src names an http(s) resource rather than a file.
func IsURL(src string) bool {
	s := strings.ToLower(src)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Load reads src from the network when it is a URL and from disk otherwise.
func Load(ctx context.Context, src string) (*Dataset, error) {
	if IsURL(src) {
		return Fetch(ctx, nil, src)
	}
	return LoadFile(src)
}

package phi

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrSnapshot marks a snapshot whose contents cannot be paired with the
// lattice its metadata describes.
var ErrSnapshot = errors.New("phi: invalid snapshot")

// snapshot column width for the base64 payload.
const wrapColumns = 80

// snapshotFile is the on-disk TOML layout: the reference ratio, the lattice
// triple the abscissas regenerate from, and the packed ordinate values.
type snapshotFile struct {
	Z0      float64 `toml:"z0"`
	Bound   float64 `toml:"bound"`
	Spacing float64 `toml:"spacing"`
	Shape   float64 `toml:"shape"`
	Values  string  `toml:"values"`
}

// WriteSnapshot serializes the table: ordinates packed as little-endian
// float64, zlib-compressed, base64-encoded and wrapped at 80 columns,
// alongside the metadata needed to regenerate the abscissas.
func (c *Cache) WriteSnapshot(w io.Writer) error {
	var packed bytes.Buffer
	zw, err := zlib.NewWriterLevel(&packed, zlib.BestCompression)
	if err != nil {
		return fmt.Errorf("phi: snapshot compressor: %w", err)
	}
	if err := binary.Write(zw, binary.LittleEndian, c.ys); err != nil {
		return fmt.Errorf("phi: packing snapshot values: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("phi: closing snapshot compressor: %w", err)
	}

	var body strings.Builder
	enc := base64.StdEncoding.EncodeToString(packed.Bytes())
	for len(enc) > wrapColumns {
		body.WriteString(enc[:wrapColumns])
		body.WriteByte('\n')
		enc = enc[wrapColumns:]
	}
	body.WriteString(enc)
	body.WriteByte('\n')

	_, err = fmt.Fprintf(w, "z0 = %s\nbound = %s\nspacing = %s\nshape = %s\nvalues = \"\"\"\n%s\"\"\"\n",
		tomlFloat(c.z0), tomlFloat(c.bound), tomlFloat(c.spacing), tomlFloat(c.shape), body.String())
	if err != nil {
		return fmt.Errorf("phi: writing snapshot: %w", err)
	}
	return nil
}

// tomlFloat formats v so that it always parses back as a TOML float.
func tomlFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// ReadSnapshot deserializes a snapshot written by [Cache.WriteSnapshot]. The
// abscissas are regenerated from the stored lattice triple and paired with
// the decoded ordinates.
func ReadSnapshot(r io.Reader) (*Cache, error) {
	var s snapshotFile
	if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("phi: decoding snapshot: %w", err)
	}
	p := BuildParams{Z0: s.Z0, Bound: s.Bound, Spacing: s.Spacing, Shape: s.Shape}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSnapshot, err)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s.Values), ""))
	if err != nil {
		return nil, fmt.Errorf("phi: snapshot base64: %w", err)
	}
	zr, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("phi: snapshot decompressor: %w", err)
	}
	defer zr.Close()
	packed, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("phi: decompressing snapshot: %w", err)
	}
	if len(packed)%8 != 0 {
		return nil, fmt.Errorf("phi: %d payload bytes is not a float64 sequence: %w", len(packed), ErrSnapshot)
	}

	ys := make([]float64, len(packed)/8)
	if err := binary.Read(bytes.NewReader(packed), binary.LittleEndian, ys); err != nil {
		return nil, fmt.Errorf("phi: unpacking snapshot values: %w", err)
	}
	return newCache(p, ys)
}

// SaveSnapshot writes the table to path.
func (c *Cache) SaveSnapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("phi: creating snapshot file: %w", err)
	}
	if err := c.WriteSnapshot(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadSnapshot reads a table from path.
func LoadSnapshot(path string) (*Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("phi: opening snapshot file: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// LoadOrBuild loads the snapshot at path, or rebuilds the table from p when
// the snapshot is missing or unreadable. The returned flag reports whether
// the slow rebuild path was taken, so callers can surface a warning.
//
// This is the intended one-time initialization entry point; the returned
// Cache is immutable and safe to share between goroutines.
func LoadOrBuild(path string, p BuildParams) (c *Cache, rebuilt bool, err error) {
	if path != "" {
		if c, err := LoadSnapshot(path); err == nil {
			if c.Params() == p {
				return c, false, nil
			}
			// Parameter drift invalidates the table; fall through to rebuild.
		}
	}
	c, err = Build(p)
	if err != nil {
		return nil, true, err
	}
	return c, true, nil
}

package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"resumatch/internal/domain"
)

// On-disk layout: a binary vector file next to a human-inspectable JSON
// metadata array. Both are row-aligned with the index; both must be present
// for a load to succeed.
const (
	vectorsFile  = "vectors.bin"
	metadataFile = "metadata.json"
)

var fileMagic = [4]byte{'R', 'M', 'I', 'X'}

// Save writes the index and its metadata into dir, creating it if needed.
// The metadata length must equal the index size.
func Save(dir string, f *Flat, metas []domain.ChunkMeta) error {
	if len(metas) != f.Size() {
		return fmt.Errorf("%w: %d metadata records for %d vectors", domain.ErrConfiguration, len(metas), f.Size())
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	vf, err := os.Create(filepath.Join(dir, vectorsFile))
	if err != nil {
		return err
	}
	defer vf.Close()

	w := bufio.NewWriter(vf)
	if _, err := w.Write(fileMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(f.dim)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(f.vectors))); err != nil {
		return err
	}
	for _, row := range f.vectors {
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, metadataFile), data, 0o644)
}

// Load reads an index and its metadata back from dir. A missing vector or
// metadata file yields ErrNotFound; both files are required.
func Load(dir string) (*Flat, []domain.ChunkMeta, error) {
	vPath := filepath.Join(dir, vectorsFile)
	mPath := filepath.Join(dir, metadataFile)
	for _, p := range []string{vPath, mPath} {
		if _, err := os.Stat(p); err != nil {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotFound, p)
		}
	}

	vf, err := os.Open(vPath)
	if err != nil {
		return nil, nil, err
	}
	defer vf.Close()

	r := bufio.NewReader(vf)
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, fmt.Errorf("reading index header: %w", err)
	}
	if magic != fileMagic {
		return nil, nil, fmt.Errorf("%s is not a vector index file", vPath)
	}
	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, nil, err
	}
	vectors := make([][]float32, count)
	for i := range vectors {
		row := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, nil, fmt.Errorf("reading vector row %d: %w", i, err)
		}
		vectors[i] = row
	}

	data, err := os.ReadFile(mPath)
	if err != nil {
		return nil, nil, err
	}
	var metas []domain.ChunkMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", mPath, err)
	}
	if len(metas) != int(count) {
		return nil, nil, fmt.Errorf("metadata has %d records, vector file has %d rows", len(metas), count)
	}

	f, err := Build(vectors)
	if err != nil {
		return nil, nil, err
	}
	return f, metas, nil
}

package casid

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	// sampleSize is the number of bytes read per sample on large files.
	sampleSize = 64 * 1024
	// sampleCount is how many evenly spaced samples are taken, the head and
	// tail included.
	sampleCount = 4
	// fullReadThreshold is the size at or below which files are hashed whole.
	fullReadThreshold = sampleSize * sampleCount
)

// Metadata is the lightweight information extracted alongside the cas id.
type Metadata struct {
	SizeBytes int64
	ModTime   time.Time
	Kind      string
}

// Generator computes a content identifier plus metadata for the file at
// path. Implementations must be deterministic over the file's bytes alone.
type Generator func(ctx context.Context, path string) (string, Metadata, error)

// Compute is the default Generator.
func Compute(ctx context.Context, path string) (string, Metadata, error) {
	select {
	case <-ctx.Done():
		return "", Metadata{}, ctx.Err()
	default:
	}

	file, err := os.Open(path)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", Metadata{}, fmt.Errorf("stat %q: %w", path, err)
	}
	if info.IsDir() {
		return "", Metadata{}, fmt.Errorf("%q is a directory", path)
	}

	meta := Metadata{
		SizeBytes: info.Size(),
		ModTime:   info.ModTime().UTC(),
		Kind:      KindForPath(path),
	}

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", Metadata{}, fmt.Errorf("init digest: %w", err)
	}

	if meta.SizeBytes <= fullReadThreshold {
		if _, err := io.Copy(hasher, file); err != nil {
			return "", Metadata{}, fmt.Errorf("read %q: %w", path, err)
		}
	} else if err := hashSampled(hasher, file, meta.SizeBytes); err != nil {
		return "", Metadata{}, fmt.Errorf("sample %q: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), meta, nil
}

// hashSampled feeds the exact file size plus sampleCount evenly spaced
// segments and the file tail into the digest. Including the size up front
// separates files that happen to share their sampled regions.
func hashSampled(hasher io.Writer, file *os.File, size int64) error {
	var header [8]byte
	binary.LittleEndian.PutUint64(header[:], uint64(size))
	if _, err := hasher.Write(header[:]); err != nil {
		return err
	}

	buf := make([]byte, sampleSize)
	step := (size - sampleSize) / (sampleCount - 1)
	for i := 0; i < sampleCount-1; i++ {
		if err := hashSegment(hasher, file, int64(i)*step, buf); err != nil {
			return err
		}
	}
	return hashSegment(hasher, file, size-sampleSize, buf)
}

func hashSegment(hasher io.Writer, file *os.File, offset int64, buf []byte) error {
	n, err := file.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return err
	}
	_, err = hasher.Write(buf[:n])
	return err
}

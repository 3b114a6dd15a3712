// Package parser implements the MFT parser façade: opening a volume image or
// arbitrary ReadSeeker, framing it into fixed-size records, decoding them
// lazily via the mft package, and resolving full paths through a bounded LRU
// cache. This is the layer cmd/mftdump drives; mft itself knows nothing about
// streams, seeking, or path resolution.
package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/omerbenamram/mft/mft"
)

// DefaultRecordSize is used when auto-detection (see Open) fails to find a
// valid first entry to read entry_size_allocated from.
const DefaultRecordSize = 1024

// DefaultPathCacheCapacity is the default capacity of the path resolver's LRU
// cache, per spec.md §6.
const DefaultPathCacheCapacity = 1000

// RootRecordNumber is the MFT record number of the volume root directory.
const RootRecordNumber = 5

// ErrNotSeekable is returned by Open and NewFromReadSeeker when the input
// stream cannot be seeked back to its start, which framing records by
// absolute offset depends on.
var ErrNotSeekable = errors.New("parser: input stream is not seekable")

// Option configures a Parser. See WithPathCacheCapacity and WithRecordSize.
type Option func(*config)

type config struct {
	pathCacheCapacity int
	recordSize        int
}

// WithPathCacheCapacity overrides the path resolver's LRU cache capacity
// (spec.md §6 path_cache_capacity). The default is DefaultPathCacheCapacity.
func WithPathCacheCapacity(capacity int) Option {
	return func(c *config) { c.pathCacheCapacity = capacity }
}

// WithRecordSize overrides auto-detection of the MFT record size (spec.md §6
// record_size). The default is to auto-detect from the first valid entry,
// falling back to DefaultRecordSize.
func WithRecordSize(size int) Option {
	return func(c *config) { c.recordSize = size }
}

// Parser is a single-owner, single-threaded façade over one MFT image: it
// owns the input stream and the path resolution cache for its lifetime. It
// is not safe for concurrent use from multiple goroutines; callers that want
// parallelism should open one Parser per worker over independent handles
// (mft.Entry values themselves are immutable and safely shareable).
type Parser struct {
	in         io.ReadSeeker
	recordSize int64
	count      uint64
	knownCount bool
	pathCache  *lru.Cache[uint64, cachedPath]
}

type cachedPath struct {
	path     string
	sequence uint16
}

// Open opens the file at path as an MFT image.
func Open(path string, opts ...Option) (*Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parser: unable to open %s: %w", path, err)
	}
	size, err := fileSize(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := newParser(f, size, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return p, nil
}

// NewFromReadSeeker wraps an already-open stream as an MFT image. sizeHint is
// the stream's total length if known, or a negative value if not (in which
// case EntryCount is unknown and IterEntries runs until the first read
// failure).
func NewFromReadSeeker(in io.ReadSeeker, sizeHint int64, opts ...Option) (*Parser, error) {
	return newParser(in, sizeHint, opts...)
}

func newParser(in io.ReadSeeker, sizeHint int64, opts ...Option) (*Parser, error) {
	cfg := config{pathCacheCapacity: DefaultPathCacheCapacity, recordSize: 0}
	for _, opt := range opts {
		opt(&cfg)
	}

	if _, err := in.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotSeekable, err)
	}

	recordSize := cfg.recordSize
	if recordSize == 0 {
		recordSize = detectRecordSize(in)
	}

	cache, err := lru.New[uint64, cachedPath](cfg.pathCacheCapacity)
	if err != nil {
		return nil, fmt.Errorf("parser: unable to create path cache: %w", err)
	}

	p := &Parser{in: in, recordSize: int64(recordSize), pathCache: cache}
	if sizeHint >= 0 {
		p.count = uint64(sizeHint) / uint64(recordSize)
		p.knownCount = true
	}
	return p, nil
}

// detectRecordSize reads the first record and, if it decodes as a valid
// entry, trusts its AllocatedSize; otherwise (or on any read error) falls
// back to DefaultRecordSize. The stream position is restored either way.
func detectRecordSize(in io.ReadSeeker) int {
	buf := make([]byte, DefaultRecordSize)
	n, err := io.ReadFull(in, buf)
	defer in.Seek(0, io.SeekStart)
	if err != nil || n != len(buf) {
		return DefaultRecordSize
	}
	entry, err := mft.ParseEntry(buf, 0)
	if err != nil || entry.AllocatedSize == 0 {
		return DefaultRecordSize
	}
	return int(entry.AllocatedSize)
}

// EntryCount returns the total number of record slots in the image and true,
// or (0, false) when the input's length was not known at open time.
func (p *Parser) EntryCount() (uint64, bool) {
	return p.count, p.knownCount
}

// Close releases the resources a Parser holds for its lifetime (spec.md §5):
// the underlying input stream, if it supports closing, and the path cache.
// Close is a no-op on an input that isn't an io.Closer (e.g. one passed
// directly to NewFromReadSeeker that the caller still owns). Callers should
// defer Close immediately after a successful Open.
func (p *Parser) Close() error {
	p.pathCache.Purge()
	if closer, ok := p.in.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// errIO wraps a failure to seek or read the underlying stream itself, as
// opposed to a decode-time outcome from mft.ParseEntry (ErrZeroedEntry,
// ErrNotAnMftEntry, or a structural error). errors.Is(err, errIO) is how
// IterEntries tells the two apart.
type errIO struct{ err error }

func (e errIO) Error() string { return e.err.Error() }
func (e errIO) Unwrap() error { return e.err }
func (e errIO) Is(target error) bool {
	_, ok := target.(errIO)
	return ok
}

// ReadEntry seeks to the record at index and decodes it. The returned error
// wraps mft.ErrZeroedEntry or mft.ErrNotAnMftEntry (check with errors.Is) for
// the two non-fatal outcomes spec.md §4.2 describes; any other error is a
// hard I/O or structural failure.
func (p *Parser) ReadEntry(index uint64) (mft.Entry, error) {
	offset := int64(index) * p.recordSize
	if _, err := p.in.Seek(offset, io.SeekStart); err != nil {
		return mft.Entry{}, errIO{fmt.Errorf("parser: unable to seek to entry %d: %w", index, err)}
	}

	buf := make([]byte, p.recordSize)
	if _, err := io.ReadFull(p.in, buf); err != nil {
		return mft.Entry{}, errIO{fmt.Errorf("parser: unable to read entry %d: %w", index, err)}
	}

	return mft.ParseEntry(buf, index)
}

// IndexedEntry pairs an entry's index with its decode outcome, as yielded by
// IterEntries.
type IndexedEntry struct {
	Index uint64
	Entry mft.Entry
	Err   error
}

// IterEntries returns a channel yielding every record in increasing index
// order. The channel is finite and closed after the last record when
// EntryCount is known; otherwise it runs until ReadEntry returns an I/O
// error (typically io.EOF-derived), which is yielded as the final
// IndexedEntry before the channel closes. Per-entry decode errors
// (ErrZeroedEntry, ErrNotAnMftEntry, or a structural error) do not stop
// iteration; only a hard I/O failure does.
//
// The supplied ctx bounds the lifetime of the background goroutine that
// drives the channel: if the caller stops ranging over the channel before
// it is closed (an early break, e.g. to honor a range filter), it must
// cancel ctx so that goroutine's pending send is released instead of
// blocking forever (spec.md §5, "dropping the iterator ... releases the
// input stream on all exit paths").
func (p *Parser) IterEntries(ctx context.Context) <-chan IndexedEntry {
	out := make(chan IndexedEntry)
	go func() {
		defer close(out)
		for index := uint64(0); ; index++ {
			if p.knownCount && index >= p.count {
				return
			}
			entry, err := p.ReadEntry(index)
			select {
			case out <- IndexedEntry{Index: index, Entry: entry, Err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !p.knownCount && errors.Is(err, errIO{}) {
				return
			}
		}
	}()
	return out
}

// Package extract turns a decoded $DATA attribute into a readable byte stream: the resident case is already a plain
// byte slice, and the non-resident case is translated from its data-run cluster map into fragments that read through
// the fragment package, with sparse runs zero-filled. This is driver-level plumbing (spec.md §1 calls it "thin and
// uninteresting"), kept separate from mft so that the core decoder stays free of io.ReadSeeker concerns.
package extract

import (
	"bytes"
	"io"

	"github.com/omerbenamram/mft/fragment"
	"github.com/omerbenamram/mft/mft"
)

// DataRunsToFragments converts a decoded non-resident run list into fragment.Fragments, translating cluster counts
// and numbers to byte offsets and lengths using bytesPerCluster. Sparse runs are dropped: a sparse run contributes
// no bytes to the underlying volume and is handled separately by NewReader's zero-fill.
func DataRunsToFragments(runs []mft.DataRun, bytesPerCluster int) []fragment.Fragment {
	fragments := make([]fragment.Fragment, 0, len(runs))
	for _, run := range runs {
		if run.IsSparse() {
			continue
		}
		fragments = append(fragments, fragment.Fragment{
			Offset: *run.LCN * int64(bytesPerCluster),
			Length: int64(run.Length) * int64(bytesPerCluster),
		})
	}
	return fragments
}

// NewReader returns a reader over data's logical byte stream. For a resident attribute, that is simply its bytes.
// For a non-resident attribute, runs are read from src in order, each run as one fragment, with sparse runs
// substituted by zero bytes so offsets within the returned stream line up with the file's logical layout.
func NewReader(src io.ReadSeeker, data mft.Data, bytesPerCluster int) (io.Reader, int64, error) {
	if data.Resident {
		return bytes.NewReader(data.ResidentData), int64(len(data.ResidentData)), nil
	}

	readers := make([]io.Reader, 0, len(data.Runs))
	var total int64
	for _, run := range data.Runs {
		length := int64(run.Length) * int64(bytesPerCluster)
		if run.IsSparse() {
			readers = append(readers, io.LimitReader(zeroReader{}, length))
		} else {
			offset := *run.LCN * int64(bytesPerCluster)
			frag := []fragment.Fragment{{Offset: offset, Length: length}}
			readers = append(readers, fragment.NewReader(src, frag))
		}
		total += length
	}
	return io.MultiReader(readers...), total, nil
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

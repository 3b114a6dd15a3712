package parser

import (
	"errors"
	"fmt"

	"github.com/omerbenamram/mft/fileref"
	"github.com/omerbenamram/mft/mft"
)

// ErrNoFileName is returned by GetFullPath when an entry carries no
// $FILE_NAME attribute at all.
var ErrNoFileName = errors.New("parser: entry has no $FILE_NAME attribute")

// namespacePreference lists FileNameNamespace values in the order the path
// resolver prefers them when an entry carries more than one $FILE_NAME
// attribute (spec.md §4.7 step 2): WIN32_AND_DOS, WIN32, POSIX, DOS.
var namespacePreference = []mft.FileNameNamespace{
	mft.FileNameNamespaceWin32AndDos,
	mft.FileNameNamespaceWin32,
	mft.FileNameNamespacePosix,
	mft.FileNameNamespaceDos,
}

// GetFullPath resolves entry's full POSIX-style path by walking parent file
// references through other entries, per spec.md §4.7. The root entry
// (record number 5) resolves to "". When the walk reaches an entry it has
// already visited, it stops there and appends "[cycle]" to that entry's
// name, which becomes the first component of the returned path (A -> B -> A
// yields "a[cycle]/b/a"); the marker is not moved to the end of the path.
// When a parent's sequence number no longer matches the reference,
// "[orphan]" is appended to the name of the entry holding that reference,
// with the parent slot's current path still used as its prefix. Both are
// non-fatal and returned without an error.
func (p *Parser) GetFullPath(entry mft.Entry) (string, error) {
	return p.resolvePath(entry, make(map[uint64]bool))
}

func (p *Parser) resolvePath(entry mft.Entry, visiting map[uint64]bool) (string, error) {
	if entry.RecordNumber == RootRecordNumber {
		return "", nil
	}

	name, parentRef, err := bestFileName(entry)
	if err != nil {
		return "", err
	}

	if parentRef.RecordNumber == entry.RecordNumber {
		return name, nil
	}

	if cached, ok := p.pathCache.Get(parentRef.RecordNumber); ok {
		if cached.sequence == parentRef.SequenceNumber {
			return joinPath(cached.path, name), nil
		}
	}

	if visiting[parentRef.RecordNumber] {
		return name + "[cycle]", nil
	}
	visiting[parentRef.RecordNumber] = true

	parent, err := p.ReadEntry(parentRef.RecordNumber)
	if err != nil {
		return "", fmt.Errorf("parser: unable to read parent entry %d while resolving path: %w", parentRef.RecordNumber, err)
	}

	if parent.FileReference.SequenceNumber != parentRef.SequenceNumber {
		parentPath, err := p.resolvePath(parent, visiting)
		if err != nil {
			return "", err
		}
		return joinPath(parentPath, name) + "[orphan]", nil
	}

	parentPath, err := p.resolvePath(parent, visiting)
	if err != nil {
		return "", err
	}

	p.pathCache.Add(parentRef.RecordNumber, cachedPath{path: parentPath, sequence: parent.FileReference.SequenceNumber})
	return joinPath(parentPath, name), nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// bestFileName picks the $FILE_NAME attribute to use for path resolution,
// preferring namespacePreference order, and returns its decoded name and
// parent reference.
func bestFileName(entry mft.Entry) (string, fileref.Reference, error) {
	attrs, err := entry.FindAttributes(mft.AttributeTypeFileName)
	if err != nil && len(attrs) == 0 {
		return "", fileref.Reference{}, fmt.Errorf("parser: unable to decode $FILE_NAME attributes: %w", err)
	}
	if len(attrs) == 0 {
		return "", fileref.Reference{}, ErrNoFileName
	}

	byNamespace := make(map[mft.FileNameNamespace]mft.FileName, len(attrs))
	for _, attr := range attrs {
		fn, ok := attr.Content.(mft.FileName)
		if !ok {
			continue
		}
		byNamespace[fn.Namespace] = fn
	}

	for _, ns := range namespacePreference {
		if fn, ok := byNamespace[ns]; ok {
			return fn.Name, fn.ParentFileReference, nil
		}
	}

	return "", fileref.Reference{}, ErrNoFileName
}

package main

import (
	"fmt"

	"github.com/omerbenamram/mft/mft"
	"github.com/omerbenamram/mft/parser"
)

// mergedAttributes returns every attribute logically belonging to entry, following $ATTRIBUTE_LIST segment
// references into extension records when present (spec.md §8 scenario 2: "the driver is responsible for logical
// merge via AttributeList"). Attributes already present on entry itself are included as-is; attributes living in
// extension records are appended in the order their AttributeList entries name them. A failure to read one
// extension record does not drop the rest: it is logged by the caller via the returned error and the remaining
// attributes are still merged.
func mergedAttributes(p *parser.Parser, entry mft.Entry) ([]mft.Attribute, error) {
	attrs, err := entry.Attributes()
	if err != nil && len(attrs) == 0 {
		return nil, fmt.Errorf("unable to decode attributes: %w", err)
	}

	lists, err := entry.FindAttributes(mft.AttributeTypeAttributeList)
	if err != nil || len(lists) == 0 {
		return attrs, nil
	}

	var firstErr error
	seen := map[uint64]bool{entry.RecordNumber: true}
	for _, listAttr := range lists {
		list, ok := listAttr.Content.(mft.AttributeList)
		if !ok {
			continue
		}
		for _, item := range list {
			recordNumber := item.SegmentReference.RecordNumber
			if seen[recordNumber] {
				continue
			}
			seen[recordNumber] = true

			extension, err := p.ReadEntry(recordNumber)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("unable to read extension record %d: %w", recordNumber, err)
				}
				continue
			}
			extAttrs, err := extension.Attributes()
			if err != nil && len(extAttrs) == 0 {
				if firstErr == nil {
					firstErr = fmt.Errorf("unable to decode attributes of extension record %d: %w", recordNumber, err)
				}
				continue
			}
			attrs = append(attrs, extAttrs...)
		}
	}

	return attrs, firstErr
}

package parser

import (
	"fmt"
	"os"
)

func fileSize(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("parser: unable to stat %s: %w", f.Name(), err)
	}
	return info.Size(), nil
}

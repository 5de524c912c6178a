package driver

import (
	"errors"
	"fmt"

	"daymacro/internal/diag"
	"daymacro/internal/source"
)

// Write stores every changed file back in place and returns the paths
// written. Files with errors and virtual files are left alone. A failed
// write adds an IO4002 diagnostic to the file and does not stop the others.
func Write(res *Result) ([]string, error) {
	if res == nil {
		return nil, nil
	}
	written := make([]string, 0, len(res.Files))
	var errs []error
	for i := range res.Files {
		fr := &res.Files[i]
		if !fr.Changed() {
			continue
		}
		file := res.FileSet.Get(fr.FileID)
		if file == nil || file.Flags&source.FileVirtual != 0 {
			continue
		}
		if err := file.WriteBack(fr.Output); err != nil {
			fr.Bag.Add(diag.NewError(diag.IOWriteFileError, source.Span{File: fr.FileID}, "failed to write file: "+err.Error()))
			errs = append(errs, fmt.Errorf("write %s: %w", file.Path, err))
			continue
		}
		written = append(written, file.Path)
	}
	return written, errors.Join(errs...)
}

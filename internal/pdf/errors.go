package pdf

import "fmt"

// DocumentReadError indicates the source document is missing or corrupt.
// It is fatal to the run; there is no partial-document recovery.
type DocumentReadError struct {
	Path string
	Err  error
}

func (e *DocumentReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot read document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot read document %s", e.Path)
}

func (e *DocumentReadError) Unwrap() error { return e.Err }

// FontResourceError indicates the target-script font is missing or not a
// usable font file. It is surfaced before any page is written.
type FontResourceError struct {
	Path string
	Err  error
}

func (e *FontResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("font resource %s unusable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("font resource %s unusable", e.Path)
}

func (e *FontResourceError) Unwrap() error { return e.Err }

// DocumentWriteError indicates the destination document could not be
// persisted. The reconstructor removes any partial output before returning it.
type DocumentWriteError struct {
	Path string
	Err  error
}

func (e *DocumentWriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot write document %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot write document %s", e.Path)
}

func (e *DocumentWriteError) Unwrap() error { return e.Err }

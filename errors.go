package sitemap

import "errors"

var (
	// ErrInvalidArgument is returned when a URL field has a value outside its allowed set.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIO matches every *FileError with errors.Is.
	ErrIO = errors.New("sitemap i/o failure")
)

// FileError records a failed file operation and the file it happened on.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return "can't " + e.Op + " file '" + e.Path + "': " + e.Err.Error()
}

func (e *FileError) Unwrap() error { return e.Err }

func (e *FileError) Is(target error) bool { return target == ErrIO }

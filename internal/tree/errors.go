package tree

import "fmt"

const (
	opOpenDirectory  = "open directory"
	opReadDirectory  = "read directory"
	opCloseDirectory = "close directory"

	errorIOFormat = "%s %s: %v"
)

// IOError reports a file-system failure encountered while listing a directory.
// It is the only error the builder and walker return.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (ioError *IOError) Error() string {
	return fmt.Sprintf(errorIOFormat, ioError.Op, ioError.Path, ioError.Err)
}

func (ioError *IOError) Unwrap() error {
	return ioError.Err
}

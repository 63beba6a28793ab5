package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kstenson/paperboy/model"
)

// WriteFile creates path and fills it with write. Failures are returned as
// system FeedErrors carrying the path.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	fail := func(cause error) error {
		return model.NewFeedErrorWithCause(model.ErrorTypeSystem, fmt.Sprintf("failed to write report: %s", path), cause).
			WithPath(path).
			WithOperation("write_report").
			WithComponent("report_writer")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fail(err)
		}
	}

	f, err := os.Create(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return fail(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fail(cerr)
		}
	}()

	buf := bufio.NewWriter(f)
	if err := write(buf); err != nil {
		return fail(err)
	}
	if err := buf.Flush(); err != nil {
		return fail(err)
	}
	return nil
}

package testdata

import (
	"path/filepath"
	"runtime"
)

// TestdataPath returns the path to the testdata directory, which holds a
// minimal container build context for synthesis tests.
func TestdataPath() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("could not determine testdata path")
	}
	return filepath.Dir(file)
}

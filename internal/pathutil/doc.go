// Package pathutil guards the output paths flowjoin writes joined streams to.
//
// [SanitizeOutputPath] cleans a user-supplied path, makes it absolute and
// rejects symlinks. [CreateOutput] does the same and opens the file:
//
//	f, path, err := pathutil.CreateOutput(userProvidedPath)
//	if err != nil {
//	    return err // symlink or unusable path
//	}
//	defer f.Close()
package pathutil

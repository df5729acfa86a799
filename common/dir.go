package common

import (
	"os"
	"path/filepath"
	"sync"
)

// ConcurrentlyWalkDir recursively traverses a directory and calls `onFile` for each found file inside a goroutine.
// At most `GetConfig().OpenFileLimit` calls run at once. It returns once every call has completed.
func ConcurrentlyWalkDir(dirPath string, onFile func(file string)) error {
	limit := GetConfig().OpenFileLimit
	if limit <= 0 {
		limit = 1
	}
	guard := make(chan bool, limit) // limits number of concurrently open files
	var files []string
	wg := sync.WaitGroup{}

	err := filepath.Walk(dirPath, func(filePath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		files = append(files, filePath)
		return nil
	})
	if err != nil {
		return err
	}

	// now goroutine each file
	for _, filePath := range files {
		wg.Add(1)
		guard <- true // would block if guard channel is already filled
		go func(path string) {
			defer wg.Done()
			onFile(path)
			<-guard
		}(filePath)
	}
	wg.Wait()
	return nil
}

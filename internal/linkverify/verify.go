package linkverify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// BrokenLink is an internal link whose target does not exist on disk.
type BrokenLink struct {
	SourceFile string
	URL        string
}

func (b BrokenLink) String() string {
	return fmt.Sprintf("%s -> %s", b.SourceFile, b.URL)
}

// VerifyDir walks every HTML file under siteDir and checks that internal
// link targets exist on the filesystem. External links are not fetched.
func VerifyDir(siteDir string) ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(siteDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		links, err := ExtractLinks(path)
		if err != nil {
			return err
		}
		for _, link := range links {
			if !link.IsInternal {
				continue
			}
			if !targetExists(siteDir, path, link.URL) {
				rel, relErr := filepath.Rel(siteDir, path)
				if relErr != nil {
					rel = path
				}
				broken = append(broken, BrokenLink{SourceFile: rel, URL: link.URL})
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk site directory: %w", err)
	}
	return broken, nil
}

func targetExists(siteDir, sourceFile, url string) bool {
	// Strip fragment and query before resolving the path.
	if i := strings.IndexAny(url, "#?"); i >= 0 {
		url = url[:i]
	}
	if url == "" {
		return true
	}

	var target string
	if strings.HasPrefix(url, "/") {
		target = filepath.Join(siteDir, filepath.FromSlash(url))
	} else {
		target = filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(url))
	}

	info, err := os.Stat(target)
	if err != nil {
		return false
	}
	if info.IsDir() {
		// Directory links resolve to their index document.
		_, err = os.Stat(filepath.Join(target, "index.html"))
		return err == nil
	}
	return true
}

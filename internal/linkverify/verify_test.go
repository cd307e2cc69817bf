package linkverify

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractLinksFromReader(t *testing.T) {
	doc := `<html><body>
		<a href="other.html">other</a>
		<a href="https://example.com/x">external</a>
		<a href="#section">anchor</a>
		<img src="images/logo.png">
		<link href="style.css">
		<script src="app.js"></script>
	</body></html>`

	links, err := ExtractLinksFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ExtractLinksFromReader() failed: %v", err)
	}
	if len(links) != 6 {
		t.Fatalf("got %d links, want 6", len(links))
	}

	internal := 0
	for _, l := range links {
		if l.IsInternal {
			internal++
		}
	}
	// other.html, logo.png, style.css, app.js; external URL and anchor excluded.
	if internal != 4 {
		t.Errorf("got %d internal links, want 4", internal)
	}
}

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestVerifyDir_AllGood(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":     `<a href="api/index.html">api</a><a href="style.css">css</a>`,
		"style.css":      "body{}",
		"api/index.html": `<a href="../index.html">home</a><a href="/style.css">abs</a>`,
	})

	broken, err := VerifyDir(dir)
	if err != nil {
		t.Fatalf("VerifyDir() failed: %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("unexpected broken links: %v", broken)
	}
}

func TestVerifyDir_ReportsBroken(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="missing.html">gone</a><a href="https://example.com">ok</a>`,
	})

	broken, err := VerifyDir(dir)
	if err != nil {
		t.Fatalf("VerifyDir() failed: %v", err)
	}
	if len(broken) != 1 {
		t.Fatalf("got %d broken links, want 1: %v", len(broken), broken)
	}
	if broken[0].URL != "missing.html" || broken[0].SourceFile != "index.html" {
		t.Errorf("unexpected broken link: %+v", broken[0])
	}
}

func TestVerifyDir_DirectoryLinkResolvesToIndex(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html":     `<a href="api/">api</a><a href="empty/">empty</a>`,
		"api/index.html": "<html></html>",
		"empty/.keep":    "",
	})

	broken, err := VerifyDir(dir)
	if err != nil {
		t.Fatalf("VerifyDir() failed: %v", err)
	}
	if len(broken) != 1 {
		t.Fatalf("got %d broken links, want 1: %v", len(broken), broken)
	}
	if broken[0].URL != "empty/" {
		t.Errorf("unexpected broken link: %+v", broken[0])
	}
}

func TestVerifyDir_FragmentsAndQueriesStripped(t *testing.T) {
	dir := writeSite(t, map[string]string{
		"index.html": `<a href="page.html#sec">frag</a><a href="page.html?v=1">query</a>`,
		"page.html":  "<html></html>",
	})

	broken, err := VerifyDir(dir)
	if err != nil {
		t.Fatalf("VerifyDir() failed: %v", err)
	}
	if len(broken) != 0 {
		t.Errorf("unexpected broken links: %v", broken)
	}
}

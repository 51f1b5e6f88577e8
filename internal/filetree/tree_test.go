package filetree

import (
	"testing"

	"pixelforge/internal/generate"
)

func files(paths ...string) []generate.GeneratedFile {
	out := make([]generate.GeneratedFile, len(paths))
	for i, p := range paths {
		out[i] = generate.GeneratedFile{Path: p, Content: "x"}
	}
	return out
}

func TestBuildNestsAndSorts(t *testing.T) {
	tree := Build(files(
		"vite.config.js",
		"src/components/Header.jsx",
		"index.html",
		"src/App.jsx",
		"src/index.css",
	))

	if len(tree) != 3 {
		t.Fatalf("root entries = %d, want 3", len(tree))
	}
	// Directories first, then files by name.
	if !tree[0].Dir || tree[0].Name != "src" {
		t.Fatalf("tree[0] = %+v, want src/", tree[0])
	}
	if tree[1].Name != "index.html" || tree[2].Name != "vite.config.js" {
		t.Fatalf("root order = %q, %q", tree[1].Name, tree[2].Name)
	}

	src := tree[0]
	if len(src.Children) != 3 {
		t.Fatalf("src entries = %d, want 3", len(src.Children))
	}
	if !src.Children[0].Dir || src.Children[0].Name != "components" {
		t.Fatalf("src[0] = %+v, want components/", src.Children[0])
	}
	if src.Children[1].Name != "App.jsx" || src.Children[2].Name != "index.css" {
		t.Fatalf("src order = %q, %q", src.Children[1].Name, src.Children[2].Name)
	}

	hdr := src.Children[0].Children[0]
	if hdr.Path != "src/components/Header.jsx" || hdr.Dir {
		t.Fatalf("leaf = %+v", hdr)
	}
}

func TestBuildSharedDirectoriesMergeOnce(t *testing.T) {
	tree := Build(files("src/a.js", "src/b.js"))
	if len(tree) != 1 || len(tree[0].Children) != 2 {
		t.Fatalf("tree = %+v, want one src dir with two children", tree)
	}
}

func TestBuildExpandsSrcByDefault(t *testing.T) {
	tree := Build(files("src/App.jsx", "public/favicon.ico", "index.html"))
	for _, n := range tree {
		switch n.Name {
		case "src":
			if !n.Expanded {
				t.Fatal("src directory not expanded")
			}
		default:
			if n.Expanded {
				t.Fatalf("%s expanded, only src should be", n.Name)
			}
		}
	}
}

func TestDefaultEntry(t *testing.T) {
	cases := []struct {
		name  string
		paths []string
		want  string
	}{
		{"react ts", []string{"index.html", "src/main.tsx", "src/App.tsx"}, "src/App.tsx"},
		{"main only", []string{"package.json", "src/main.tsx"}, "src/main.tsx"},
		{"plain site", []string{"style.css", "index.html", "script.js"}, "index.html"},
		{"no entry point", []string{"README.md", "notes.txt"}, "README.md"},
		{"empty", nil, ""},
	}
	for _, tc := range cases {
		if got := DefaultEntry(files(tc.paths...)); got != tc.want {
			t.Errorf("%s: DefaultEntry = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFind(t *testing.T) {
	fs := files("index.html", "style.css")
	if f, ok := Find(fs, "style.css"); !ok || f.Path != "style.css" {
		t.Fatalf("Find = (%+v, %v)", f, ok)
	}
	if _, ok := Find(fs, "missing.js"); ok {
		t.Fatal("found a missing path")
	}
}

// Package filetree arranges a flat generated file list into the nested tree
// shown by project explorers.
package filetree

import (
	"sort"
	"strings"

	"pixelforge/internal/generate"
)

// Node is one entry of the rendered tree. Directories are synthesized from
// file paths and carry no content of their own. Expanded marks directories
// the explorer should open on first render.
type Node struct {
	Name     string  `json:"name"`
	Path     string  `json:"path"`
	Dir      bool    `json:"dir"`
	Expanded bool    `json:"expanded,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// entryPoints is the preferred open-first order when a project loads.
var entryPoints = []string{
	"src/App.tsx",
	"src/main.tsx",
	"src/App.jsx",
	"src/main.js",
	"index.html",
}

// Build folds slash-separated paths into a tree. Within each directory,
// subdirectories sort before files and siblings sort by name. Later files with
// an already-seen path would have been rejected upstream, so paths are
// treated as unique.
func Build(files []generate.GeneratedFile) []*Node {
	root := &Node{Dir: true}
	index := map[string]*Node{"": root}

	for _, f := range files {
		segs := strings.Split(f.Path, "/")
		parentPath := ""
		for i, seg := range segs {
			path := seg
			if parentPath != "" {
				path = parentPath + "/" + seg
			}
			node, ok := index[path]
			if !ok {
				node = &Node{
					Name: seg,
					Path: path,
					Dir:  i < len(segs)-1,
				}
				parent := index[parentPath]
				parent.Children = append(parent.Children, node)
				index[path] = node
			}
			parentPath = path
		}
	}

	sortTree(root.Children)
	// The src directory opens by default when present.
	for _, n := range root.Children {
		if n.Dir && n.Name == "src" {
			n.Expanded = true
		}
	}
	return root.Children
}

func sortTree(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].Dir != nodes[j].Dir {
			return nodes[i].Dir
		}
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		if n.Dir {
			sortTree(n.Children)
		}
	}
}

// DefaultEntry picks the file to open when a project first loads: the first
// known entry point present, falling back to the first file.
func DefaultEntry(files []generate.GeneratedFile) string {
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f.Path] = struct{}{}
	}
	for _, ep := range entryPoints {
		if _, ok := present[ep]; ok {
			return ep
		}
	}
	if len(files) > 0 {
		return files[0].Path
	}
	return ""
}

// Find returns the file with the given path, if any.
func Find(files []generate.GeneratedFile, path string) (generate.GeneratedFile, bool) {
	for _, f := range files {
		if f.Path == path {
			return f, true
		}
	}
	return generate.GeneratedFile{}, false
}

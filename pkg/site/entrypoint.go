package site

import "strings"

// DefaultEntryPoint is recorded when no HTML file can be located. It may
// not exist; detection guarantees determinism, not existence.
const DefaultEntryPoint = "index.html"

// DetectEntryPoint picks the file served when the preview URL is opened
// without a path. First match wins, in this order:
//
//  1. "index.html" at the archive root.
//  2. The first root-level file ending in ".html" (case-insensitive).
//  3. For each top-level directory in first-encountered order: its
//     "index.html", else its first ".html" file at any depth.
//  4. DefaultEntryPoint.
//
// names must be file entries in archive iteration order; the result is
// deterministic for a given list.
func DetectEntryPoint(names []string) string {
	for _, name := range names {
		if name == "index.html" {
			return name
		}
	}

	for _, name := range names {
		if !strings.Contains(name, "/") && isHTML(name) {
			return name
		}
	}

	for _, dir := range topLevelDirs(names) {
		if pick := htmlWithin(names, dir); pick != "" {
			return pick
		}
	}

	return DefaultEntryPoint
}

func isHTML(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".html")
}

// topLevelDirs returns distinct first path segments of nested entries,
// in the order they first appear.
func topLevelDirs(names []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, name := range names {
		dir, _, ok := strings.Cut(name, "/")
		if !ok || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// htmlWithin returns dir's index.html if present, else dir's first HTML
// file, else "".
func htmlWithin(names []string, dir string) string {
	index := dir + "/index.html"
	firstHTML := ""
	for _, name := range names {
		if name == index {
			return index
		}
		if firstHTML == "" && strings.HasPrefix(name, dir+"/") && isHTML(name) {
			firstHTML = name
		}
	}
	return firstHTML
}

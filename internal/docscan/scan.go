package docscan

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/util/sets"
)

var (
	// A whole line naming the included fragment, with an empty attribute list.
	includePattern = regexp.MustCompile(`(?m)^include::(.+?)\[\]\r?$`)
	// Block (image::) and inline (image:) macros. The attribute list is unused.
	imagePattern = regexp.MustCompile(`image::?(.+?)\[(.*)\]`)
)

var remotePrefixes = []string{"http:", "https:"}

// ImageRef is one embedded image: where it is read from and where it lands.
type ImageRef struct {
	Source string
	Dest   string
}

// Result holds the references found in one document.
type Result struct {
	Includes sets.Set[string]
	Images   []ImageRef
	// Remote lists image targets skipped because they carry a network scheme.
	Remote []string
}

// Scan extracts inclusions and images from text, the contents of the
// document at source. Inclusions and image sources resolve against source;
// image destinations resolve against apparent, the page the text ends up in.
// For a top-level page source and apparent are the same path.
func Scan(text, source, apparent string) Result {
	res := Result{Includes: sets.New[string]()}

	for _, m := range includePattern.FindAllStringSubmatch(text, -1) {
		res.Includes.Add(Resolve(source, m[1]))
	}

	for _, m := range imagePattern.FindAllStringSubmatch(text, -1) {
		target := m[1]
		if IsRemote(target) {
			res.Remote = append(res.Remote, target)
			continue
		}
		res.Images = append(res.Images, ImageRef{
			Source: Resolve(source, target),
			Dest:   Resolve(apparent, target),
		})
	}

	return res
}

// IsRemote reports whether an image target is a network address.
func IsRemote(target string) bool {
	for _, p := range remotePrefixes {
		if strings.HasPrefix(target, p) {
			return true
		}
	}
	return false
}

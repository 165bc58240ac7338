// Package docscan resolves relative references found in AsciiDoc sources and
// extracts the two reference kinds that shape the build graph: fragment
// inclusions (include::target[]) and embedded images (image::target[...]).
//
// Every path handled here is a logical path: slash separated, relative to the
// document tree root, cleaned of "." and ".." segments.
//
// Images have two resolutions. The source path is resolved against the
// document that literally contains the reference, because that is where the
// file lives in the input tree. The destination path is resolved against the
// apparent document, which for a fragment is the top-level page that
// transcludes it, because the rendered page is what the browser resolves the
// reference against.
package docscan

package models

// ImageRef is a tagged reference to image content: either bytes already in
// hand or a remote URL. Remote refs are resolved once at the pipeline
// boundary, before any validator sees them, so validators never deal with
// fetching.
type ImageRef struct {
	url  string
	data []byte
}

// LocalImage wraps raw image bytes.
func LocalImage(data []byte) ImageRef {
	return ImageRef{data: data}
}

// RemoteImage wraps a URL to be fetched at the boundary.
func RemoteImage(url string) ImageRef {
	return ImageRef{url: url}
}

// IsZero reports whether the ref points at nothing (image never uploaded).
func (r ImageRef) IsZero() bool {
	return r.url == "" && len(r.data) == 0
}

// IsRemote reports whether the ref still needs fetching.
func (r ImageRef) IsRemote() bool {
	return r.url != "" && len(r.data) == 0
}

// URL returns the remote location, empty for local refs.
func (r ImageRef) URL() string { return r.url }

// Bytes returns the image content, nil for unresolved remote refs.
func (r ImageRef) Bytes() []byte { return r.data }

// Resolved returns a copy of the ref carrying the fetched bytes.
func (r ImageRef) Resolved(data []byte) ImageRef {
	return ImageRef{url: r.url, data: data}
}

package registry

// ManifestResult carries either a digest or the reason it could not be
// resolved, never both.
type ManifestResult struct {
	Digest string `json:"digest,omitempty"`
	Error  string `json:"error,omitempty"`
}

func NewManifestResult(digest string, err error) ManifestResult {
	if err != nil {
		return ManifestResult{Error: err.Error()}
	}

	return ManifestResult{Digest: digest}
}

// TagsResult carries either the tags in registry order or the reason listing
// failed, never both.
type TagsResult struct {
	Tags  []string `json:"tags,omitempty"`
	Error string   `json:"error,omitempty"`
}

func NewTagsResult(tags []string, err error) TagsResult {
	if err != nil {
		return TagsResult{Error: err.Error()}
	}

	if tags == nil {
		tags = []string{}
	}

	return TagsResult{Tags: tags}
}

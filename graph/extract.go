package graph

import (
	"regexp"
	"sort"
)

// LinkRef is one cross-reference extracted from record text.
type LinkRef struct {
	LinkType string
	RawID    string
	Start    int
	End      int
}

// CompositeID returns the referenced node's graph key.
func (l LinkRef) CompositeID() string {
	return CompositeID(l.LinkType, l.RawID)
}

// The two supported link syntaxes are kept as independent pattern/extractor
// pairs merged into one ordered match list, so a further syntax can be added
// without disturbing these.
var (
	// [[type:id|Display Text]] or [[type:id]]
	wikiLinkPattern = regexp.MustCompile(`\[\[([a-z_]+):([^\]|]+?)(?:\|[^\]]*)?\]\]`)
	// vault://type/id
	vaultURLPattern = regexp.MustCompile(`vault://([a-z_]+)/([A-Za-z0-9._~-]+)`)
)

type linkExtractor func(text string) []LinkRef

var linkExtractors = []linkExtractor{extractWikiLinks, extractVaultURLs}

// ExtractLinks scans text for every supported link syntax and returns the
// matches ordered by their position in the text.
func ExtractLinks(text string) []LinkRef {
	if text == "" {
		return nil
	}
	var refs []LinkRef
	for _, extract := range linkExtractors {
		refs = append(refs, extract(text)...)
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })
	return refs
}

func extractWikiLinks(text string) []LinkRef {
	var refs []LinkRef
	for _, match := range wikiLinkPattern.FindAllStringSubmatchIndex(text, -1) {
		refs = append(refs, LinkRef{
			LinkType: text[match[2]:match[3]],
			RawID:    text[match[4]:match[5]],
			Start:    match[0],
			End:      match[1],
		})
	}
	return refs
}

func extractVaultURLs(text string) []LinkRef {
	var refs []LinkRef
	for _, match := range vaultURLPattern.FindAllStringSubmatchIndex(text, -1) {
		refs = append(refs, LinkRef{
			LinkType: text[match[2]:match[3]],
			RawID:    text[match[4]:match[5]],
			Start:    match[0],
			End:      match[1],
		})
	}
	return refs
}

package graph

// EntityClass describes one vault entity category: the storage type name
// used for list/get calls, the link-type name used in cross-references, and
// the node type it projects to.
type EntityClass struct {
	EntityType string
	LinkType   string
	NodeType   NodeType
}

// Catalog is the closed set of entity categories aggregated into the graph.
var Catalog = []EntityClass{
	{"note", "note", NodeTypeNote},
	{"task", "task", NodeTypeTask},
	{"project", "project", NodeTypeProject},
	{"contact", "contact", NodeTypeContact},
	{"company", "company", NodeTypeCompany},
	{"contact_group", "group", NodeTypeContactGroup},
	{"event", "event", NodeTypeEvent},
	{"journal_entry", "journal", NodeTypeJournal},
	{"deal", "deal", NodeTypeDeal},
	{"transaction", "transaction", NodeTypeTransaction},
	{"snippet", "snippet", NodeTypeSnippet},
	{"feed_article", "article", NodeTypeFeedArticle},
	{"credential", "credential", NodeTypeCredential},
	{"file", "file", NodeTypeFile},
}

// linkTypeIndex resolves a link-type name back to its class.
var linkTypeIndex = func() map[string]EntityClass {
	index := make(map[string]EntityClass, len(Catalog))
	for _, class := range Catalog {
		index[class.LinkType] = class
	}
	return index
}()

// ClassForLinkType resolves a link-type name to its entity class.
func ClassForLinkType(linkType string) (EntityClass, bool) {
	class, ok := linkTypeIndex[linkType]
	return class, ok
}

// titleFields lists entity-specific title candidates, checked before the
// generic candidates.
var titleFields = map[string][]string{
	"contact":       {"full_name", "display_name", "first_name"},
	"company":       {"company_name", "name"},
	"event":         {"summary", "title"},
	"transaction":   {"description", "payee"},
	"deal":          {"deal_name", "title"},
	"file":          {"filename", "name"},
	"credential":    {"service", "title"},
	"feed_article":  {"headline", "title"},
	"journal_entry": {"title", "date"},
}

// genericTitleFields is the shared fallback order for every entity type.
var genericTitleFields = []string{"title", "name", "display_name", "full_name", "subject", "label"}

// contentFields lists the text-bearing fields scanned for embedded links,
// in concatenation order.
var contentFields = []string{"content", "body", "description", "notes", "text"}

// structuralRef describes one single-valued or multi-valued foreign key that
// the structural pass turns into edges.
type structuralRef struct {
	entityType string
	field      string
	multi      bool // field holds an array of raw ids
	targetLink string
	edgeType   EdgeType
}

// structuralRefs is the closed table of foreign keys known to the vault
// schema. Unresolvable references are skipped, never fatal.
var structuralRefs = []structuralRef{
	{"note", "parent_id", false, "note", EdgeTypeHierarchy},
	{"task", "parent_id", false, "task", EdgeTypeHierarchy},
	{"task", "project_id", false, "project", EdgeTypeMembership},
	{"note", "project_id", false, "project", EdgeTypeMembership},
	{"deal", "project_id", false, "project", EdgeTypeMembership},
	{"contact", "company_id", false, "company", EdgeTypeMembership},
	{"deal", "company_id", false, "company", EdgeTypeMembership},
	{"contact_group", "member_ids", true, "contact", EdgeTypeMembership},
	{"file", "parent_id", false, "file", EdgeTypeHierarchy},
	{"snippet", "source_id", false, "note", EdgeTypeWikiSource},
}

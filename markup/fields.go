package markup

import (
	"github.com/tliron/commonlog"

	"github.com/dhamidi/errai-ls/errai/cache"
)

var log = commonlog.GetLogger("errai-ls.markup")

// DefaultFieldAttribute tags an element as a data field.
const DefaultFieldAttribute = "data-field"

// Collect indexes the elements below root that carry attr, by attribute
// value. The traversal is pre-order; when two elements share a name the one
// appearing later in the document wins. root itself is considered only when
// includeRoot is set.
func Collect(root *Node, attr string, includeRoot bool) map[string]*Node {
	result := make(map[string]*Node)
	if root == nil {
		return result
	}
	root.Walk(func(n *Node) bool {
		if n == root && !includeRoot {
			return true
		}
		if a := n.Attr(attr); a != nil && a.HasValue {
			result[a.Value] = n
		}
		return true
	})
	return result
}

type fieldKey struct {
	path        string
	includeRoot bool
}

// FieldCache memoizes Collect per document. An entry is reused while the
// document stamp and the root element it was computed for are unchanged.
type FieldCache struct {
	attr    string
	entries cache.Cache[fieldKey, map[string]*Node]
}

func NewFieldCache(attr string) *FieldCache {
	if attr == "" {
		attr = DefaultFieldAttribute
	}
	return &FieldCache{attr: attr}
}

func (c *FieldCache) Attribute() string {
	return c.attr
}

// FindOrCompute returns the tagged elements below root. The returned map is
// shared and must not be modified.
func (c *FieldCache) FindOrCompute(doc *Document, root *Node, includeRoot bool) map[string]*Node {
	if doc == nil || root == nil {
		return map[string]*Node{}
	}
	key := fieldKey{path: doc.Path, includeRoot: includeRoot}
	return c.entries.FindOrCompute(key, doc.Stamp, root, func() map[string]*Node {
		log.Debugf("indexing %s in %s (stamp %d)", c.attr, doc.Path, doc.Stamp)
		return Collect(root, c.attr, includeRoot)
	})
}

// Evict drops the entries computed for path.
func (c *FieldCache) Evict(path string) {
	c.entries.Evict(func(k fieldKey) bool { return k.path == path })
}

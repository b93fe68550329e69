package mapping

import "strings"

// Partor layers hierarchical, most-compact-SAID graduated disclosure on
// top of Mapper. A tree of nested Mads can be compacted branch by
// branch, replacing a sub-map with its SAID string, down to a single
// top-level SAID anchoring the whole tree's most compact form.
type Partor struct {
	root   *Mad
	strict bool
	saids  map[string]string

	leaves   map[string]*Mapper // dot-delimited path -> leaf Mapper, "" is top level
	partials []Partial
}

// Partial records one intermediate degree of disclosure produced by
// Compact: the set of leaf paths present at that stage, and a Mapper
// serializing the tree in that state.
type Partial struct {
	Paths  []string
	Mapper *Mapper
}

// NewPartor wraps root for hierarchical partial-disclosure processing.
func NewPartor(root *Mad, opts ...Option) *Partor {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if root == nil {
		root = NewMad()
	}
	return &Partor{root: root, strict: cfg.strict, saids: cfg.saids}
}

// Root returns the (possibly mutated by Compact) root field map.
func (p *Partor) Root() *Mad { return p.root }

// Leaves returns the leaf Mappers recorded by the most recent Trace.
func (p *Partor) Leaves() map[string]*Mapper { return p.leaves }

// Partials returns every intermediate disclosure state recorded by the
// most recent Compact call.
func (p *Partor) Partials() []Partial { return p.partials }

// IsCompact reports nil if the tree has never been traced, true if a
// single top-level leaf carries a SAID, false otherwise.
func (p *Partor) IsCompact() *bool {
	if p.leaves == nil {
		return nil
	}
	compact := len(p.leaves) == 1
	if compact {
		if _, ok := p.leaves[""]; !ok {
			compact = false
		}
	}
	return &compact
}

// Trace performs a depth-first walk of the tree, identifying leaves (a
// node carrying a SAID-field label at its own top level with no
// descendant map also carrying one). When saidify is true, each leaf's
// SAID(s) are computed and assigned back into the tree in place.
func (p *Partor) Trace(saidify bool) ([]string, error) {
	p.leaves = make(map[string]*Mapper)
	_, err := p.trace(p.root, "", saidify)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(p.leaves))
	for path := range p.leaves {
		paths = append(paths, path)
	}
	return paths, nil
}

// trace returns whether this node or any descendant carries a said
// field, so the caller can decide if it itself may be a leaf.
func (p *Partor) trace(node *Mad, path string, saidify bool) (hasSaidBelow bool, err error) {
	nodeHasSaid := false
	for label := range p.saids {
		v, ok := node.Get(label)
		if !ok {
			continue
		}
		if _, isMap := v.(*Mad); isMap {
			return false, errInvalidValue("said field holds a nested map: " + label)
		}
		nodeHasSaid = true
	}

	descendantHasSaid := false
	for _, label := range node.Keys() {
		v, _ := node.Get(label)
		child, ok := v.(*Mad)
		if !ok {
			continue
		}
		childPath := label
		if path != "" {
			childPath = path + "." + label
		}
		childHasSaid, err := p.trace(child, childPath, saidify)
		if err != nil {
			return false, err
		}
		if childHasSaid {
			descendantHasSaid = true
		}
	}

	isLeaf := nodeHasSaid && !descendantHasSaid
	if isLeaf {
		leafMapper, err := NewMapper(node.Clone(),
			WithStrict(p.strict), WithSaidive(true), WithSaids(p.saids),
			WithMakify(saidify), WithVerify(false))
		if err != nil {
			return false, err
		}
		if saidify {
			for label := range p.saids {
				if said, ok := leafMapper.Mad().Get(label); ok {
					if _, present := node.Get(label); present {
						node.Set(label, said)
					}
				}
			}
		}
		p.leaves[path] = leafMapper
	}

	return nodeHasSaid || descendantHasSaid, nil
}

// getSubMad descends path (dot-delimited, "" is root) returning the Mad
// found there, or nil if any segment is missing or not a map.
func (p *Partor) getSubMad(path string) *Mad {
	node := p.root
	if path == "" {
		return node
	}
	for _, label := range strings.Split(path, ".") {
		v, ok := node.Get(label)
		if !ok {
			return nil
		}
		child, ok := v.(*Mad)
		if !ok {
			return nil
		}
		node = child
	}
	return node
}

// getSuperMad returns the Mad directly containing path's final label
// (its parent container), or nil if path is "" or any segment is
// missing.
func (p *Partor) getSuperMad(path string) *Mad {
	if path == "" {
		return nil
	}
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return p.root
	}
	return p.getSubMad(path[:idx])
}

// GetSubMad is the exported form of getSubMad.
func (p *Partor) GetSubMad(path string) *Mad { return p.getSubMad(path) }

// GetSuperMad is the exported form of getSuperMad.
func (p *Partor) GetSuperMad(path string) *Mad { return p.getSuperMad(path) }

// Compact iteratively traces and saidifies leaves, then replaces each
// non-top-level leaf's sub-map in the parent tree with its computed
// SAID string, re-tracing after each replacement round, until the tree
// is compact (a single top-level leaf with a SAID). Every intermediate
// state is recorded as a Partial.
func (p *Partor) Compact() error {
	p.partials = nil
	for {
		paths, err := p.Trace(true)
		if err != nil {
			return err
		}

		snapshot, err := NewMapper(p.root, WithStrict(p.strict))
		if err != nil {
			return err
		}
		p.partials = append(p.partials, Partial{Paths: paths, Mapper: snapshot})

		if compact := p.IsCompact(); compact != nil && *compact {
			return nil
		}

		replaced := false
		for _, path := range paths {
			if path == "" {
				continue
			}
			leafMapper := p.leaves[path]
			parent := p.getSuperMad(path)
			if parent == nil {
				continue
			}
			label := path
			if idx := strings.LastIndex(path, "."); idx >= 0 {
				label = path[idx+1:]
			}
			said, ok := p.primarySaid(leafMapper)
			if !ok {
				continue
			}
			parent.Set(label, said)
			replaced = true
		}

		if !replaced {
			return errInvalidValue("compaction made no progress")
		}
	}
}

func (p *Partor) primarySaid(m *Mapper) (string, bool) {
	for label := range p.saids {
		if v, ok := m.Mad().Get(label); ok {
			if s, ok := v.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

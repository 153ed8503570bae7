package model

import (
	"errors"
	"fmt"
	"io/fs"

	json "github.com/goccy/go-json"
)

// Layer is partial node map loaded from override file: node id to partial
// node in its JSON form.
type Layer map[string]map[string]any

// LoadLayer reads override layer from file. Absent file is not an error, nil
// layer is returned.
func LoadLayer(path string) (Layer, error) {
	var l Layer
	if err := LoadJSON(path, &l); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// Apply deep merges layer into document nodes. Present keys of the layer
// win, nested objects (style, attributes, assets...) are merged key by key
// rather than replaced. Layer entries for nodes not in the document are
// skipped and their ids returned.
func (d *Document) Apply(l Layer) (skipped []string, err error) {
	for id, partial := range l {
		n, ok := d.Nodes[id]
		if !ok {
			skipped = append(skipped, id)
			continue
		}
		merged, err := MergeNode(n, partial)
		if err != nil {
			return skipped, fmt.Errorf("unable to merge node %q: %w", id, err)
		}
		// id is the merge key and cannot be changed by layer
		merged.ID = id
		d.Nodes[id] = merged
	}
	return skipped, nil
}

// MergeNode returns new node which is n with partial deep merged on top.
func MergeNode(n *Node, partial map[string]any) (*Node, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	var base map[string]any
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, err
	}
	DeepMerge(base, partial)
	if data, err = json.Marshal(base); err != nil {
		return nil, err
	}
	var res Node
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeepMerge merges src into dst. When both sides hold objects for the same
// key merge recurses, otherwise value from src replaces dst.
func DeepMerge(dst, src map[string]any) {
	for k, sv := range src {
		sm, sok := sv.(map[string]any)
		dm, dok := dst[k].(map[string]any)
		if sok && dok {
			DeepMerge(dm, sm)
			continue
		}
		if sok {
			// copy so later merges never alias layer data
			cp := make(map[string]any, len(sm))
			DeepMerge(cp, sm)
			dst[k] = cp
			continue
		}
		dst[k] = sv
	}
}

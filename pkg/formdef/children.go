package formdef

import "sort"

// OrderedChildren returns the children in :itemsOrder order. Keys without a
// matching entry are skipped; Validate reports them.
func (f *Field) OrderedChildren() []*Field {
	if f == nil || len(f.ItemsOrder) == 0 {
		return nil
	}
	out := make([]*Field, 0, len(f.ItemsOrder))
	for _, key := range f.ItemsOrder {
		if child, ok := f.Items[key]; ok && child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Validate checks, recursively, that :itemsOrder is a permutation of the
// :items keys. The first violation is returned as *InvariantError.
func (f *Field) Validate() error {
	return f.validate("")
}

func (f *Field) validate(path string) error {
	if f == nil {
		return nil
	}
	seen := make(map[string]int, len(f.ItemsOrder))
	var missing, duplicate, extra []string
	for _, key := range f.ItemsOrder {
		seen[key]++
		if seen[key] == 2 {
			duplicate = append(duplicate, key)
		}
		if _, ok := f.Items[key]; !ok && seen[key] == 1 {
			missing = append(missing, key)
		}
	}
	for key := range f.Items {
		if seen[key] == 0 {
			extra = append(extra, key)
		}
	}
	if len(missing)+len(duplicate)+len(extra) > 0 {
		sort.Strings(extra)
		return &InvariantError{Path: path, Missing: missing, Extra: extra, Duplicate: duplicate}
	}

	for _, key := range f.ItemsOrder {
		if err := f.Items[key].validate(joinPath(path, key)); err != nil {
			return err
		}
	}
	for i, child := range f.List {
		if err := child.validate(joinPath(path, listKey(child, i))); err != nil {
			return err
		}
	}
	return nil
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "/" + key
}

func listKey(f *Field, i int) string {
	if f != nil && f.ID != "" {
		return f.ID
	}
	return "items[" + FormatValue(i) + "]"
}

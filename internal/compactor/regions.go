package compactor

// Regions maps labels to de-duplicated CIDR strings. Labels are kept in the
// order they were first added, and so are the CIDRs within a label.
type Regions struct {
	order  []string
	byName map[string]*region
}

type region struct {
	seen  map[string]struct{}
	cidrs []string
}

// NewRegions returns an empty Regions.
func NewRegions() *Regions {
	return &Regions{byName: make(map[string]*region)}
}

// Add records cidrs under label. The label is registered even when cidrs is
// empty.
func (r *Regions) Add(label string, cidrs []string) {
	reg, ok := r.byName[label]
	if !ok {
		reg = &region{seen: make(map[string]struct{})}
		r.byName[label] = reg
		r.order = append(r.order, label)
	}
	for _, c := range cidrs {
		if _, dup := reg.seen[c]; dup {
			continue
		}
		reg.seen[c] = struct{}{}
		reg.cidrs = append(reg.cidrs, c)
	}
}

// Labels returns the labels in first-seen order.
func (r *Regions) Labels() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// CIDRs returns the CIDR strings recorded for label.
func (r *Regions) CIDRs(label string) []string {
	reg, ok := r.byName[label]
	if !ok {
		return nil
	}
	out := make([]string, len(reg.cidrs))
	copy(out, reg.cidrs)
	return out
}

// Total returns the number of CIDR entries across all labels.
func (r *Regions) Total() int {
	n := 0
	for _, reg := range r.byName {
		n += len(reg.cidrs)
	}
	return n
}

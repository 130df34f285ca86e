package domain

// ChecklistSection is one titled group of action steps in a kit.
type ChecklistSection struct {
	Section string   `json:"section"`
	Items   []string `json:"items"`
}

// Checklist is the ordered action plan of a kit.
type Checklist []ChecklistSection

// Texts flattens every section title and item, in order.
func (c Checklist) Texts() []string {
	out := make([]string, 0, len(c)*4)
	for _, s := range c {
		out = append(out, s.Section)
		out = append(out, s.Items...)
	}
	return out
}

// Clone returns a deep copy.
func (c Checklist) Clone() Checklist {
	if c == nil {
		return nil
	}
	out := make(Checklist, len(c))
	for i, s := range c {
		out[i] = ChecklistSection{Section: s.Section, Items: append([]string(nil), s.Items...)}
	}
	return out
}

package layer

// Layer is a named configuration map.
type Layer struct {
	Name string
	Data map[string]any
}

// Stack holds layers from lowest to highest priority.
// It is not safe for concurrent use.
type Stack struct {
	layers []Layer
}

// NewStack creates an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Set replaces the layer with the given name, or appends it on top when absent.
func (s *Stack) Set(name string, data map[string]any) {
	for i := range s.layers {
		if s.layers[i].Name == name {
			s.layers[i].Data = data
			return
		}
	}
	s.layers = append(s.layers, Layer{Name: name, Data: data})
}

// Get returns the data of the named layer.
func (s *Stack) Get(name string) (map[string]any, bool) {
	for _, l := range s.layers {
		if l.Name == name {
			return l.Data, true
		}
	}
	return nil, false
}

// Names returns the layer names from lowest to highest priority.
func (s *Stack) Names() []string {
	names := make([]string, len(s.layers))
	for i, l := range s.layers {
		names[i] = l.Name
	}
	return names
}

// Merge deep-merges all layers into a fresh map.
func (s *Stack) Merge() map[string]any {
	merged := make(map[string]any)
	for _, l := range s.layers {
		DeepMerge(merged, l.Data)
	}
	return merged
}

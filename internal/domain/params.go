package domain

// Params is an open set of marker-line parameters. Values carry the type the
// header tokenizer assigned them: string, int, float64 or bool.
type Params map[string]any

// Clone returns an independent copy. All values are scalars, so a key-wise
// copy is a deep copy.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge copies every key from other onto p, overriding existing keys and
// leaving keys absent from other untouched.
func (p Params) Merge(other Params) {
	for k, v := range other {
		p[k] = v
	}
}

package types

// Implementor describes one concrete type implementing a trait.
// All fields are opaque to the delivery core.
type Implementor struct {
	// Text is the rendered description, usually markup
	Text string `json:"text" yaml:"text" toml:"text"`

	// Generics lists the generic parameters of the impl block
	Generics []string `json:"generics,omitempty" yaml:"generics,omitempty" toml:"generics,omitempty"`

	// Where lists the where-clause predicates of the impl block
	Where []string `json:"where,omitempty" yaml:"where,omitempty" toml:"where,omitempty"`

	// Synthetic marks impls produced by the generator (auto or blanket impls)
	Synthetic bool `json:"synthetic,omitempty" yaml:"synthetic,omitempty" toml:"synthetic,omitempty"`
}

// Payload is the ordered sequence of implementors carried by one shard.
// It may be empty.
type Payload []Implementor

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	if p == nil {
		return nil
	}
	out := make(Payload, len(p))
	for i, impl := range p {
		out[i] = Implementor{
			Text:      impl.Text,
			Generics:  cloneStrings(impl.Generics),
			Where:     cloneStrings(impl.Where),
			Synthetic: impl.Synthetic,
		}
	}
	return out
}

// Texts returns the rendered text of every implementor, in order.
func (p Payload) Texts() []string {
	texts := make([]string, len(p))
	for i, impl := range p {
		texts[i] = impl.Text
	}
	return texts
}

// PayloadOf builds a payload of plain-text implementors
func PayloadOf(texts ...string) Payload {
	p := make(Payload, len(texts))
	for i, text := range texts {
		p[i] = Implementor{Text: text}
	}
	return p
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

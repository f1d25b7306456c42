package insightslog

// Formatter is the last step before a payload reaches the client. It receives
// the submission kind, the record's original level name and the assembled
// payload; the payload it returns is the one submitted.
type Formatter interface {
	Format(kind Kind, level string, p Payload) Payload
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(kind Kind, level string, p Payload) Payload

func (f FormatterFunc) Format(kind Kind, level string, p Payload) Payload {
	return f(kind, level, p)
}

// WithProperties returns a Formatter that adds fixed properties to every
// submission without overriding keys already present.
func WithProperties(extra Properties) Formatter {
	return FormatterFunc(func(_ Kind, _ string, p Payload) Payload {
		props := make(Properties, len(p.Properties)+len(extra))
		merge(props, extra, p.Properties)
		p.Properties = props
		return p
	})
}

// Chain runs formatters in order, feeding each the previous result.
func Chain(formatters ...Formatter) Formatter {
	return FormatterFunc(func(kind Kind, level string, p Payload) Payload {
		for _, f := range formatters {
			if f != nil {
				p = f.Format(kind, level, p)
			}
		}
		return p
	})
}

package termsession

import "bytes"

var crnl = []byte("\r\n")

// OutputPump feeds raw process output to the engine and hands the resulting
// events to a sink, in order. Writes are split at newlines and every NL is
// fed as CR-NL, which is what a process writing to a pipe intends.
type OutputPump struct {
	engine Engine
	sink   func(Event)
}

// NewOutputPump returns a pump feeding engine and dispatching to sink.
func NewOutputPump(engine Engine, sink func(Event)) *OutputPump {
	return &OutputPump{engine: engine, sink: sink}
}

// Feed writes one run of process output to the engine, then flushes.
func (p *OutputPump) Feed(data []byte) {
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			if len(data) > 0 {
				p.engine.Feed(data)
			}
			break
		}
		if i > 0 {
			p.engine.Feed(data[:i])
		}
		// Convert NL to CR-NL, that appears to work best.
		p.engine.Feed(crnl)
		data = data[i+1:]
	}
	p.Flush()
}

// Flush drains the engine's pending events to the sink, in order.
func (p *OutputPump) Flush() {
	for _, ev := range p.engine.Flush() {
		p.sink(ev)
	}
}

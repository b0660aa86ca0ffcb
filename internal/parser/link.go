package parser

import (
	"github.com/shapestone/shape-dbc/internal/model"
)

// link attaches every pending value table to its signal.
// Unresolvable tables are reported as info problems and skipped.
func (p *Parser) link() {
	for _, vt := range p.pending {
		if !vt.ValidID {
			p.problems.Info(vt.SourceLine,
				"VAL_ line could not be matched to BO_ because its CAN ID is not a number. Nothing will break, but the states are not attached to any parameter.")
			continue
		}

		idx, ok := p.index[vt.MessageID]
		if !ok {
			p.problems.Info(vt.SourceLine,
				"VAL_ line could not be matched to BO_ because CAN ID %d can not be found in any message. Nothing will break, and if the correct values/states are added later there won't even be any data loss.",
				vt.MessageID)
			continue
		}

		msg := &p.messages[idx]
		sig, ok := msg.Signal(vt.SignalName)
		if !ok {
			p.problems.Info(vt.SourceLine,
				"VAL_ line could not be matched to SG_ because there's no parameter with the name %q in message %s. Nothing will break, but the parameter might be missing from the DBC file.",
				vt.SignalName, msg.Name)
			continue
		}

		sig.States = vt.States
		p.log.V(1).Info("linked value table", "line", vt.SourceLine, "canId", vt.MessageID, "signal", vt.SignalName, "states", len(vt.States))
	}
	p.pending = nil
}

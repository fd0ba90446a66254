package logic

import (
	"strconv"
	"strings"
)

// NotSampled replaces the ambient value before the first sampler cycle.
const NotSampled = "not yet sampled"

// ButtonBoard formats the aggregate digital state, e.g. "Button Board: 1 0 0 1".
func ButtonBoard(levels []bool) string {
	var b strings.Builder
	b.WriteString("Button Board:")
	for _, l := range levels {
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(boolToInt(l)))
	}
	return b.String()
}

// MotorReport formats the message sent after a motor pulse.
func MotorReport(ambient uint16, sampled bool) string {
	return "boop detected. activating motor. light level: " + ambientText(ambient, sampled)
}

// ToggleReport formats the message sent after an LED toggle.
func ToggleReport(ambient uint16, sampled bool, threshold uint16) string {
	if !sampled {
		return "boop detected. light level: " + NotSampled
	}
	return "boop detected. light level: " + string(Classify(ambient, threshold))
}

// AmbientReport formats a periodic ambient-light reading.
func AmbientReport(ambient uint16, sampled bool) string {
	return "LX Reading: " + ambientText(ambient, sampled)
}

func ambientText(v uint16, sampled bool) string {
	if !sampled {
		return NotSampled
	}
	return strconv.FormatUint(uint64(v), 10)
}

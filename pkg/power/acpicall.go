package power

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// tpacpi-bat value codes.
const (
	acpiCallStart = "ST"
	acpiCallStop  = "SP"
	acpiCallForce = "FD"
)

// acpiCallOffset is the historical device offset the firmware adds to
// stored custom threshold values; tpacpi-bat reports it verbatim.
const acpiCallOffset = 128

// acpiCallProbe checks whether the wrapper tool works at all.
func acpiCallProbe(h *Hardware) error {
	_, err := h.Command(acpiCallTool, "-g", acpiCallStart, "1")
	return err
}

// acpiCallGetThreshold reads a threshold through the wrapper tool. The
// device offset is subtracted and a raw 0 is reported as the factory
// default rather than literally, because the firmware stores "default" as
// zero. kind selects the sentinel expansion (96 for start, 100 for stop).
func acpiCallGetThreshold(h *Hardware, code string, idx int) (int, error) {
	out, err := h.Command(acpiCallTool, "-g", code, strconv.Itoa(idx))
	if err != nil {
		return 0, err
	}

	v, err := parseAcpiCallValue(out)
	if err != nil {
		return 0, err
	}

	if v >= acpiCallOffset {
		v -= acpiCallOffset
	}
	if v == 0 {
		if code == acpiCallStart {
			return DefaultStart, nil
		}
		return DefaultStop, nil
	}

	return v, nil
}

// acpiCallSetThreshold writes a threshold through the wrapper tool,
// re-encoding the factory defaults back to the firmware's 0 sentinel.
func acpiCallSetThreshold(h *Hardware, code string, idx, value int) error {
	if code == acpiCallStart && value == DefaultStart {
		value = 0
	}
	if code == acpiCallStop && value == DefaultStop {
		value = 0
	}

	_, err := h.Command(acpiCallTool, "-s", code, strconv.Itoa(idx), strconv.Itoa(value))
	return err
}

// acpiCallGetForceDischarge reads the textual yes/no discharge flag.
func acpiCallGetForceDischarge(h *Hardware, idx int) (bool, error) {
	out, err := h.Command(acpiCallTool, "-g", acpiCallForce, strconv.Itoa(idx))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(firstField(out)) {
	case "yes", "1":
		return true, nil
	case "no", "0":
		return false, nil
	}

	return false, errors.Errorf("unexpected %s output %q", acpiCallTool, out)
}

func acpiCallSetForceDischarge(h *Hardware, idx int, on bool) error {
	v := "0"
	if on {
		v = "1"
	}

	_, err := h.Command(acpiCallTool, "-s", acpiCallForce, strconv.Itoa(idx), v)
	return err
}

func parseAcpiCallValue(out string) (int, error) {
	v, err := strconv.Atoi(firstField(out))
	if err != nil {
		return 0, errors.Errorf("unexpected %s output %q", acpiCallTool, out)
	}
	return v, nil
}

func firstField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

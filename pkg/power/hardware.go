package power

import (
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

const (
	powerSupplyPath  = "/sys/class/power_supply"
	smapiPath        = "/sys/devices/platform/smapi"
	thinkpadACPIPath = "/sys/devices/platform/thinkpad_acpi"

	acpiCallTool = "tpacpi-bat"
)

// CommandRunner executes an external tool and returns its trimmed output.
// The wrapper-tool backend is the only user.
type CommandRunner interface {
	Run(name string, arg ...string) (string, error)
}

type execRunner struct{}

func (execRunner) Run(name string, arg ...string) (string, error) {
	out, err := exec.Command(name, arg...).Output()
	return strings.TrimSpace(string(out)), err
}

// Hardware is the access layer for sysfs attributes and the wrapper tool.
// All reads and writes from this package go through it, so tests can swap
// in an in-memory filesystem and a scripted runner.
type Hardware struct {
	fs  afero.Fs
	run CommandRunner
}

// NewHardware returns a Hardware backed by the real filesystem and exec.
func NewHardware() *Hardware {
	return &Hardware{
		fs:  afero.NewOsFs(),
		run: execRunner{},
	}
}

// NewMockHardware returns a Hardware with prefilled sysfs files and
// scripted tool invocations.
func NewMockHardware(files map[string]string, commands map[string]string) *Hardware {
	fs := afero.NewMemMapFs()

	for path, content := range files {
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			panic(err)
		}
	}

	return &Hardware{
		fs:  fs,
		run: &MockRunner{Outputs: commands},
	}
}

// MockRunner is a scripted CommandRunner. Invocations are keyed by the
// space-joined command line; unknown commands fail like a missing binary.
type MockRunner struct {
	Outputs map[string]string
	Errs    map[string]error
	Calls   []string
}

func (r *MockRunner) Run(name string, arg ...string) (string, error) {
	key := strings.Join(append([]string{name}, arg...), " ")
	r.Calls = append(r.Calls, key)

	if err, ok := r.Errs[key]; ok {
		return "", err
	}
	out, ok := r.Outputs[key]
	if !ok {
		return "", &exec.Error{Name: name, Err: exec.ErrNotFound}
	}

	return out, nil
}

// Exists reports whether a sysfs path is present at all.
func (h *Hardware) Exists(path string) bool {
	_, err := h.fs.Stat(path)
	return err == nil
}

// Readable reports whether a sysfs attribute can actually be read and is
// non-empty. Some kernels expose threshold attributes that return nothing,
// so mere presence is not enough.
func (h *Hardware) Readable(path string) bool {
	s, err := h.ReadString(path)
	return err == nil && s != ""
}

// ReadString reads a sysfs attribute and trims trailing whitespace.
func (h *Hardware) ReadString(path string) (string, error) {
	b, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return "", err
	}

	v := strings.TrimSpace(string(b))
	logrus.WithFields(logrus.Fields{
		"path": path,
		"val":  v,
	}).Trace("sysfs read")

	return v, nil
}

// ReadInt reads a sysfs attribute as a decimal integer.
func (h *Hardware) ReadInt(path string) (int, error) {
	s, err := h.ReadString(path)
	if err != nil {
		return 0, err
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "non-numeric value in %s", path)
	}

	return v, nil
}

// WriteString writes a sysfs attribute.
func (h *Hardware) WriteString(path, value string) error {
	logrus.WithFields(logrus.Fields{
		"path": path,
		"val":  value,
	}).Trace("sysfs write")

	f, err := h.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(value)
	return err
}

// WriteInt writes a sysfs attribute as a decimal integer.
func (h *Hardware) WriteInt(path string, value int) error {
	return h.WriteString(path, strconv.Itoa(value))
}

// Command runs the given external tool.
func (h *Hardware) Command(name string, arg ...string) (string, error) {
	logrus.WithFields(logrus.Fields{
		"cmd":  name,
		"args": arg,
	}).Trace("running tool")

	out, err := h.run.Run(name, arg...)
	if err != nil {
		return out, err
	}

	logrus.WithFields(logrus.Fields{
		"cmd": name,
		"out": out,
	}).Trace("tool output")

	return out, nil
}

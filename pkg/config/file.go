package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"
)

// DefaultPath is where the configuration file is expected.
const DefaultPath = "/etc/chargectl.conf"

var _ Config = &File{}

// File is a Config backed by a shell-style KEY=VALUE file. A missing file
// is not an error; every backend defaults to enabled and no thresholds
// are configured.
type File struct {
	path string
	env  gotenv.Env
}

// NewFile loads a configuration file.
func NewFile(path string) (*File, error) {
	f := &File{path: path}
	if err := f.Load(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *File) Load() error {
	fh, err := os.Open(f.path)
	if os.IsNotExist(err) {
		logrus.WithField("path", f.path).Debug("no config file, using defaults")
		f.env = gotenv.Env{}
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "opening config %s", f.path)
	}
	defer fh.Close()

	env, err := gotenv.StrictParse(fh)
	if err != nil {
		return errors.Wrapf(err, "parsing config %s", f.path)
	}
	f.env = env

	return nil
}

func (f *File) NativeEnabled() bool {
	return f.boolValue("NATACPI_ENABLE", true)
}

func (f *File) ACPICallEnabled() bool {
	return f.boolValue("TPACPI_ENABLE", true)
}

func (f *File) SMAPIEnabled() bool {
	return f.boolValue("TPSMAPI_ENABLE", true)
}

func (f *File) StartThreshold(label string) string {
	return f.env["START_CHARGE_THRESH_"+label]
}

func (f *File) StopThreshold(label string) string {
	return f.env["STOP_CHARGE_THRESH_"+label]
}

func (f *File) boolValue(key string, def bool) bool {
	v, ok := f.env[key]
	if !ok || v == "" {
		return def
	}
	return v != "0"
}

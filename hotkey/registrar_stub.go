//go:build !linux && !windows && !darwin

package hotkey

type unsupportedRegistrar struct{}

func NewRegistrar() Registrar { return unsupportedRegistrar{} }

func (unsupportedRegistrar) NewSession() (Session, error) { return nil, ErrUnsupported }

func Diagnose() (string, error) { return "", ErrUnsupported }

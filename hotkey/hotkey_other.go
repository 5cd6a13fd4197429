//go:build !linux && !darwin && !windows

package hotkey

func New(sink chan<- Event) (Manager, error) {
	return nil, ErrUnsupported
}

func Diagnose() (string, error) {
	return "", ErrUnsupported
}
